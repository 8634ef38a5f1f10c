package handlers

import "github.com/gin-gonic/gin"

// Register mounts every API route on group. Viewer resolution is expected
// to run earlier in the chain; auth guards the routes that need a viewer.
func Register(group *gin.RouterGroup, auth gin.HandlerFunc, recipes *RecipeHandlers, users *UserHandlers, catalog *CatalogHandlers) {
	group.POST("/auth/token/login", users.Login)

	group.GET("/tags", catalog.ListTags)
	group.GET("/tags/:id", catalog.GetTag)
	group.GET("/ingredients", catalog.SearchIngredients)
	group.GET("/ingredients/:id", catalog.GetIngredient)

	usersGroup := group.Group("/users")
	usersGroup.POST("", users.Register)
	usersGroup.GET("/me", auth, users.Me)
	usersGroup.GET("/subscriptions", auth, users.Subscriptions)
	usersGroup.GET("/:id", users.Profile)
	usersGroup.POST("/:id/subscribe", auth, users.Subscribe)
	usersGroup.DELETE("/:id/subscribe", auth, users.Unsubscribe)

	recipesGroup := group.Group("/recipes")
	recipesGroup.POST("", auth, recipes.Create)
	recipesGroup.GET("/download_shopping_cart", auth, recipes.DownloadShoppingCart)
	recipesGroup.GET("/:id", recipes.Get)
	recipesGroup.PATCH("/:id", auth, recipes.Update)
	recipesGroup.DELETE("/:id", auth, recipes.Delete)
	recipesGroup.POST("/:id/favorite", auth, recipes.AddFavorite)
	recipesGroup.DELETE("/:id/favorite", auth, recipes.RemoveFavorite)
	recipesGroup.POST("/:id/shopping_cart", auth, recipes.AddToShoppingCart)
	recipesGroup.DELETE("/:id/shopping_cart", auth, recipes.RemoveFromShoppingCart)
}

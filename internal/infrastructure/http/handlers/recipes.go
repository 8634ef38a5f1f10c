package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/alchemorsel/foodgram/internal/infrastructure/http/middleware"
	"github.com/alchemorsel/foodgram/internal/ports/inbound"
	"github.com/alchemorsel/foodgram/pkg/errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ImageDecoder turns the image field of a request into an upload
type ImageDecoder func(value string) (*inbound.ImageUpload, error)

// RecipeHandlers serves recipes and the recipe-side relation toggles
type RecipeHandlers struct {
	recipes     inbound.RecipeService
	relations   inbound.RelationService
	decodeImage ImageDecoder
	logger      *zap.Logger
}

// NewRecipeHandlers creates recipe handlers
func NewRecipeHandlers(
	recipes inbound.RecipeService,
	relations inbound.RelationService,
	decodeImage ImageDecoder,
	logger *zap.Logger,
) *RecipeHandlers {
	return &RecipeHandlers{
		recipes:     recipes,
		relations:   relations,
		decodeImage: decodeImage,
		logger:      logger.Named("recipe-handlers"),
	}
}

// RecipeRequest is the body of create and update. Image is a base64 data URI.
// Ids stay strings here so malformed ones are reported against their field.
type RecipeRequest struct {
	Ingredients []IngredientRequest `json:"ingredients"`
	Tags        []string            `json:"tags"`
	Image       *string             `json:"image"`
	Name        string              `json:"name"`
	Text        string              `json:"text"`
	CookingTime int                 `json:"cooking_time"`
}

// IngredientRequest is one ingredient line of a RecipeRequest
type IngredientRequest struct {
	ID     string `json:"id"`
	Amount int    `json:"amount"`
}

func (h *RecipeHandlers) input(req RecipeRequest) (inbound.RecipeInput, error) {
	in := inbound.RecipeInput{
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
	}
	var problems []errors.ValidationError

	for _, item := range req.Ingredients {
		id, err := uuid.Parse(item.ID)
		if err != nil {
			problems = append(problems, malformedID("ingredients", "ingredient", item.ID))
			continue
		}
		in.Ingredients = append(in.Ingredients, inbound.IngredientAmount{ID: id, Amount: item.Amount})
	}
	for _, raw := range req.Tags {
		id, err := uuid.Parse(raw)
		if err != nil {
			problems = append(problems, malformedID("tags", "tag", raw))
			continue
		}
		in.Tags = append(in.Tags, id)
	}

	if req.Image != nil && *req.Image != "" {
		img, err := h.decodeImage(*req.Image)
		if err != nil {
			problems = append(problems, errors.ValidationError{
				Field:   "image",
				Tag:     "image",
				Message: err.Error(),
			})
		} else {
			in.Image = img
		}
	}

	if len(problems) > 0 {
		return in, errors.NewValidationErrors(problems)
	}
	return in, nil
}

func malformedID(field, noun, raw string) errors.ValidationError {
	return errors.ValidationError{
		Field:   field,
		Value:   raw,
		Tag:     "uuid",
		Message: fmt.Sprintf("%s id %q is not valid", noun, raw),
	}
}

// Create handles POST /api/recipes
func (h *RecipeHandlers) Create(c *gin.Context) {
	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, bindError(err))
		return
	}
	in, err := h.input(req)
	if err != nil {
		fail(c, err)
		return
	}

	view, err := h.recipes.CreateRecipe(c.Request.Context(), inbound.CreateRecipeCommand{
		AuthorID:    viewer(c),
		RecipeInput: in,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// Update handles PATCH /api/recipes/:id. Every field is replaced; the image
// may be omitted to keep the current one.
func (h *RecipeHandlers) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}
	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, bindError(err))
		return
	}
	in, err := h.input(req)
	if err != nil {
		fail(c, err)
		return
	}

	view, err := h.recipes.ReplaceRecipe(c.Request.Context(), inbound.ReplaceRecipeCommand{
		RecipeID:    id,
		ActorID:     viewer(c),
		RecipeInput: in,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Get handles GET /api/recipes/:id
func (h *RecipeHandlers) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}
	view, err := h.recipes.GetRecipe(c.Request.Context(), id, middleware.ViewerID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Delete handles DELETE /api/recipes/:id
func (h *RecipeHandlers) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.recipes.DeleteRecipe(c.Request.Context(), id, viewer(c)); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddFavorite handles POST /api/recipes/:id/favorite
func (h *RecipeHandlers) AddFavorite(c *gin.Context) {
	h.add(c, h.relations.AddFavorite)
}

// RemoveFavorite handles DELETE /api/recipes/:id/favorite
func (h *RecipeHandlers) RemoveFavorite(c *gin.Context) {
	h.remove(c, h.relations.RemoveFavorite)
}

// AddToShoppingCart handles POST /api/recipes/:id/shopping_cart
func (h *RecipeHandlers) AddToShoppingCart(c *gin.Context) {
	h.add(c, h.relations.AddToShoppingCart)
}

// RemoveFromShoppingCart handles DELETE /api/recipes/:id/shopping_cart
func (h *RecipeHandlers) RemoveFromShoppingCart(c *gin.Context) {
	h.remove(c, h.relations.RemoveFromShoppingCart)
}

func (h *RecipeHandlers) add(c *gin.Context, fn func(context.Context, uuid.UUID, uuid.UUID) (*inbound.RecipeShortView, error)) {
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}
	view, err := fn(c.Request.Context(), viewer(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *RecipeHandlers) remove(c *gin.Context, fn func(context.Context, uuid.UUID, uuid.UUID) error) {
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := fn(c.Request.Context(), viewer(c), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DownloadShoppingCart handles GET /api/recipes/download_shopping_cart.
// ?format=txt returns a plain-text attachment, anything else JSON.
func (h *RecipeHandlers) DownloadShoppingCart(c *gin.Context) {
	items, err := h.relations.ShoppingList(c.Request.Context(), viewer(c))
	if err != nil {
		fail(c, err)
		return
	}

	if c.Query("format") != "txt" {
		if items == nil {
			items = []inbound.ShoppingListItem{}
		}
		c.JSON(http.StatusOK, items)
		return
	}

	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "%s (%s): %d\n", item.Name, item.MeasurementUnit, item.Amount)
	}
	c.Header("Content-Disposition", `attachment; filename="shopping_list.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(b.String()))
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	userapp "github.com/alchemorsel/foodgram/internal/application/user"
	"github.com/alchemorsel/foodgram/internal/domain/user"
	"github.com/alchemorsel/foodgram/internal/infrastructure/config"
	"github.com/alchemorsel/foodgram/internal/infrastructure/http/middleware"
	"github.com/alchemorsel/foodgram/internal/ports/inbound"
	"github.com/alchemorsel/foodgram/pkg/errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type mockRecipeService struct{ mock.Mock }

func (m *mockRecipeService) CreateRecipe(ctx context.Context, cmd inbound.CreateRecipeCommand) (*inbound.RecipeView, error) {
	args := m.Called(ctx, cmd)
	view, _ := args.Get(0).(*inbound.RecipeView)
	return view, args.Error(1)
}

func (m *mockRecipeService) ReplaceRecipe(ctx context.Context, cmd inbound.ReplaceRecipeCommand) (*inbound.RecipeView, error) {
	args := m.Called(ctx, cmd)
	view, _ := args.Get(0).(*inbound.RecipeView)
	return view, args.Error(1)
}

func (m *mockRecipeService) DeleteRecipe(ctx context.Context, recipeID, actorID uuid.UUID) error {
	return m.Called(ctx, recipeID, actorID).Error(0)
}

func (m *mockRecipeService) GetRecipe(ctx context.Context, recipeID uuid.UUID, viewer *uuid.UUID) (*inbound.RecipeView, error) {
	args := m.Called(ctx, recipeID, viewer)
	view, _ := args.Get(0).(*inbound.RecipeView)
	return view, args.Error(1)
}

type mockRelationService struct{ mock.Mock }

func (m *mockRelationService) AddFavorite(ctx context.Context, subjectID, recipeID uuid.UUID) (*inbound.RecipeShortView, error) {
	args := m.Called(ctx, subjectID, recipeID)
	view, _ := args.Get(0).(*inbound.RecipeShortView)
	return view, args.Error(1)
}

func (m *mockRelationService) RemoveFavorite(ctx context.Context, subjectID, recipeID uuid.UUID) error {
	return m.Called(ctx, subjectID, recipeID).Error(0)
}

func (m *mockRelationService) AddToShoppingCart(ctx context.Context, subjectID, recipeID uuid.UUID) (*inbound.RecipeShortView, error) {
	args := m.Called(ctx, subjectID, recipeID)
	view, _ := args.Get(0).(*inbound.RecipeShortView)
	return view, args.Error(1)
}

func (m *mockRelationService) RemoveFromShoppingCart(ctx context.Context, subjectID, recipeID uuid.UUID) error {
	return m.Called(ctx, subjectID, recipeID).Error(0)
}

func (m *mockRelationService) ShoppingList(ctx context.Context, subjectID uuid.UUID) ([]inbound.ShoppingListItem, error) {
	args := m.Called(ctx, subjectID)
	items, _ := args.Get(0).([]inbound.ShoppingListItem)
	return items, args.Error(1)
}

func (m *mockRelationService) Subscribe(ctx context.Context, subjectID, authorID uuid.UUID, recipesLimit *int) (*inbound.SubscriptionView, error) {
	args := m.Called(ctx, subjectID, authorID, recipesLimit)
	view, _ := args.Get(0).(*inbound.SubscriptionView)
	return view, args.Error(1)
}

func (m *mockRelationService) Unsubscribe(ctx context.Context, subjectID, authorID uuid.UUID) error {
	return m.Called(ctx, subjectID, authorID).Error(0)
}

func (m *mockRelationService) ListSubscriptions(ctx context.Context, subjectID uuid.UUID, recipesLimit *int) ([]inbound.SubscriptionView, error) {
	args := m.Called(ctx, subjectID, recipesLimit)
	views, _ := args.Get(0).([]inbound.SubscriptionView)
	return views, args.Error(1)
}

type mockCatalogService struct{ mock.Mock }

func (m *mockCatalogService) ResolveTag(ctx context.Context, id uuid.UUID) (*inbound.TagView, error) {
	args := m.Called(ctx, id)
	view, _ := args.Get(0).(*inbound.TagView)
	return view, args.Error(1)
}

func (m *mockCatalogService) ResolveIngredient(ctx context.Context, id uuid.UUID) (*inbound.IngredientView, error) {
	args := m.Called(ctx, id)
	view, _ := args.Get(0).(*inbound.IngredientView)
	return view, args.Error(1)
}

func (m *mockCatalogService) ListTags(ctx context.Context) ([]inbound.TagView, error) {
	args := m.Called(ctx)
	views, _ := args.Get(0).([]inbound.TagView)
	return views, args.Error(1)
}

func (m *mockCatalogService) SearchIngredients(ctx context.Context, namePrefix string) ([]inbound.IngredientView, error) {
	args := m.Called(ctx, namePrefix)
	views, _ := args.Get(0).([]inbound.IngredientView)
	return views, args.Error(1)
}

type mockUserService struct{ mock.Mock }

func (m *mockUserService) Register(ctx context.Context, cmd userapp.RegisterCommand) (*inbound.UserView, error) {
	args := m.Called(ctx, cmd)
	view, _ := args.Get(0).(*inbound.UserView)
	return view, args.Error(1)
}

func (m *mockUserService) Authenticate(ctx context.Context, email, password string) (*user.User, error) {
	args := m.Called(ctx, email, password)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *mockUserService) GetProfile(ctx context.Context, userID uuid.UUID, viewer *uuid.UUID) (*inbound.UserView, error) {
	args := m.Called(ctx, userID, viewer)
	view, _ := args.Get(0).(*inbound.UserView)
	return view, args.Error(1)
}

// staticTokens accepts "good" as the token of viewer and issues "signed"
type staticTokens struct {
	viewer uuid.UUID
}

func (t staticTokens) Verify(token string) (uuid.UUID, error) {
	if token == "good" {
		return t.viewer, nil
	}
	return uuid.Nil, stderrors.New("bad token")
}

func (t staticTokens) Issue(userID uuid.UUID, _ string) (string, time.Time, error) {
	return "signed-" + userID.String(), time.Unix(1700000000, 0).UTC(), nil
}

type HandlersTestSuite struct {
	suite.Suite
	engine    *gin.Engine
	recipes   *mockRecipeService
	relations *mockRelationService
	catalog   *mockCatalogService
	users     *mockUserService
	viewerID  uuid.UUID
}

func TestHandlersSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}

func (s *HandlersTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	s.recipes = new(mockRecipeService)
	s.relations = new(mockRelationService)
	s.catalog = new(mockCatalogService)
	s.users = new(mockUserService)
	s.viewerID = uuid.New()

	tokens := staticTokens{viewer: s.viewerID}
	decode := func(value string) (*inbound.ImageUpload, error) {
		if value != "data:image/png;base64,AAAA" {
			return nil, stderrors.New("invalid data uri")
		}
		return &inbound.ImageUpload{ContentType: "image/png", Data: []byte{0, 0, 0}}, nil
	}

	mw := middleware.New(&config.Config{}, zap.NewNop())
	s.engine = gin.New()
	s.engine.Use(mw.RequestID(), mw.ErrorHandler(), mw.OptionalAuth(tokens))
	Register(
		s.engine.Group("/api"),
		mw.RequireAuth(),
		NewRecipeHandlers(s.recipes, s.relations, decode, zap.NewNop()),
		NewUserHandlers(s.users, s.relations, tokens, zap.NewNop()),
		NewCatalogHandlers(s.catalog),
	)
}

func (s *HandlersTestSuite) TearDownTest() {
	s.recipes.AssertExpectations(s.T())
	s.relations.AssertExpectations(s.T())
	s.catalog.AssertExpectations(s.T())
	s.users.AssertExpectations(s.T())
}

func (s *HandlersTestSuite) do(method, path string, body interface{}, authed bool) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer good")
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func (s *HandlersTestSuite) errorCode(rec *httptest.ResponseRecorder) string {
	var resp errors.ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	return string(resp.Error.Code)
}

func (s *HandlersTestSuite) TestCreateRecipe() {
	s.Run("ValidBody_ShouldCreateAsViewer", func() {
		// Arrange
		tagID := uuid.New()
		ingredientID := uuid.New()
		s.recipes.On("CreateRecipe", mock.Anything, mock.MatchedBy(func(cmd inbound.CreateRecipeCommand) bool {
			return cmd.AuthorID == s.viewerID &&
				cmd.Name == "Soup" &&
				cmd.Image != nil && cmd.Image.ContentType == "image/png" &&
				len(cmd.Ingredients) == 1 && cmd.Ingredients[0].ID == ingredientID &&
				len(cmd.Tags) == 1 && cmd.Tags[0] == tagID
		})).Return(&inbound.RecipeView{ID: uuid.New(), Name: "Soup"}, nil).Once()

		// Act
		rec := s.do(http.MethodPost, "/api/recipes", map[string]interface{}{
			"name":         "Soup",
			"text":         "Boil",
			"cooking_time": 10,
			"image":        "data:image/png;base64,AAAA",
			"tags":         []string{tagID.String()},
			"ingredients":  []map[string]interface{}{{"id": ingredientID.String(), "amount": 2}},
		}, true)

		// Assert
		s.Equal(http.StatusCreated, rec.Code)
		s.Contains(rec.Body.String(), `"name":"Soup"`)
	})

	s.Run("Anonymous_ShouldReturnUnauthorized", func() {
		// Arrange

		// Act
		rec := s.do(http.MethodPost, "/api/recipes", map[string]interface{}{"name": "Soup"}, false)

		// Assert
		s.Equal(http.StatusUnauthorized, rec.Code)
		s.Equal(string(errors.CodeUnauthorized), s.errorCode(rec))
	})

	s.Run("BadImage_ShouldReturnValidationError", func() {
		// Arrange

		// Act
		rec := s.do(http.MethodPost, "/api/recipes", map[string]interface{}{
			"name":  "Soup",
			"image": "not-a-data-uri",
		}, true)

		// Assert
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal(string(errors.CodeValidationFailed), s.errorCode(rec))
		s.Contains(rec.Body.String(), `"image"`)
	})

	s.Run("MalformedJSON_ShouldReturnBadRequest", func() {
		// Arrange

		// Act
		rec := s.do(http.MethodPost, "/api/recipes", `{"name":`, true)

		// Assert
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal(string(errors.CodeBadRequest), s.errorCode(rec))
	})

	s.Run("WrongValueType_ShouldReportItsField", func() {
		// Arrange

		// Act
		rec := s.do(http.MethodPost, "/api/recipes", `{"name":"Soup","ingredients":[{"id":"`+uuid.NewString()+`","amount":"x"}]}`, true)

		// Assert
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal(string(errors.CodeValidationFailed), s.errorCode(rec))
		s.Contains(rec.Body.String(), `"ingredients"`)
	})

	s.Run("MalformedIDs_ShouldReportTagsAndIngredients", func() {
		// Arrange

		// Act
		rec := s.do(http.MethodPost, "/api/recipes", map[string]interface{}{
			"name":        "Soup",
			"tags":        []string{"1"},
			"ingredients": []map[string]interface{}{{"id": "abc", "amount": 2}},
		}, true)

		// Assert
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal(string(errors.CodeValidationFailed), s.errorCode(rec))
		s.Contains(rec.Body.String(), `"tags"`)
		s.Contains(rec.Body.String(), `"ingredients"`)
	})

	s.Run("InvalidBearer_ShouldReturnUnauthorized", func() {
		// Arrange
		req := httptest.NewRequest(http.MethodGet, "/api/tags", nil)
		req.Header.Set("Authorization", "Bearer forged")
		rec := httptest.NewRecorder()

		// Act
		s.engine.ServeHTTP(rec, req)

		// Assert
		s.Equal(http.StatusUnauthorized, rec.Code)
	})
}

func (s *HandlersTestSuite) TestUpdateRecipe() {
	s.Run("NotAuthor_ShouldReturnForbidden", func() {
		// Arrange
		recipeID := uuid.New()
		s.recipes.On("ReplaceRecipe", mock.Anything, mock.MatchedBy(func(cmd inbound.ReplaceRecipeCommand) bool {
			return cmd.RecipeID == recipeID && cmd.ActorID == s.viewerID && cmd.Image == nil
		})).Return(nil, errors.NewForbiddenError("only the author may change a recipe")).Once()

		// Act
		rec := s.do(http.MethodPatch, "/api/recipes/"+recipeID.String(), map[string]interface{}{"name": "Stew"}, true)

		// Assert
		s.Equal(http.StatusForbidden, rec.Code)
		s.Equal(string(errors.CodeForbidden), s.errorCode(rec))
	})

	s.Run("InvalidID_ShouldReturnNotFound", func() {
		// Arrange

		// Act
		rec := s.do(http.MethodPatch, "/api/recipes/not-a-uuid", map[string]interface{}{"name": "Stew"}, true)

		// Assert
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

func (s *HandlersTestSuite) TestGetRecipe() {
	s.Run("Anonymous_ShouldPassNilViewer", func() {
		// Arrange
		recipeID := uuid.New()
		s.recipes.On("GetRecipe", mock.Anything, recipeID, (*uuid.UUID)(nil)).
			Return(&inbound.RecipeView{ID: recipeID}, nil).Once()

		// Act
		rec := s.do(http.MethodGet, "/api/recipes/"+recipeID.String(), nil, false)

		// Assert
		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), `"is_favorited":false`)
	})

	s.Run("Authenticated_ShouldPassViewer", func() {
		// Arrange
		recipeID := uuid.New()
		s.recipes.On("GetRecipe", mock.Anything, recipeID, mock.MatchedBy(func(v *uuid.UUID) bool {
			return v != nil && *v == s.viewerID
		})).Return(&inbound.RecipeView{ID: recipeID, IsFavorited: true}, nil).Once()

		// Act
		rec := s.do(http.MethodGet, "/api/recipes/"+recipeID.String(), nil, true)

		// Assert
		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), `"is_favorited":true`)
	})
}

func (s *HandlersTestSuite) TestDeleteRecipe() {
	s.Run("Author_ShouldReturnNoContent", func() {
		// Arrange
		recipeID := uuid.New()
		s.recipes.On("DeleteRecipe", mock.Anything, recipeID, s.viewerID).Return(nil).Once()

		// Act
		rec := s.do(http.MethodDelete, "/api/recipes/"+recipeID.String(), nil, true)

		// Assert
		s.Equal(http.StatusNoContent, rec.Code)
	})
}

func (s *HandlersTestSuite) TestRecipeRelations() {
	s.Run("AddFavorite_ShouldReturnShortView", func() {
		// Arrange
		recipeID := uuid.New()
		s.relations.On("AddFavorite", mock.Anything, s.viewerID, recipeID).
			Return(&inbound.RecipeShortView{ID: recipeID, Name: "Soup"}, nil).Once()

		// Act
		rec := s.do(http.MethodPost, "/api/recipes/"+recipeID.String()+"/favorite", nil, true)

		// Assert
		s.Equal(http.StatusCreated, rec.Code)
		s.Contains(rec.Body.String(), `"name":"Soup"`)
	})

	s.Run("AddFavoriteTwice_ShouldReturnAlreadyExists", func() {
		// Arrange
		recipeID := uuid.New()
		s.relations.On("AddFavorite", mock.Anything, s.viewerID, recipeID).
			Return(nil, errors.NewAlreadyExistsError("recipe is already in favorites")).Once()

		// Act
		rec := s.do(http.MethodPost, "/api/recipes/"+recipeID.String()+"/favorite", nil, true)

		// Assert
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal(string(errors.CodeAlreadyExists), s.errorCode(rec))
	})

	s.Run("RemoveFromShoppingCart_ShouldReturnNoContent", func() {
		// Arrange
		recipeID := uuid.New()
		s.relations.On("RemoveFromShoppingCart", mock.Anything, s.viewerID, recipeID).Return(nil).Once()

		// Act
		rec := s.do(http.MethodDelete, "/api/recipes/"+recipeID.String()+"/shopping_cart", nil, true)

		// Assert
		s.Equal(http.StatusNoContent, rec.Code)
	})
}

func (s *HandlersTestSuite) TestDownloadShoppingCart() {
	items := []inbound.ShoppingListItem{
		{Name: "flour", MeasurementUnit: "g", Amount: 500},
		{Name: "milk", MeasurementUnit: "ml", Amount: 200},
	}

	s.Run("TextFormat_ShouldReturnAttachment", func() {
		// Arrange
		s.relations.On("ShoppingList", mock.Anything, s.viewerID).Return(items, nil).Once()

		// Act
		rec := s.do(http.MethodGet, "/api/recipes/download_shopping_cart?format=txt", nil, true)

		// Assert
		s.Equal(http.StatusOK, rec.Code)
		s.True(strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))
		s.Contains(rec.Header().Get("Content-Disposition"), "attachment")
		s.Equal("flour (g): 500\nmilk (ml): 200\n", rec.Body.String())
	})

	s.Run("EmptyCart_ShouldReturnEmptyJSONArray", func() {
		// Arrange
		s.relations.On("ShoppingList", mock.Anything, s.viewerID).Return(nil, nil).Once()

		// Act
		rec := s.do(http.MethodGet, "/api/recipes/download_shopping_cart", nil, true)

		// Assert
		s.Equal(http.StatusOK, rec.Code)
		s.JSONEq(`[]`, rec.Body.String())
	})
}

func (s *HandlersTestSuite) TestSubscriptions() {
	s.Run("Subscribe_ShouldPassRecipesLimit", func() {
		// Arrange
		authorID := uuid.New()
		s.relations.On("Subscribe", mock.Anything, s.viewerID, authorID, mock.MatchedBy(func(limit *int) bool {
			return limit != nil && *limit == 3
		})).Return(&inbound.SubscriptionView{UserView: inbound.UserView{ID: authorID, IsSubscribed: true}}, nil).Once()

		// Act
		rec := s.do(http.MethodPost, "/api/users/"+authorID.String()+"/subscribe?recipes_limit=3", nil, true)

		// Assert
		s.Equal(http.StatusCreated, rec.Code)
		s.Contains(rec.Body.String(), `"is_subscribed":true`)
	})

	s.Run("SubscribeToSelf_ShouldReturnSelfReference", func() {
		// Arrange
		s.relations.On("Subscribe", mock.Anything, s.viewerID, s.viewerID, (*int)(nil)).
			Return(nil, errors.NewSelfReferenceError("cannot subscribe to yourself")).Once()

		// Act
		rec := s.do(http.MethodPost, "/api/users/"+s.viewerID.String()+"/subscribe", nil, true)

		// Assert
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal(string(errors.CodeSelfReferenceRejected), s.errorCode(rec))
	})

	s.Run("NegativeLimit_ShouldReturnValidationError", func() {
		// Arrange

		// Act
		rec := s.do(http.MethodGet, "/api/users/subscriptions?recipes_limit=-1", nil, true)

		// Assert
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal(string(errors.CodeValidationFailed), s.errorCode(rec))
	})

	s.Run("List_ShouldNotBeShadowedByProfileRoute", func() {
		// Arrange
		s.relations.On("ListSubscriptions", mock.Anything, s.viewerID, (*int)(nil)).Return(nil, nil).Once()

		// Act
		rec := s.do(http.MethodGet, "/api/users/subscriptions", nil, true)

		// Assert
		s.Equal(http.StatusOK, rec.Code)
		s.JSONEq(`[]`, rec.Body.String())
	})
}

func (s *HandlersTestSuite) TestUsers() {
	s.Run("Login_ShouldIssueToken", func() {
		// Arrange
		u := user.Reconstitute(uuid.New(), "cook@example.com", "cook", "", "", "hash", time.Now())
		s.users.On("Authenticate", mock.Anything, "cook@example.com", "password1").Return(u, nil).Once()

		// Act
		rec := s.do(http.MethodPost, "/api/auth/token/login", LoginRequest{Email: "cook@example.com", Password: "password1"}, false)

		// Assert
		s.Equal(http.StatusOK, rec.Code)
		var resp TokenResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Equal("signed-"+u.ID().String(), resp.AuthToken)
	})

	s.Run("LoginWrongPassword_ShouldReturnUnauthorized", func() {
		// Arrange
		s.users.On("Authenticate", mock.Anything, "cook@example.com", "nope").
			Return(nil, errors.NewUnauthorizedError("invalid credentials")).Once()

		// Act
		rec := s.do(http.MethodPost, "/api/auth/token/login", LoginRequest{Email: "cook@example.com", Password: "nope"}, false)

		// Assert
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("LoginWithoutPassword_ShouldReportPassword", func() {
		// Arrange

		// Act
		rec := s.do(http.MethodPost, "/api/auth/token/login", map[string]string{"email": "cook@example.com"}, false)

		// Assert
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal(string(errors.CodeValidationFailed), s.errorCode(rec))
		s.Contains(rec.Body.String(), `"password"`)
	})

	s.Run("Me_ShouldProjectViewerAsThemselves", func() {
		// Arrange
		s.users.On("GetProfile", mock.Anything, s.viewerID, mock.MatchedBy(func(v *uuid.UUID) bool {
			return v != nil && *v == s.viewerID
		})).Return(&inbound.UserView{ID: s.viewerID, Username: "cook"}, nil).Once()

		// Act
		rec := s.do(http.MethodGet, "/api/users/me", nil, true)

		// Assert
		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), `"username":"cook"`)
	})

	s.Run("Register_ShouldReturnCreated", func() {
		// Arrange
		s.users.On("Register", mock.Anything, mock.MatchedBy(func(cmd userapp.RegisterCommand) bool {
			return cmd.Email == "new@example.com" && cmd.Username == "newcook"
		})).Return(&inbound.UserView{ID: uuid.New(), Email: "new@example.com"}, nil).Once()

		// Act
		rec := s.do(http.MethodPost, "/api/users", map[string]string{
			"email":    "new@example.com",
			"username": "newcook",
			"password": "password1",
		}, false)

		// Assert
		s.Equal(http.StatusCreated, rec.Code)
	})
}

func (s *HandlersTestSuite) TestCatalog() {
	s.Run("SearchIngredients_ShouldForwardPrefix", func() {
		// Arrange
		s.catalog.On("SearchIngredients", mock.Anything, "fl").
			Return([]inbound.IngredientView{{ID: uuid.New(), Name: "flour", MeasurementUnit: "g"}}, nil).Once()

		// Act
		rec := s.do(http.MethodGet, "/api/ingredients?name=fl", nil, false)

		// Assert
		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), `"measurement_unit":"g"`)
	})

	s.Run("UnknownTag_ShouldReturnNotFound", func() {
		// Arrange
		tagID := uuid.New()
		s.catalog.On("ResolveTag", mock.Anything, tagID).Return(nil, errors.NewNotFoundError("tag not found")).Once()

		// Act
		rec := s.do(http.MethodGet, "/api/tags/"+tagID.String(), nil, false)

		// Assert
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

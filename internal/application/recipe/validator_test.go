package recipe

import (
	"context"
	stderrors "errors"
	"testing"

	catalogapp "github.com/alchemorsel/foodgram/internal/application/catalog"
	"github.com/alchemorsel/foodgram/internal/domain/catalog"
	"github.com/alchemorsel/foodgram/internal/domain/recipe"
	"github.com/alchemorsel/foodgram/internal/ports/inbound"
	"github.com/alchemorsel/foodgram/pkg/errors"
	"github.com/alchemorsel/foodgram/test/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type ValidatorTestSuite struct {
	suite.Suite
	repo      *testutils.MockCatalogRepository
	validator *Validator
	ctx       context.Context

	flour  catalog.Ingredient
	salt   catalog.Ingredient
	dinner catalog.Tag
	quick  catalog.Tag
}

func (s *ValidatorTestSuite) SetupTest() {
	f := testutils.NewFixtures(42)
	s.flour, s.salt = f.Ingredient(), f.Ingredient()
	s.dinner, s.quick = f.Tag(), f.Tag()

	s.repo = new(testutils.MockCatalogRepository)
	s.repo.On("FindTagsByIDs", mock.Anything, mock.Anything).Return(map[uuid.UUID]catalog.Tag{
		s.dinner.ID: s.dinner,
		s.quick.ID:  s.quick,
	}, nil).Maybe()
	s.repo.On("FindIngredientsByIDs", mock.Anything, mock.Anything).Return(map[uuid.UUID]catalog.Ingredient{
		s.flour.ID: s.flour,
		s.salt.ID:  s.salt,
	}, nil).Maybe()

	resolver := catalogapp.NewService(s.repo, nil, 0, zap.NewNop())
	s.validator = NewValidator(resolver, StaticBounds{Min: 1, Max: 100})
	s.ctx = context.Background()
}

func (s *ValidatorTestSuite) payload() Payload {
	return Payload{
		Name:        "Bread",
		Text:        "Mix and bake",
		CookingTime: 45,
		Ingredients: []inbound.IngredientAmount{{ID: s.flour.ID, Amount: 50}, {ID: s.salt.ID, Amount: 2}},
		Tags:        []uuid.UUID{s.quick.ID, s.dinner.ID},
		HasImage:    true,
	}
}

func (s *ValidatorTestSuite) TestValidate() {
	s.Run("ValidPayload_ShouldResolveReferencesInOrder", func() {
		// Act
		draft, err := s.validator.Validate(s.ctx, s.payload(), ModeCreate)

		// Assert
		require.NoError(s.T(), err)
		s.Equal("Bread", draft.Name)
		s.Equal(45, draft.CookingTime)
		s.Empty(draft.Image)
		s.Equal([]catalog.Tag{s.quick, s.dinner}, draft.Tags)
		s.Equal([]recipe.IngredientLine{
			{Ingredient: s.flour, Amount: 50},
			{Ingredient: s.salt, Amount: 2},
		}, draft.Ingredients)
	})

	s.Run("EmptyPayload_ShouldReportEveryField", func() {
		// Act
		_, err := s.validator.Validate(s.ctx, Payload{}, ModeCreate)

		// Assert
		testutils.AssertInvalidFields(s.T(), err, "ingredients", "tags", "cooking_time", "image", "name", "text")
	})

	s.Run("DuplicateIngredient_ShouldReportIngredients", func() {
		// Arrange
		p := s.payload()
		p.Ingredients = append(p.Ingredients, inbound.IngredientAmount{ID: s.flour.ID, Amount: 3})

		// Act
		_, err := s.validator.Validate(s.ctx, p, ModeCreate)

		// Assert
		testutils.AssertInvalidFields(s.T(), err, "ingredients")
	})

	s.Run("DuplicateTag_ShouldReportTags", func() {
		// Arrange
		p := s.payload()
		p.Tags = append(p.Tags, s.quick.ID)

		// Act
		_, err := s.validator.Validate(s.ctx, p, ModeCreate)

		// Assert
		testutils.AssertInvalidFields(s.T(), err, "tags")
	})

	s.Run("UnknownReferences_ShouldReportBothFields", func() {
		// Arrange
		p := s.payload()
		p.Ingredients = append(p.Ingredients, inbound.IngredientAmount{ID: uuid.New(), Amount: 1})
		p.Tags = []uuid.UUID{uuid.New()}

		// Act
		_, err := s.validator.Validate(s.ctx, p, ModeCreate)

		// Assert
		testutils.AssertInvalidFields(s.T(), err, "ingredients", "tags")
	})

	s.Run("AmountOutOfBounds_ShouldReportIngredients", func() {
		// Arrange
		p := s.payload()
		p.Ingredients[1].Amount = 101

		// Act
		_, err := s.validator.Validate(s.ctx, p, ModeCreate)

		// Assert
		testutils.AssertInvalidFields(s.T(), err, "ingredients")
	})

	s.Run("CookingTimeAtBounds_ShouldPass", func() {
		for _, minutes := range []int{1, 100} {
			// Arrange
			p := s.payload()
			p.CookingTime = minutes

			// Act
			_, err := s.validator.Validate(s.ctx, p, ModeCreate)

			// Assert
			s.NoError(err, "cooking time %d", minutes)
		}
	})

	s.Run("CookingTimeBelowMin_ShouldReportCookingTime", func() {
		// Arrange
		p := s.payload()
		p.CookingTime = 0

		// Act
		_, err := s.validator.Validate(s.ctx, p, ModeUpdate)

		// Assert
		testutils.AssertInvalidFields(s.T(), err, "cooking_time")
	})

	s.Run("NameTooLong_ShouldReportName", func() {
		// Arrange
		p := s.payload()
		p.Name = string(make([]byte, 201))

		// Act
		_, err := s.validator.Validate(s.ctx, p, ModeCreate)

		// Assert
		testutils.AssertInvalidFields(s.T(), err, "name")
	})

	s.Run("BlankNameAndText_ShouldReportBothFields", func() {
		// Arrange
		p := s.payload()
		p.Name = "   "
		p.Text = "\t\n"

		// Act
		_, err := s.validator.Validate(s.ctx, p, ModeCreate)

		// Assert
		testutils.AssertInvalidFields(s.T(), err, "name", "text")
		problems, _ := errors.ValidationErrorsOf(err)
		s.Equal([]string{"name must not be blank"}, problems.ByField()["name"])
	})

	s.Run("PaddedName_ShouldBeTrimmed", func() {
		// Arrange
		p := s.payload()
		p.Name = "  Bread  "

		// Act
		draft, err := s.validator.Validate(s.ctx, p, ModeCreate)

		// Assert
		require.NoError(s.T(), err)
		s.Equal("Bread", draft.Name)
	})

	s.Run("UpdateWithoutImage_ShouldAskForUpload", func() {
		// Arrange
		p := s.payload()
		p.HasImage = false

		// Act
		_, err := s.validator.Validate(s.ctx, p, ModeUpdate)

		// Assert
		problems, ok := errors.ValidationErrorsOf(err)
		require.True(s.T(), ok)
		s.Equal([]string{"recipe has no image; upload one"}, problems.ByField()["image"])
	})
}

func (s *ValidatorTestSuite) TestValidate_ReadsBoundsOnEveryCall() {
	// Arrange
	bounds := &switchableBounds{current: recipe.Bounds{Min: 1, Max: 100}}
	v := NewValidator(catalogapp.NewService(s.repo, nil, 0, zap.NewNop()), bounds)
	p := s.payload()
	p.CookingTime = 90

	// Act
	_, before := v.Validate(s.ctx, p, ModeCreate)
	bounds.current = recipe.Bounds{Min: 1, Max: 60}
	_, after := v.Validate(s.ctx, p, ModeCreate)

	// Assert
	s.NoError(before)
	testutils.AssertInvalidFields(s.T(), after, "cooking_time")
}

func (s *ValidatorTestSuite) TestValidate_CatalogFailure() {
	// Arrange
	repo := new(testutils.MockCatalogRepository)
	repo.On("FindIngredientsByIDs", mock.Anything, mock.Anything).Return(nil, stderrors.New("connection reset"))
	v := NewValidator(catalogapp.NewService(repo, nil, 0, zap.NewNop()), StaticBounds(recipe.DefaultBounds))

	// Act
	_, err := v.Validate(s.ctx, s.payload(), ModeCreate)

	// Assert
	testutils.AssertAppError(s.T(), err, errors.CodeDatabaseError)
}

type switchableBounds struct {
	current recipe.Bounds
}

func (b *switchableBounds) Bounds() recipe.Bounds {
	return b.current
}

func TestValidatorTestSuite(t *testing.T) {
	suite.Run(t, new(ValidatorTestSuite))
}

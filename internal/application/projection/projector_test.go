package projection

import (
	"context"
	"testing"

	"github.com/alchemorsel/foodgram/internal/domain/catalog"
	"github.com/alchemorsel/foodgram/internal/domain/recipe"
	"github.com/alchemorsel/foodgram/internal/domain/relation"
	"github.com/alchemorsel/foodgram/internal/domain/user"
	"github.com/alchemorsel/foodgram/internal/ports/inbound"
	"github.com/alchemorsel/foodgram/test/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ProjectorTestSuite struct {
	suite.Suite
	ctx       context.Context
	f         *testutils.Fixtures
	users     *testutils.MockUserRepository
	recipes   *testutils.MockRecipeRepository
	relations *testutils.MockRelationRepository
	projector *Projector

	author *user.User
	tag    catalog.Tag
	onion  catalog.Ingredient
}

func (s *ProjectorTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.f = testutils.NewFixtures(11)
	s.author = s.f.User(s.T())
	s.tag = s.f.Tag()
	s.onion = s.f.Ingredient()
	s.users = new(testutils.MockUserRepository)
	s.recipes = new(testutils.MockRecipeRepository)
	s.relations = new(testutils.MockRelationRepository)
	s.projector = NewProjector(s.users, s.recipes, s.relations)

	s.users.On("FindByID", mock.Anything, s.author.ID()).Return(s.author, nil).Maybe()
}

func (s *ProjectorTestSuite) recipe() *recipe.Recipe {
	return s.f.Recipe(s.author.ID()).WithTags(s.tag).WithIngredient(s.onion, 3).Build(s.T())
}

func (s *ProjectorTestSuite) TestProjectRecipe() {
	s.Run("Anonymous_ShouldLeaveFlagsFalseWithoutQueries", func() {
		// Arrange
		r := s.recipe()

		// Act
		view, err := s.projector.ProjectRecipe(s.ctx, r, nil)

		// Assert
		require.NoError(s.T(), err)
		s.Equal(r.ID(), view.ID)
		s.Equal([]inbound.TagView{{ID: s.tag.ID, Name: s.tag.Name, Color: s.tag.Color, Slug: s.tag.Slug}}, view.Tags)
		s.Equal([]inbound.IngredientAmountView{{ID: s.onion.ID, Name: s.onion.Name, MeasurementUnit: s.onion.MeasurementUnit, Amount: 3}}, view.Ingredients)
		s.Equal(s.author.Username(), view.Author.Username)
		s.False(view.IsFavorited)
		s.False(view.IsInShoppingCart)
		s.False(view.Author.IsSubscribed)
		s.relations.AssertNotCalled(s.T(), "Exists", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	s.Run("Viewer_ShouldComputeEachFlagIndependently", func() {
		// Arrange
		r := s.recipe()
		viewer := uuid.New()
		s.relations.On("Exists", mock.Anything, relation.KindFavorite, viewer, r.ID()).Return(true, nil).Once()
		s.relations.On("Exists", mock.Anything, relation.KindShoppingCart, viewer, r.ID()).Return(false, nil).Once()
		s.relations.On("Exists", mock.Anything, relation.KindSubscription, viewer, s.author.ID()).Return(true, nil).Once()

		// Act
		view, err := s.projector.ProjectRecipe(s.ctx, r, &viewer)

		// Assert
		require.NoError(s.T(), err)
		s.True(view.IsFavorited)
		s.False(view.IsInShoppingCart)
		s.True(view.Author.IsSubscribed)
		s.relations.AssertExpectations(s.T())
	})
}

func (s *ProjectorTestSuite) TestPersonalize_ResetsFlagsForAnonymous() {
	// Arrange
	view := &inbound.RecipeView{IsFavorited: true, IsInShoppingCart: true, Author: inbound.UserView{IsSubscribed: true}}

	// Act
	err := s.projector.Personalize(s.ctx, view, nil)

	// Assert
	require.NoError(s.T(), err)
	s.False(view.IsFavorited)
	s.False(view.IsInShoppingCart)
	s.False(view.Author.IsSubscribed)
}

func (s *ProjectorTestSuite) TestProjectUser_SelfViewIsNotSubscribed() {
	// Arrange
	id := s.author.ID()
	s.relations.On("Exists", mock.Anything, relation.KindSubscription, id, id).Return(false, nil)

	// Act
	view, err := s.projector.ProjectUser(s.ctx, s.author, &id)

	// Assert
	require.NoError(s.T(), err)
	s.Equal(s.author.Email(), view.Email)
	s.False(view.IsSubscribed)
}

func (s *ProjectorTestSuite) TestProjectSubscribedUser() {
	viewer := uuid.New()

	s.Run("Limit_ShouldTruncatePreviewButNotCount", func() {
		// Arrange
		newest := s.recipe()
		limit := 1
		s.relations.On("Exists", mock.Anything, relation.KindSubscription, viewer, s.author.ID()).Return(true, nil).Once()
		s.recipes.On("CountByAuthor", mock.Anything, s.author.ID()).Return(int64(4), nil).Once()
		s.recipes.On("FindByAuthor", mock.Anything, s.author.ID(), 1).Return([]*recipe.Recipe{newest}, nil).Once()

		// Act
		view, err := s.projector.ProjectSubscribedUser(s.ctx, s.author, &viewer, &limit)

		// Assert
		require.NoError(s.T(), err)
		s.True(view.IsSubscribed)
		s.Equal(int64(4), view.RecipesCount)
		s.Equal([]inbound.RecipeShortView{ProjectRecipeShort(newest)}, view.Recipes)
	})

	s.Run("NoLimit_ShouldListEveryRecipe", func() {
		// Arrange
		all := []*recipe.Recipe{s.recipe(), s.recipe()}
		s.relations.On("Exists", mock.Anything, relation.KindSubscription, viewer, s.author.ID()).Return(true, nil).Once()
		s.recipes.On("CountByAuthor", mock.Anything, s.author.ID()).Return(int64(2), nil).Once()
		s.recipes.On("FindByAuthor", mock.Anything, s.author.ID(), 0).Return(all, nil).Once()

		// Act
		view, err := s.projector.ProjectSubscribedUser(s.ctx, s.author, &viewer, nil)

		// Assert
		require.NoError(s.T(), err)
		s.Len(view.Recipes, 2)
	})

	s.Run("ZeroLimit_ShouldReturnEmptyPreview", func() {
		// Arrange
		limit := 0
		s.relations.On("Exists", mock.Anything, relation.KindSubscription, viewer, s.author.ID()).Return(true, nil).Once()
		s.recipes.On("CountByAuthor", mock.Anything, s.author.ID()).Return(int64(2), nil).Once()

		// Act
		view, err := s.projector.ProjectSubscribedUser(s.ctx, s.author, &viewer, &limit)

		// Assert
		require.NoError(s.T(), err)
		s.NotNil(view.Recipes)
		s.Empty(view.Recipes)
		s.Equal(int64(2), view.RecipesCount)
	})
}

func TestProjectorTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectorTestSuite))
}

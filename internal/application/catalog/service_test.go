package catalog

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/alchemorsel/foodgram/internal/domain/catalog"
	"github.com/alchemorsel/foodgram/internal/infrastructure/persistence/memory"
	"github.com/alchemorsel/foodgram/internal/ports/inbound"
	"github.com/alchemorsel/foodgram/pkg/errors"
	"github.com/alchemorsel/foodgram/test/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type CatalogServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	repo    *testutils.MockCatalogRepository
	cache   *memory.CacheRepository
	service *Service

	tag        catalog.Tag
	ingredient catalog.Ingredient
}

func (s *CatalogServiceTestSuite) SetupTest() {
	f := testutils.NewFixtures(3)
	s.ctx = context.Background()
	s.tag = f.Tag()
	s.ingredient = f.Ingredient()
	s.repo = new(testutils.MockCatalogRepository)
	s.cache = memory.NewCacheRepository()
	s.service = NewService(s.repo, s.cache, time.Minute, zap.NewNop())
}

func (s *CatalogServiceTestSuite) TearDownTest() {
	s.cache.Close()
}

func (s *CatalogServiceTestSuite) TestResolveTags() {
	s.Run("KnownAndUnknownIDs_ShouldReturnOnlyKnown", func() {
		// Arrange
		missing := uuid.New()
		s.repo.On("FindTagsByIDs", mock.Anything, []uuid.UUID{s.tag.ID, missing}).
			Return(map[uuid.UUID]catalog.Tag{s.tag.ID: s.tag}, nil).Once()

		// Act
		tags, err := s.service.ResolveTags(s.ctx, []uuid.UUID{s.tag.ID, missing})

		// Assert
		require.NoError(s.T(), err)
		s.Equal(map[uuid.UUID]catalog.Tag{s.tag.ID: s.tag}, tags)
	})

	s.Run("SecondLookup_ShouldBeServedFromCache", func() {
		// Act
		tags, err := s.service.ResolveTags(s.ctx, []uuid.UUID{s.tag.ID})

		// Assert
		require.NoError(s.T(), err)
		s.Equal(s.tag, tags[s.tag.ID])
		s.repo.AssertNumberOfCalls(s.T(), "FindTagsByIDs", 1)
	})
}

func (s *CatalogServiceTestSuite) TestResolveIngredients_RepositoryFailure() {
	// Arrange
	s.repo.On("FindIngredientsByIDs", mock.Anything, mock.Anything).Return(nil, stderrors.New("timeout"))

	// Act
	_, err := s.service.ResolveIngredients(s.ctx, []uuid.UUID{s.ingredient.ID})

	// Assert
	testutils.AssertAppError(s.T(), err, errors.CodeDatabaseError)
}

func (s *CatalogServiceTestSuite) TestResolveTag() {
	s.Run("Missing_ShouldReturnNotFound", func() {
		// Arrange
		s.repo.On("FindTagsByIDs", mock.Anything, mock.Anything).Return(map[uuid.UUID]catalog.Tag{}, nil).Once()

		// Act
		_, err := s.service.ResolveTag(s.ctx, uuid.New())

		// Assert
		testutils.AssertAppError(s.T(), err, errors.CodeNotFound)
	})

	s.Run("Present_ShouldReturnView", func() {
		// Arrange
		s.repo.On("FindTagsByIDs", mock.Anything, []uuid.UUID{s.tag.ID}).
			Return(map[uuid.UUID]catalog.Tag{s.tag.ID: s.tag}, nil).Once()

		// Act
		view, err := s.service.ResolveTag(s.ctx, s.tag.ID)

		// Assert
		require.NoError(s.T(), err)
		s.Equal(&inbound.TagView{ID: s.tag.ID, Name: s.tag.Name, Color: s.tag.Color, Slug: s.tag.Slug}, view)
	})
}

func (s *CatalogServiceTestSuite) TestResolveIngredient_Missing() {
	// Arrange
	s.repo.On("FindIngredientsByIDs", mock.Anything, mock.Anything).Return(map[uuid.UUID]catalog.Ingredient{}, nil)

	// Act
	_, err := s.service.ResolveIngredient(s.ctx, uuid.New())

	// Assert
	testutils.AssertAppError(s.T(), err, errors.CodeNotFound)
}

func (s *CatalogServiceTestSuite) TestSearchIngredients() {
	// Arrange
	s.repo.On("SearchIngredients", mock.Anything, "to", searchLimit).Return([]catalog.Ingredient{s.ingredient}, nil)

	// Act
	views, err := s.service.SearchIngredients(s.ctx, "to")

	// Assert
	require.NoError(s.T(), err)
	s.Equal([]inbound.IngredientView{IngredientToView(s.ingredient)}, views)
}

func (s *CatalogServiceTestSuite) TestListTags() {
	// Arrange
	s.repo.On("ListTags", mock.Anything).Return([]catalog.Tag{s.tag}, nil)

	// Act
	views, err := s.service.ListTags(s.ctx)

	// Assert
	require.NoError(s.T(), err)
	s.Equal([]inbound.TagView{TagToView(s.tag)}, views)
}

func TestCatalogServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CatalogServiceTestSuite))
}

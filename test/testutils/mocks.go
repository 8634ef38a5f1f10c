// Package testutils provides mock implementations for testing
package testutils

import (
	"context"
	"time"

	"github.com/alchemorsel/foodgram/internal/domain/catalog"
	"github.com/alchemorsel/foodgram/internal/domain/recipe"
	"github.com/alchemorsel/foodgram/internal/domain/relation"
	"github.com/alchemorsel/foodgram/internal/domain/user"
	"github.com/alchemorsel/foodgram/internal/ports/outbound"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

var (
	_ outbound.CatalogRepository  = (*MockCatalogRepository)(nil)
	_ outbound.RecipeRepository   = (*MockRecipeRepository)(nil)
	_ outbound.RelationRepository = (*MockRelationRepository)(nil)
	_ outbound.UserRepository     = (*MockUserRepository)(nil)
	_ outbound.CacheRepository    = (*MockCacheRepository)(nil)
	_ outbound.MessageBus         = (*MockMessageBus)(nil)
	_ outbound.StorageService     = (*MockStorageService)(nil)
)

// MockCatalogRepository provides a mock implementation of CatalogRepository
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) FindTagsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]catalog.Tag, error) {
	args := m.Called(ctx, ids)
	tags, _ := args.Get(0).(map[uuid.UUID]catalog.Tag)
	return tags, args.Error(1)
}

func (m *MockCatalogRepository) FindIngredientsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]catalog.Ingredient, error) {
	args := m.Called(ctx, ids)
	ingredients, _ := args.Get(0).(map[uuid.UUID]catalog.Ingredient)
	return ingredients, args.Error(1)
}

func (m *MockCatalogRepository) ListTags(ctx context.Context) ([]catalog.Tag, error) {
	args := m.Called(ctx)
	tags, _ := args.Get(0).([]catalog.Tag)
	return tags, args.Error(1)
}

func (m *MockCatalogRepository) SearchIngredients(ctx context.Context, namePrefix string, limit int) ([]catalog.Ingredient, error) {
	args := m.Called(ctx, namePrefix, limit)
	ingredients, _ := args.Get(0).([]catalog.Ingredient)
	return ingredients, args.Error(1)
}

// MockRecipeRepository provides a mock implementation of RecipeRepository
type MockRecipeRepository struct {
	mock.Mock
}

func (m *MockRecipeRepository) Create(ctx context.Context, r *recipe.Recipe) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRecipeRepository) Replace(ctx context.Context, r *recipe.Recipe, expectedVersion int64) error {
	return m.Called(ctx, r, expectedVersion).Error(0)
}

func (m *MockRecipeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*recipe.Recipe)
	return r, args.Error(1)
}

func (m *MockRecipeRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*recipe.Recipe, error) {
	args := m.Called(ctx, ids)
	recipes, _ := args.Get(0).([]*recipe.Recipe)
	return recipes, args.Error(1)
}

func (m *MockRecipeRepository) FindByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]*recipe.Recipe, error) {
	args := m.Called(ctx, authorID, limit)
	recipes, _ := args.Get(0).([]*recipe.Recipe)
	return recipes, args.Error(1)
}

func (m *MockRecipeRepository) CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	args := m.Called(ctx, authorID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRecipeRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRecipeRepository) Version(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	version, _ := args.Get(0).(int64)
	return version, args.Error(1)
}

func (m *MockRecipeRepository) AggregateIngredients(ctx context.Context, recipeIDs []uuid.UUID) ([]outbound.IngredientTotal, error) {
	args := m.Called(ctx, recipeIDs)
	totals, _ := args.Get(0).([]outbound.IngredientTotal)
	return totals, args.Error(1)
}

// MockRelationRepository provides a mock implementation of RelationRepository
type MockRelationRepository struct {
	mock.Mock
}

func (m *MockRelationRepository) Add(ctx context.Context, rel relation.Relation) error {
	return m.Called(ctx, rel).Error(0)
}

func (m *MockRelationRepository) Remove(ctx context.Context, kind relation.Kind, subjectID, targetID uuid.UUID) error {
	return m.Called(ctx, kind, subjectID, targetID).Error(0)
}

func (m *MockRelationRepository) Exists(ctx context.Context, kind relation.Kind, subjectID, targetID uuid.UUID) (bool, error) {
	args := m.Called(ctx, kind, subjectID, targetID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRelationRepository) ExistingTargets(ctx context.Context, kind relation.Kind, subjectID uuid.UUID, targetIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	args := m.Called(ctx, kind, subjectID, targetIDs)
	found, _ := args.Get(0).(map[uuid.UUID]bool)
	return found, args.Error(1)
}

func (m *MockRelationRepository) ListTargets(ctx context.Context, kind relation.Kind, subjectID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, kind, subjectID)
	ids, _ := args.Get(0).([]uuid.UUID)
	return ids, args.Error(1)
}

// MockUserRepository provides a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*user.User, error) {
	args := m.Called(ctx, ids)
	users, _ := args.Get(0).(map[uuid.UUID]*user.User)
	return users, args.Error(1)
}

func (m *MockUserRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockCacheRepository provides a mock implementation of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// MockMessageBus records published messages
type MockMessageBus struct {
	mock.Mock
}

func (m *MockMessageBus) Publish(ctx context.Context, topic string, message outbound.Message) error {
	return m.Called(ctx, topic, message).Error(0)
}

func (m *MockMessageBus) Subscribe(ctx context.Context, topic string, handler outbound.MessageHandler) error {
	return m.Called(ctx, topic, handler).Error(0)
}

func (m *MockMessageBus) Close() error {
	return m.Called().Error(0)
}

// Topics returns the topics of every Publish call in order
func (m *MockMessageBus) Topics() []string {
	var topics []string
	for _, call := range m.Calls {
		if call.Method == "Publish" {
			topics = append(topics, call.Arguments.String(1))
		}
	}
	return topics
}

// MockStorageService provides a mock implementation of StorageService
type MockStorageService struct {
	mock.Mock
}

func (m *MockStorageService) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, key, data, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockStorageService) Delete(ctx context.Context, reference string) error {
	return m.Called(ctx, reference).Error(0)
}

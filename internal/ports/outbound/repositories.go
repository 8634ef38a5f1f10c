// Package outbound defines the driven ports: storage, cache, messaging and
// blob storage that the application core depends on.
package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/alchemorsel/foodgram/internal/domain/catalog"
	"github.com/alchemorsel/foodgram/internal/domain/recipe"
	"github.com/alchemorsel/foodgram/internal/domain/relation"
	"github.com/alchemorsel/foodgram/internal/domain/user"
	"github.com/google/uuid"
)

// CatalogRepository reads tag and ingredient reference data.
type CatalogRepository interface {
	FindTagsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]catalog.Tag, error)
	FindIngredientsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]catalog.Ingredient, error)
	ListTags(ctx context.Context) ([]catalog.Tag, error)
	SearchIngredients(ctx context.Context, namePrefix string, limit int) ([]catalog.Ingredient, error)
}

// RecipeRepository persists the recipe aggregate. Create, Replace and Delete
// each run as a single transaction covering the recipe row, its tag links and
// its ingredient lines.
type RecipeRepository interface {
	Create(ctx context.Context, r *recipe.Recipe) error
	// Replace locks the recipe row and fails with recipe.ErrConcurrentUpdate
	// when the stored version differs from expectedVersion.
	Replace(ctx context.Context, r *recipe.Recipe, expectedVersion int64) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*recipe.Recipe, error)
	// FindByAuthor returns the author's recipes newest first; limit <= 0 means all.
	FindByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]*recipe.Recipe, error)
	CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	// Version returns the stored version, or recipe.ErrRecipeNotFound.
	Version(ctx context.Context, id uuid.UUID) (int64, error)
	AggregateIngredients(ctx context.Context, recipeIDs []uuid.UUID) ([]IngredientTotal, error)
}

// IngredientTotal is the summed amount of one ingredient over several recipes.
type IngredientTotal struct {
	Ingredient catalog.Ingredient
	Amount     int64
}

// RelationRepository stores (subject, target, kind) rows under a unique index.
type RelationRepository interface {
	// Add fails with relation.ErrAlreadyExists if the row is present.
	Add(ctx context.Context, rel relation.Relation) error
	// Remove fails with relation.ErrNotFound if the row is absent.
	Remove(ctx context.Context, kind relation.Kind, subjectID, targetID uuid.UUID) error
	Exists(ctx context.Context, kind relation.Kind, subjectID, targetID uuid.UUID) (bool, error)
	// ExistingTargets reports which of targetIDs the subject holds a relation to.
	ExistingTargets(ctx context.Context, kind relation.Kind, subjectID uuid.UUID, targetIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	// ListTargets returns target ids newest first.
	ListTargets(ctx context.Context, kind relation.Kind, subjectID uuid.UUID) ([]uuid.UUID, error)
}

// UserRepository reads and creates users.
type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*user.User, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// ErrCacheMiss is returned by CacheRepository.Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// MessageBus defines the interface for publishing messages
type MessageBus interface {
	Publish(ctx context.Context, topic string, message Message) error
	Subscribe(ctx context.Context, topic string, handler MessageHandler) error
	Close() error
}

// Message represents a message to be published
type Message struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	Payload   []byte            `json:"payload"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// MessageHandler handles incoming messages
type MessageHandler func(ctx context.Context, message Message) error

// StorageService stores opaque blobs and returns a stable reference.
type StorageService interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, reference string) error
}

package recipe

import (
	"time"

	"github.com/google/uuid"
)

// RecipeCreatedEvent is raised when a new recipe is created
type RecipeCreatedEvent struct {
	RecipeID  uuid.UUID `json:"recipe_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (e RecipeCreatedEvent) EventName() string {
	return "recipe.created"
}

func (e RecipeCreatedEvent) OccurredAt() time.Time {
	return e.CreatedAt
}

// RecipeReplacedEvent is raised when a recipe's contents are replaced
type RecipeReplacedEvent struct {
	RecipeID   uuid.UUID `json:"recipe_id"`
	Version    int64     `json:"version"`
	ReplacedAt time.Time `json:"replaced_at"`
}

func (e RecipeReplacedEvent) EventName() string {
	return "recipe.replaced"
}

func (e RecipeReplacedEvent) OccurredAt() time.Time {
	return e.ReplacedAt
}

// RecipeDeletedEvent is raised when a recipe is removed
type RecipeDeletedEvent struct {
	RecipeID  uuid.UUID `json:"recipe_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	DeletedAt time.Time `json:"deleted_at"`
}

func (e RecipeDeletedEvent) EventName() string {
	return "recipe.deleted"
}

func (e RecipeDeletedEvent) OccurredAt() time.Time {
	return e.DeletedAt
}

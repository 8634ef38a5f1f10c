// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"

	"github.com/google/uuid"
)

// RecipeService defines the use cases for the recipe aggregate
type RecipeService interface {
	// Commands - operations that modify state
	CreateRecipe(ctx context.Context, cmd CreateRecipeCommand) (*RecipeView, error)
	ReplaceRecipe(ctx context.Context, cmd ReplaceRecipeCommand) (*RecipeView, error)
	DeleteRecipe(ctx context.Context, recipeID, actorID uuid.UUID) error

	// Queries - operations that read state
	GetRecipe(ctx context.Context, recipeID uuid.UUID, viewer *uuid.UUID) (*RecipeView, error)
}

// IngredientAmount references a catalog ingredient with a quantity.
type IngredientAmount struct {
	ID     uuid.UUID `json:"id"`
	Amount int       `json:"amount"`
}

// ImageUpload is a decoded image payload handed to the storage collaborator.
type ImageUpload struct {
	Data        []byte
	ContentType string
}

// RecipeInput is the writable part of a recipe shared by create and replace.
type RecipeInput struct {
	Name        string
	Text        string
	CookingTime int
	Image       *ImageUpload
	Ingredients []IngredientAmount
	Tags        []uuid.UUID
}

// CreateRecipeCommand contains data for creating a new recipe
type CreateRecipeCommand struct {
	AuthorID uuid.UUID
	RecipeInput
}

// ReplaceRecipeCommand contains data for replacing an existing recipe's contents
type ReplaceRecipeCommand struct {
	RecipeID uuid.UUID
	ActorID  uuid.UUID
	RecipeInput
}

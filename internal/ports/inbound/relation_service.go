package inbound

import (
	"context"

	"github.com/google/uuid"
)

// RelationService exposes favorites, the shopping cart and subscriptions.
// Every add fails with NotFound, SelfReferenceRejected or AlreadyExists; every
// remove fails with NotFound when the relation is absent.
type RelationService interface {
	AddFavorite(ctx context.Context, subjectID, recipeID uuid.UUID) (*RecipeShortView, error)
	RemoveFavorite(ctx context.Context, subjectID, recipeID uuid.UUID) error

	AddToShoppingCart(ctx context.Context, subjectID, recipeID uuid.UUID) (*RecipeShortView, error)
	RemoveFromShoppingCart(ctx context.Context, subjectID, recipeID uuid.UUID) error
	ShoppingList(ctx context.Context, subjectID uuid.UUID) ([]ShoppingListItem, error)

	// recipesLimit nil means no truncation.
	Subscribe(ctx context.Context, subjectID, authorID uuid.UUID, recipesLimit *int) (*SubscriptionView, error)
	Unsubscribe(ctx context.Context, subjectID, authorID uuid.UUID) error
	ListSubscriptions(ctx context.Context, subjectID uuid.UUID, recipesLimit *int) ([]SubscriptionView, error)
}

// CatalogService resolves tags and ingredients.
type CatalogService interface {
	ResolveTag(ctx context.Context, id uuid.UUID) (*TagView, error)
	ResolveIngredient(ctx context.Context, id uuid.UUID) (*IngredientView, error)
	ListTags(ctx context.Context) ([]TagView, error)
	SearchIngredients(ctx context.Context, namePrefix string) ([]IngredientView, error)
}

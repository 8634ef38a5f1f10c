package recipe

import "errors"

// Domain errors for recipe operations

var (
	// Aggregate invariants
	ErrNoIngredients       = errors.New("recipe must have at least one ingredient")
	ErrDuplicateIngredient = errors.New("ingredient listed more than once")
	ErrNoTags              = errors.New("recipe must have at least one tag")
	ErrDuplicateTag        = errors.New("tag listed more than once")
	ErrImageRequired       = errors.New("recipe image is required")
	ErrNameRequired        = errors.New("recipe name is required")

	// Persistence outcomes
	ErrRecipeNotFound    = errors.New("recipe not found")
	ErrConcurrentUpdate  = errors.New("recipe was modified concurrently")
	ErrReferenceConflict = errors.New("referenced tag or ingredient no longer exists")

	// Permission errors
	ErrNotRecipeOwner = errors.New("only the recipe author can perform this action")
)

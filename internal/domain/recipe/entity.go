// Package recipe contains the recipe aggregate: a recipe together with its
// tag links and ingredient lines, which are always written as one unit.
package recipe

import (
	"strings"
	"time"

	"github.com/alchemorsel/foodgram/internal/domain/catalog"
	"github.com/alchemorsel/foodgram/internal/domain/shared"
	"github.com/google/uuid"
)

// Recipe is the aggregate root.
type Recipe struct {
	shared.AggregateRoot

	id       uuid.UUID
	version  int64
	authorID uuid.UUID

	name        string
	text        string
	cookingTime int
	image       string

	tags        []catalog.Tag
	ingredients []IngredientLine

	createdAt time.Time
	updatedAt time.Time
}

// NewRecipe creates a recipe owned by authorID from a validated draft.
func NewRecipe(authorID uuid.UUID, draft Draft) (*Recipe, error) {
	if err := checkDraft(draft); err != nil {
		return nil, err
	}
	if draft.Image == "" {
		return nil, ErrImageRequired
	}

	now := time.Now().UTC()
	r := &Recipe{
		id:        uuid.New(),
		version:   1,
		authorID:  authorID,
		createdAt: now,
		updatedAt: now,
	}
	r.apply(draft)

	r.AddEvent(RecipeCreatedEvent{
		RecipeID:  r.id,
		AuthorID:  authorID,
		Name:      r.name,
		CreatedAt: now,
	})

	return r, nil
}

// Reconstitute rebuilds a recipe from persisted state.
func Reconstitute(
	id, authorID uuid.UUID,
	version int64,
	name, text string,
	cookingTime int,
	image string,
	tags []catalog.Tag,
	ingredients []IngredientLine,
	createdAt, updatedAt time.Time,
) *Recipe {
	return &Recipe{
		id:          id,
		version:     version,
		authorID:    authorID,
		name:        name,
		text:        text,
		cookingTime: cookingTime,
		image:       image,
		tags:        tags,
		ingredients: ingredients,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// Replace swaps the recipe's contents for the draft's wholesale. An empty
// draft image keeps the current one.
func (r *Recipe) Replace(draft Draft) error {
	if err := checkDraft(draft); err != nil {
		return err
	}
	if draft.Image == "" {
		if r.image == "" {
			return ErrImageRequired
		}
		draft.Image = r.image
	}

	r.apply(draft)
	r.version++
	r.updatedAt = time.Now().UTC()

	r.AddEvent(RecipeReplacedEvent{
		RecipeID:   r.id,
		Version:    r.version,
		ReplacedAt: r.updatedAt,
	})
	return nil
}

// MarkDeleted raises the deletion event. Removal itself happens in storage.
func (r *Recipe) MarkDeleted() {
	r.AddEvent(RecipeDeletedEvent{
		RecipeID:  r.id,
		AuthorID:  r.authorID,
		DeletedAt: time.Now().UTC(),
	})
}

// IsOwnedBy reports whether userID authored the recipe.
func (r *Recipe) IsOwnedBy(userID uuid.UUID) bool {
	return r.authorID == userID
}

func (r *Recipe) apply(draft Draft) {
	r.name = strings.TrimSpace(draft.Name)
	r.text = draft.Text
	r.cookingTime = draft.CookingTime
	r.image = draft.Image
	r.tags = append([]catalog.Tag(nil), draft.Tags...)
	r.ingredients = append([]IngredientLine(nil), draft.Ingredients...)
}

// checkDraft enforces the aggregate invariants that must hold regardless of
// how the draft was produced.
func checkDraft(d Draft) error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrNameRequired
	}
	if len(d.Tags) == 0 {
		return ErrNoTags
	}
	seenTags := make(map[uuid.UUID]struct{}, len(d.Tags))
	for _, t := range d.Tags {
		if _, dup := seenTags[t.ID]; dup {
			return ErrDuplicateTag
		}
		seenTags[t.ID] = struct{}{}
	}
	if len(d.Ingredients) == 0 {
		return ErrNoIngredients
	}
	seenIngredients := make(map[uuid.UUID]struct{}, len(d.Ingredients))
	for _, line := range d.Ingredients {
		if _, dup := seenIngredients[line.Ingredient.ID]; dup {
			return ErrDuplicateIngredient
		}
		seenIngredients[line.Ingredient.ID] = struct{}{}
	}
	return nil
}

// ID returns the recipe's unique identifier
func (r *Recipe) ID() uuid.UUID {
	return r.id
}

// Version returns the optimistic-lock version
func (r *Recipe) Version() int64 {
	return r.version
}

// AuthorID returns the recipe's author ID
func (r *Recipe) AuthorID() uuid.UUID {
	return r.authorID
}

// Name returns the recipe's name
func (r *Recipe) Name() string {
	return r.name
}

// Text returns the recipe's body
func (r *Recipe) Text() string {
	return r.text
}

// CookingTime returns the cooking time in minutes
func (r *Recipe) CookingTime() int {
	return r.cookingTime
}

// Image returns the stored image reference
func (r *Recipe) Image() string {
	return r.image
}

// Tags returns a copy of the recipe's tags
func (r *Recipe) Tags() []catalog.Tag {
	return append([]catalog.Tag(nil), r.tags...)
}

// Ingredients returns a copy of the recipe's ingredient lines
func (r *Recipe) Ingredients() []IngredientLine {
	return append([]IngredientLine(nil), r.ingredients...)
}

// CreatedAt returns when the recipe was created
func (r *Recipe) CreatedAt() time.Time {
	return r.createdAt
}

// UpdatedAt returns when the recipe was last replaced
func (r *Recipe) UpdatedAt() time.Time {
	return r.updatedAt
}

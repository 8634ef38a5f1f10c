package recipe

import (
	"github.com/alchemorsel/foodgram/internal/domain/catalog"
	"github.com/google/uuid"
)

// Bounds is the inclusive range shared by cooking time and ingredient amounts.
type Bounds struct {
	Min int
	Max int
}

// DefaultBounds mirrors the values the service ships with.
var DefaultBounds = Bounds{Min: 1, Max: 32000}

// Contains reports whether v lies within the bounds.
func (b Bounds) Contains(v int) bool {
	return v >= b.Min && v <= b.Max
}

// Valid reports whether the range itself is usable.
func (b Bounds) Valid() bool {
	return b.Min <= b.Max
}

// IngredientLine is a quantity of one ingredient within a recipe.
type IngredientLine struct {
	Ingredient catalog.Ingredient
	Amount     int
}

// Draft is a validated, catalog-resolved recipe payload ready to be written.
type Draft struct {
	Name        string
	Text        string
	CookingTime int
	Image       string
	Tags        []catalog.Tag
	Ingredients []IngredientLine
}

// TagIDs returns the identifiers of the draft's tags.
func (d Draft) TagIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(d.Tags))
	for i, t := range d.Tags {
		ids[i] = t.ID
	}
	return ids
}

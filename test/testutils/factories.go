// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/alchemorsel/foodgram/internal/domain/catalog"
	"github.com/alchemorsel/foodgram/internal/domain/recipe"
	"github.com/alchemorsel/foodgram/internal/domain/user"
	gormrepo "github.com/alchemorsel/foodgram/internal/infrastructure/persistence/gorm"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every user built by Fixtures
const DefaultPassword = "correct-horse-battery"

var units = []string{"g", "ml", "pcs", "tbsp", "tsp", "pinch"}

// Fixtures builds domain values with seeded fake data
type Fixtures struct {
	faker *gofakeit.Faker
}

// NewFixtures creates a factory. The same seed yields the same values.
func NewFixtures(seed int64) *Fixtures {
	return &Fixtures{faker: gofakeit.New(seed)}
}

// User returns a new unsaved user whose password is DefaultPassword
func (f *Fixtures) User(t testing.TB) *user.User {
	t.Helper()
	username := strings.ToLower(f.faker.Username()) + f.faker.DigitN(4)
	u, err := user.NewUser(
		username+"@example.com",
		username,
		f.faker.FirstName(),
		f.faker.LastName(),
		DefaultPassword,
		bcrypt.MinCost,
	)
	require.NoError(t, err)
	return u
}

// Tag returns a tag with a fresh id
func (f *Fixtures) Tag() catalog.Tag {
	name := fmt.Sprintf("%s %s", f.faker.Adjective(), f.faker.DigitN(5))
	return catalog.Tag{
		ID:    uuid.New(),
		Name:  name,
		Color: f.faker.HexColor(),
		Slug:  strings.ReplaceAll(strings.ToLower(name), " ", "-"),
	}
}

// Ingredient returns an ingredient with a fresh id
func (f *Fixtures) Ingredient() catalog.Ingredient {
	return catalog.Ingredient{
		ID:              uuid.New(),
		Name:            fmt.Sprintf("%s %s", strings.ToLower(f.faker.Vegetable()), f.faker.DigitN(5)),
		MeasurementUnit: units[f.faker.Number(0, len(units)-1)],
	}
}

// Recipe starts a builder for a recipe by authorID
func (f *Fixtures) Recipe(authorID uuid.UUID) *RecipeBuilder {
	return &RecipeBuilder{
		authorID: authorID,
		draft: recipe.Draft{
			Name:        f.faker.Sentence(3),
			Text:        f.faker.Paragraph(1, 3, 10, " "),
			CookingTime: f.faker.Number(5, 120),
			Image:       fmt.Sprintf("/media/recipes/images/%s.png", uuid.NewString()),
		},
	}
}

// RecipeBuilder provides a fluent interface for building test recipes
type RecipeBuilder struct {
	authorID uuid.UUID
	draft    recipe.Draft
}

// WithName sets the name
func (b *RecipeBuilder) WithName(name string) *RecipeBuilder {
	b.draft.Name = name
	return b
}

// WithCookingTime sets the cooking time
func (b *RecipeBuilder) WithCookingTime(minutes int) *RecipeBuilder {
	b.draft.CookingTime = minutes
	return b
}

// WithImage sets the image reference
func (b *RecipeBuilder) WithImage(ref string) *RecipeBuilder {
	b.draft.Image = ref
	return b
}

// WithTags appends tags
func (b *RecipeBuilder) WithTags(tags ...catalog.Tag) *RecipeBuilder {
	b.draft.Tags = append(b.draft.Tags, tags...)
	return b
}

// WithIngredient appends an ingredient line
func (b *RecipeBuilder) WithIngredient(in catalog.Ingredient, amount int) *RecipeBuilder {
	b.draft.Ingredients = append(b.draft.Ingredients, recipe.IngredientLine{Ingredient: in, Amount: amount})
	return b
}

// Draft returns the draft built so far
func (b *RecipeBuilder) Draft() recipe.Draft {
	return b.draft
}

// Build creates the recipe aggregate
func (b *RecipeBuilder) Build(t testing.TB) *recipe.Recipe {
	t.Helper()
	r, err := recipe.NewRecipe(b.authorID, b.draft)
	require.NoError(t, err)
	return r
}

// Catalog is reference data stored by SeedCatalog
type Catalog struct {
	Tags        []catalog.Tag
	Ingredients []catalog.Ingredient
}

// SeedCatalog stores tags and ingredients built from f
func SeedCatalog(t testing.TB, db *gorm.DB, f *Fixtures, tags, ingredients int) Catalog {
	t.Helper()
	ctx := context.Background()
	repo := gormrepo.NewCatalogRepository(db)

	var out Catalog
	for i := 0; i < tags; i++ {
		tag := f.Tag()
		require.NoError(t, repo.CreateTag(ctx, &tag))
		out.Tags = append(out.Tags, tag)
	}
	for i := 0; i < ingredients; i++ {
		in := f.Ingredient()
		require.NoError(t, repo.CreateIngredient(ctx, &in))
		out.Ingredients = append(out.Ingredients, in)
	}
	return out
}

// SeedUser stores a user built from f
func SeedUser(t testing.TB, db *gorm.DB, f *Fixtures) *user.User {
	t.Helper()
	u := f.User(t)
	require.NoError(t, gormrepo.NewUserRepository(db).Create(context.Background(), u))
	return u
}

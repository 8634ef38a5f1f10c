// Package gorm provides mapping between domain entities and GORM models
package gorm

import (
	"github.com/alchemorsel/foodgram/internal/domain/catalog"
	"github.com/alchemorsel/foodgram/internal/domain/recipe"
	"github.com/alchemorsel/foodgram/internal/domain/relation"
	"github.com/alchemorsel/foodgram/internal/domain/user"
)

// UserToModel converts a domain user to a GORM model
func UserToModel(u *user.User) *UserModel {
	return &UserModel{
		ID:           u.ID(),
		Email:        u.Email(),
		Username:     u.Username(),
		FirstName:    u.FirstName(),
		LastName:     u.LastName(),
		PasswordHash: u.PasswordHash(),
		CreatedAt:    u.CreatedAt(),
	}
}

// ModelToUser converts a GORM model to a domain user
func ModelToUser(m *UserModel) *user.User {
	return user.Reconstitute(m.ID, m.Email, m.Username, m.FirstName, m.LastName, m.PasswordHash, m.CreatedAt)
}

// ModelToTag converts a GORM model to a catalog tag
func ModelToTag(m *TagModel) catalog.Tag {
	return catalog.Tag{ID: m.ID, Name: m.Name, Color: m.Color, Slug: m.Slug}
}

// ModelToIngredient converts a GORM model to a catalog ingredient
func ModelToIngredient(m *IngredientModel) catalog.Ingredient {
	return catalog.Ingredient{ID: m.ID, Name: m.Name, MeasurementUnit: m.MeasurementUnit}
}

// RecipeToModel converts a domain recipe to a GORM model. Child rows carry
// only their keys and amounts; associations are never written through them.
func RecipeToModel(r *recipe.Recipe) *RecipeModel {
	model := &RecipeModel{
		ID:          r.ID(),
		Version:     r.Version(),
		AuthorID:    r.AuthorID(),
		Name:        r.Name(),
		Text:        r.Text(),
		CookingTime: r.CookingTime(),
		Image:       r.Image(),
		CreatedAt:   r.CreatedAt(),
		UpdatedAt:   r.UpdatedAt(),
	}

	for _, t := range r.Tags() {
		model.Tags = append(model.Tags, RecipeTagModel{RecipeID: model.ID, TagID: t.ID})
	}
	for _, line := range r.Ingredients() {
		model.Ingredients = append(model.Ingredients, RecipeIngredientModel{
			RecipeID:     model.ID,
			IngredientID: line.Ingredient.ID,
			Amount:       line.Amount,
		})
	}

	return model
}

// ModelToRecipe converts a GORM model with preloaded tags and ingredients to
// a domain recipe
func ModelToRecipe(m *RecipeModel) *recipe.Recipe {
	tags := make([]catalog.Tag, len(m.Tags))
	for i := range m.Tags {
		tags[i] = ModelToTag(&m.Tags[i].Tag)
	}

	lines := make([]recipe.IngredientLine, len(m.Ingredients))
	for i := range m.Ingredients {
		lines[i] = recipe.IngredientLine{
			Ingredient: ModelToIngredient(&m.Ingredients[i].Ingredient),
			Amount:     m.Ingredients[i].Amount,
		}
	}

	return recipe.Reconstitute(
		m.ID,
		m.AuthorID,
		m.Version,
		m.Name,
		m.Text,
		m.CookingTime,
		m.Image,
		tags,
		lines,
		m.CreatedAt,
		m.UpdatedAt,
	)
}

// RelationToModel converts a relation to a GORM model
func RelationToModel(rel relation.Relation) *RelationModel {
	return &RelationModel{
		SubjectID: rel.SubjectID,
		TargetID:  rel.TargetID,
		Kind:      string(rel.Kind),
		CreatedAt: rel.CreatedAt,
	}
}

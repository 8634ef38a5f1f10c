// Package gorm provides GORM-based repository implementations
package gorm

import (
	"context"
	"errors"
	"fmt"

	"github.com/alchemorsel/foodgram/internal/domain/recipe"
	"github.com/alchemorsel/foodgram/internal/domain/relation"
	"github.com/alchemorsel/foodgram/internal/ports/outbound"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecipeRepository implements the recipe repository interface using GORM.
// Every write covers the recipe row, its tag links and its ingredient lines
// in one transaction.
type RecipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

var _ outbound.RecipeRepository = (*RecipeRepository)(nil)

// Create inserts the recipe, then its tag links, then its ingredient lines.
func (r *RecipeRepository) Create(ctx context.Context, rec *recipe.Recipe) error {
	model := RecipeToModel(rec)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			return err
		}
		return insertChildren(tx, model)
	})
	return writeError("create recipe", err)
}

// Replace overwrites the stored recipe with rec. The row is locked for the
// duration of the transaction and the stored version must equal
// expectedVersion; tag links and ingredient lines are replaced wholesale.
func (r *RecipeRepository) Replace(ctx context.Context, rec *recipe.Recipe, expectedVersion int64) error {
	model := RecipeToModel(rec)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current RecipeModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "version").
			First(&current, "id = ?", model.ID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return recipe.ErrRecipeNotFound
			}
			return err
		}
		if current.Version != expectedVersion {
			return recipe.ErrConcurrentUpdate
		}

		if err := tx.Where("recipe_id = ?", model.ID).Delete(&RecipeTagModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", model.ID).Delete(&RecipeIngredientModel{}).Error; err != nil {
			return err
		}
		if err := insertChildren(tx, model); err != nil {
			return err
		}

		result := tx.Model(&RecipeModel{}).
			Where("id = ? AND version = ?", model.ID, expectedVersion).
			Updates(map[string]interface{}{
				"name":         model.Name,
				"text":         model.Text,
				"cooking_time": model.CookingTime,
				"image":        model.Image,
				"version":      model.Version,
				"updated_at":   model.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return recipe.ErrConcurrentUpdate
		}
		return nil
	})
	return writeError("replace recipe", err)
}

// Delete removes a recipe with its children and every favorite or
// shopping-cart row pointing at it. The recipe row is locked first so that
// relation adds holding it FOR SHARE commit before the relations are swept.
func (r *RecipeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current RecipeModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&current, "id = ?", id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return recipe.ErrRecipeNotFound
			}
			return err
		}

		err = tx.Where("target_id = ? AND kind IN ?", id, []string{
			string(relation.KindFavorite),
			string(relation.KindShoppingCart),
		}).Delete(&RelationModel{}).Error
		if err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&RecipeTagModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&RecipeIngredientModel{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&RecipeModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return recipe.ErrRecipeNotFound
		}
		return nil
	})
	return writeError("delete recipe", err)
}

// FindByID finds a recipe by ID
func (r *RecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	var model RecipeModel

	result := withChildren(r.db.WithContext(ctx)).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, recipe.ErrRecipeNotFound
		}
		return nil, fmt.Errorf("find recipe: %w", result.Error)
	}

	return ModelToRecipe(&model), nil
}

// FindByIDs loads every recipe whose id is listed; missing ids are skipped
func (r *RecipeRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*recipe.Recipe, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var models []RecipeModel
	if err := withChildren(r.db.WithContext(ctx)).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("find recipes: %w", err)
	}
	return modelsToRecipes(models), nil
}

// FindByAuthor returns the author's recipes newest first; limit <= 0 means all
func (r *RecipeRepository) FindByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]*recipe.Recipe, error) {
	query := withChildren(r.db.WithContext(ctx)).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Order("id")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []RecipeModel
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("find recipes by author: %w", err)
	}
	return modelsToRecipes(models), nil
}

// CountByAuthor counts the author's recipes
func (r *RecipeRepository) CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&RecipeModel{}).Where("author_id = ?", authorID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count recipes: %w", err)
	}
	return count, nil
}

// Version returns the stored version of a recipe without loading it.
func (r *RecipeRepository) Version(ctx context.Context, id uuid.UUID) (int64, error) {
	var model RecipeModel
	err := r.db.WithContext(ctx).Select("version").Take(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, recipe.ErrRecipeNotFound
		}
		return 0, fmt.Errorf("find recipe version: %w", err)
	}
	return model.Version, nil
}

// Exists reports whether a recipe with id is stored
func (r *RecipeRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&RecipeModel{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check recipe existence: %w", err)
	}
	return count > 0, nil
}

type ingredientTotalRow struct {
	ID              uuid.UUID
	Name            string
	MeasurementUnit string
	Total           int64
}

// AggregateIngredients sums ingredient amounts over recipeIDs, ordered by
// ingredient name
func (r *RecipeRepository) AggregateIngredients(ctx context.Context, recipeIDs []uuid.UUID) ([]outbound.IngredientTotal, error) {
	if len(recipeIDs) == 0 {
		return nil, nil
	}

	var rows []ingredientTotalRow
	err := r.db.WithContext(ctx).
		Table("recipe_ingredients AS ri").
		Select("i.id AS id, i.name AS name, i.measurement_unit AS measurement_unit, SUM(ri.amount) AS total").
		Joins("JOIN ingredients AS i ON i.id = ri.ingredient_id").
		Where("ri.recipe_id IN ?", recipeIDs).
		Group("i.id, i.name, i.measurement_unit").
		Order("i.name").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate ingredients: %w", err)
	}

	totals := make([]outbound.IngredientTotal, len(rows))
	for i, row := range rows {
		totals[i] = outbound.IngredientTotal{
			Ingredient: ModelToIngredient(&IngredientModel{ID: row.ID, Name: row.Name, MeasurementUnit: row.MeasurementUnit}),
			Amount:     row.Total,
		}
	}
	return totals, nil
}

func withChildren(db *gorm.DB) *gorm.DB {
	return db.Preload("Tags.Tag").Preload("Ingredients.Ingredient")
}

func insertChildren(tx *gorm.DB, model *RecipeModel) error {
	if len(model.Tags) > 0 {
		if err := tx.Omit(clause.Associations).Create(&model.Tags).Error; err != nil {
			return err
		}
	}
	if len(model.Ingredients) > 0 {
		if err := tx.Omit(clause.Associations).Create(&model.Ingredients).Error; err != nil {
			return err
		}
	}
	return nil
}

func modelsToRecipes(models []RecipeModel) []*recipe.Recipe {
	recipes := make([]*recipe.Recipe, len(models))
	for i := range models {
		recipes[i] = ModelToRecipe(&models[i])
	}
	return recipes
}

// writeError maps constraint failures onto recipe sentinels. Domain sentinels
// returned from inside a transaction pass through unchanged.
func writeError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, recipe.ErrRecipeNotFound), errors.Is(err, recipe.ErrConcurrentUpdate):
		return err
	case isForeignKeyViolation(err), isUniqueViolation(err):
		return fmt.Errorf("%s: %w: %v", op, recipe.ErrReferenceConflict, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

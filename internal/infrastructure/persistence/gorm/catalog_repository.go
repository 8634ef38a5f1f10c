package gorm

import (
	"context"
	"fmt"
	"strings"

	"github.com/alchemorsel/foodgram/internal/domain/catalog"
	"github.com/alchemorsel/foodgram/internal/ports/outbound"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogRepository reads tags and ingredients
type CatalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

var _ outbound.CatalogRepository = (*CatalogRepository)(nil)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// FindTagsByIDs loads the listed tags keyed by id
func (r *CatalogRepository) FindTagsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]catalog.Tag, error) {
	tags := make(map[uuid.UUID]catalog.Tag, len(ids))
	if len(ids) == 0 {
		return tags, nil
	}

	var models []TagModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("find tags: %w", err)
	}
	for i := range models {
		tags[models[i].ID] = ModelToTag(&models[i])
	}
	return tags, nil
}

// FindIngredientsByIDs loads the listed ingredients keyed by id
func (r *CatalogRepository) FindIngredientsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]catalog.Ingredient, error) {
	ingredients := make(map[uuid.UUID]catalog.Ingredient, len(ids))
	if len(ids) == 0 {
		return ingredients, nil
	}

	var models []IngredientModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("find ingredients: %w", err)
	}
	for i := range models {
		ingredients[models[i].ID] = ModelToIngredient(&models[i])
	}
	return ingredients, nil
}

// ListTags returns every tag ordered by name
func (r *CatalogRepository) ListTags(ctx context.Context) ([]catalog.Tag, error) {
	var models []TagModel
	if err := r.db.WithContext(ctx).Order("name").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	tags := make([]catalog.Tag, len(models))
	for i := range models {
		tags[i] = ModelToTag(&models[i])
	}
	return tags, nil
}

// SearchIngredients matches the start of the name, ignoring case
func (r *CatalogRepository) SearchIngredients(ctx context.Context, namePrefix string, limit int) ([]catalog.Ingredient, error) {
	query := r.db.WithContext(ctx).Order("name")
	if namePrefix != "" {
		pattern := likeEscaper.Replace(strings.ToLower(namePrefix)) + "%"
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []IngredientModel
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("search ingredients: %w", err)
	}
	ingredients := make([]catalog.Ingredient, len(models))
	for i := range models {
		ingredients[i] = ModelToIngredient(&models[i])
	}
	return ingredients, nil
}

// CreateTag stores a tag; used by seeding
func (r *CatalogRepository) CreateTag(ctx context.Context, t *catalog.Tag) error {
	model := TagModel{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("create tag: %w", err)
	}
	t.ID = model.ID
	return nil
}

// CreateIngredient stores an ingredient; used by seeding
func (r *CatalogRepository) CreateIngredient(ctx context.Context, in *catalog.Ingredient) error {
	model := IngredientModel{ID: in.ID, Name: in.Name, MeasurementUnit: in.MeasurementUnit}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("create ingredient: %w", err)
	}
	in.ID = model.ID
	return nil
}

// Package gorm provides GORM model definitions for the application
package gorm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel represents the GORM model for users
type UserModel struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey"`
	Email        string    `gorm:"type:varchar(254);uniqueIndex;not null"`
	Username     string    `gorm:"type:varchar(150);uniqueIndex;not null"`
	FirstName    string    `gorm:"type:varchar(150)"`
	LastName     string    `gorm:"type:varchar(150)"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TagModel represents the GORM model for tags
type TagModel struct {
	ID    uuid.UUID `gorm:"type:char(36);primaryKey"`
	Name  string    `gorm:"type:varchar(200);uniqueIndex;not null"`
	Color string    `gorm:"type:varchar(7);not null"`
	Slug  string    `gorm:"type:varchar(200);uniqueIndex;not null"`
}

// IngredientModel represents the GORM model for ingredients
type IngredientModel struct {
	ID              uuid.UUID `gorm:"type:char(36);primaryKey"`
	Name            string    `gorm:"type:varchar(200);not null;uniqueIndex:idx_ingredient_name_unit"`
	MeasurementUnit string    `gorm:"type:varchar(200);not null;uniqueIndex:idx_ingredient_name_unit"`
}

// RecipeModel represents the GORM model for recipes. Version increases by one
// on every replace and backs the optimistic concurrency check.
type RecipeModel struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey"`
	Version     int64     `gorm:"not null;default:1"`
	AuthorID    uuid.UUID `gorm:"type:char(36);not null;index"`
	Name        string    `gorm:"type:varchar(200);not null"`
	Text        string    `gorm:"type:text;not null"`
	CookingTime int       `gorm:"not null"`
	Image       string    `gorm:"type:varchar(512);not null"`
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time

	// Relationships
	Author      UserModel               `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Tags        []RecipeTagModel        `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	Ingredients []RecipeIngredientModel `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

// RecipeTagModel links a recipe to one tag
type RecipeTagModel struct {
	RecipeID uuid.UUID `gorm:"type:char(36);primaryKey"`
	TagID    uuid.UUID `gorm:"type:char(36);primaryKey;index"`

	Tag TagModel `gorm:"foreignKey:TagID;constraint:OnDelete:RESTRICT"`
}

// RecipeIngredientModel is one ingredient line of a recipe
type RecipeIngredientModel struct {
	RecipeID     uuid.UUID `gorm:"type:char(36);primaryKey"`
	IngredientID uuid.UUID `gorm:"type:char(36);primaryKey;index"`
	Amount       int       `gorm:"not null"`

	Ingredient IngredientModel `gorm:"foreignKey:IngredientID;constraint:OnDelete:RESTRICT"`
}

// RelationModel stores favorites, shopping-cart entries and subscriptions.
// idx_user_relation guarantees at most one row per (subject, target, kind).
type RelationModel struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	SubjectID uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_user_relation,priority:1"`
	TargetID  uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_user_relation,priority:2;index"`
	Kind      string    `gorm:"type:varchar(32);not null;uniqueIndex:idx_user_relation,priority:3"`
	CreatedAt time.Time `gorm:"index"`

	Subject UserModel `gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE"`
}

// AllModels lists every model in dependency order for AutoMigrate
func AllModels() []interface{} {
	return []interface{}{
		&UserModel{},
		&TagModel{},
		&IngredientModel{},
		&RecipeModel{},
		&RecipeTagModel{},
		&RecipeIngredientModel{},
		&RelationModel{},
	}
}

// BeforeCreate hook for UserModel
func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for TagModel
func (t *TagModel) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for IngredientModel
func (i *IngredientModel) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for RecipeModel
func (r *RecipeModel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for RelationModel
func (r *RelationModel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName methods for custom table names
func (UserModel) TableName() string {
	return "users"
}

func (TagModel) TableName() string {
	return "tags"
}

func (IngredientModel) TableName() string {
	return "ingredients"
}

func (RecipeModel) TableName() string {
	return "recipes"
}

func (RecipeTagModel) TableName() string {
	return "recipe_tags"
}

func (RecipeIngredientModel) TableName() string {
	return "recipe_ingredients"
}

func (RelationModel) TableName() string {
	return "user_relations"
}

package gorm

import (
	"context"
	"fmt"

	"github.com/alchemorsel/foodgram/internal/domain/catalog"
	"github.com/alchemorsel/foodgram/internal/domain/user"
	"gorm.io/gorm"
)

// DemoPassword is the password of every seeded user
const DemoPassword = "foodgram-demo"

var demoTags = []catalog.Tag{
	{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"},
	{Name: "Lunch", Color: "#49B64E", Slug: "lunch"},
	{Name: "Dinner", Color: "#8775D2", Slug: "dinner"},
}

var demoIngredients = []catalog.Ingredient{
	{Name: "butter", MeasurementUnit: "g"},
	{Name: "chicken breast", MeasurementUnit: "g"},
	{Name: "eggs", MeasurementUnit: "pcs"},
	{Name: "flour", MeasurementUnit: "g"},
	{Name: "garlic", MeasurementUnit: "clove"},
	{Name: "milk", MeasurementUnit: "ml"},
	{Name: "olive oil", MeasurementUnit: "tbsp"},
	{Name: "onion", MeasurementUnit: "pcs"},
	{Name: "rice", MeasurementUnit: "g"},
	{Name: "salt", MeasurementUnit: "pinch"},
	{Name: "sugar", MeasurementUnit: "g"},
	{Name: "tomatoes", MeasurementUnit: "g"},
}

var demoUsers = []struct {
	email, username, firstName, lastName string
}{
	{"chef@foodgram.local", "chef", "Chef", "Demo"},
	{"cook@foodgram.local", "homecook", "Home", "Cook"},
}

// SeedDatabase inserts demo tags, ingredients and users. It does nothing when
// tags already exist.
func SeedDatabase(ctx context.Context, db *gorm.DB, bcryptCost int) error {
	var tagCount int64
	if err := db.WithContext(ctx).Model(&TagModel{}).Count(&tagCount).Error; err != nil {
		return fmt.Errorf("count tags: %w", err)
	}
	if tagCount > 0 {
		return nil
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		catalogRepo := NewCatalogRepository(tx)
		for _, t := range demoTags {
			t := t
			if err := catalogRepo.CreateTag(ctx, &t); err != nil {
				return err
			}
		}
		for _, in := range demoIngredients {
			in := in
			if err := catalogRepo.CreateIngredient(ctx, &in); err != nil {
				return err
			}
		}

		userRepo := NewUserRepository(tx)
		for _, du := range demoUsers {
			u, err := user.NewUser(du.email, du.username, du.firstName, du.lastName, DemoPassword, bcryptCost)
			if err != nil {
				return fmt.Errorf("build demo user: %w", err)
			}
			if err := userRepo.Create(ctx, u); err != nil {
				return fmt.Errorf("create demo user: %w", err)
			}
		}
		return nil
	})
}

package recipe

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/alchemorsel/foodgram/internal/domain/catalog"
	"github.com/alchemorsel/foodgram/internal/domain/recipe"
	"github.com/alchemorsel/foodgram/internal/ports/inbound"
	"github.com/alchemorsel/foodgram/pkg/errors"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/google/uuid"
)

// Mode distinguishes a new recipe from the replacement of an existing one.
type Mode int

const (
	ModeCreate Mode = iota
	ModeUpdate
)

// Payload is a proposed recipe as received from a caller.
type Payload struct {
	Name        string                     `json:"name" validate:"required,notblank,max=200"`
	Text        string                     `json:"text" validate:"required,notblank"`
	CookingTime int                        `json:"cooking_time"`
	Ingredients []inbound.IngredientAmount `json:"ingredients"`
	Tags        []uuid.UUID                `json:"tags"`
	// HasImage is true when the request carries an image (create) or the
	// stored recipe already has one (update).
	HasImage bool `json:"-"`
}

// CatalogResolver resolves whole id sets against reference data.
type CatalogResolver interface {
	ResolveTags(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]catalog.Tag, error)
	ResolveIngredients(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]catalog.Ingredient, error)
}

// BoundsProvider supplies MIN_VALUE and MAX_VALUE. Implementations may change
// the result between calls when configuration is reloaded.
type BoundsProvider interface {
	Bounds() recipe.Bounds
}

// StaticBounds is a BoundsProvider that never changes.
type StaticBounds recipe.Bounds

// Bounds implements BoundsProvider.
func (b StaticBounds) Bounds() recipe.Bounds {
	return recipe.Bounds(b)
}

// Validator checks a Payload and resolves its catalog references. It never
// writes anything.
type Validator struct {
	catalog  CatalogResolver
	bounds   BoundsProvider
	validate *validator.Validate
}

// NewValidator creates a recipe validator.
func NewValidator(catalog CatalogResolver, bounds BoundsProvider) *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// whitespace-only text counts as missing
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return &Validator{catalog: catalog, bounds: bounds, validate: v}
}

// Validate returns a Draft with resolved tags and ingredients, or a
// VALIDATION_FAILED AppError listing every problem found. The Draft's image is
// left empty for the caller to fill in after upload.
func (v *Validator) Validate(ctx context.Context, p Payload, mode Mode) (recipe.Draft, error) {
	bounds := v.bounds.Bounds()
	var problems errors.ValidationErrors

	ingredients, errs, err := v.checkIngredients(ctx, p.Ingredients, bounds)
	if err != nil {
		return recipe.Draft{}, err
	}
	problems = append(problems, errs...)

	tags, errs, err := v.checkTags(ctx, p.Tags)
	if err != nil {
		return recipe.Draft{}, err
	}
	problems = append(problems, errs...)

	if !bounds.Contains(p.CookingTime) {
		problems = append(problems, errors.ValidationError{
			Field:   "cooking_time",
			Value:   p.CookingTime,
			Tag:     "range",
			Message: rangeMessage("cooking time", bounds),
		})
	}

	if !p.HasImage {
		msg := "image is required"
		if mode == ModeUpdate {
			msg = "recipe has no image; upload one"
		}
		problems = append(problems, errors.ValidationError{Field: "image", Tag: "required", Message: msg})
	}

	problems = append(problems, v.structural(p)...)

	if len(problems) > 0 {
		return recipe.Draft{}, errors.NewValidationErrors(problems)
	}

	return recipe.Draft{
		Name:        strings.TrimSpace(p.Name),
		Text:        p.Text,
		CookingTime: p.CookingTime,
		Tags:        tags,
		Ingredients: ingredients,
	}, nil
}

func (v *Validator) checkIngredients(ctx context.Context, in []inbound.IngredientAmount, bounds recipe.Bounds) ([]recipe.IngredientLine, errors.ValidationErrors, error) {
	const field = "ingredients"
	if len(in) == 0 {
		return nil, errors.ValidationErrors{{Field: field, Tag: "required", Message: "at least one ingredient is required"}}, nil
	}

	var problems errors.ValidationErrors
	amounts := make(map[uuid.UUID]int, len(in))
	ids := make([]uuid.UUID, 0, len(in))
	for _, item := range in {
		if _, dup := amounts[item.ID]; dup {
			problems = append(problems, errors.ValidationError{
				Field:   field,
				Value:   item.ID.String(),
				Tag:     "unique",
				Message: fmt.Sprintf("ingredient %s is listed more than once", item.ID),
			})
			continue
		}
		amounts[item.ID] = item.Amount
		ids = append(ids, item.ID)
	}

	for _, item := range in {
		if !bounds.Contains(item.Amount) {
			problems = append(problems, errors.ValidationError{
				Field:   field,
				Value:   item.Amount,
				Tag:     "amount",
				Message: rangeMessage(fmt.Sprintf("amount of ingredient %s", item.ID), bounds),
			})
		}
	}

	resolved, err := v.catalog.ResolveIngredients(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	// the first occurrence of a duplicated id supplies the amount
	lines := make([]recipe.IngredientLine, 0, len(ids))
	for _, id := range ids {
		ing, ok := resolved[id]
		if !ok {
			problems = append(problems, errors.ValidationError{
				Field:   field,
				Value:   id.String(),
				Tag:     "exists",
				Message: fmt.Sprintf("ingredient %s does not exist", id),
			})
			continue
		}
		lines = append(lines, recipe.IngredientLine{Ingredient: ing, Amount: amounts[id]})
	}
	return lines, problems, nil
}

func (v *Validator) checkTags(ctx context.Context, in []uuid.UUID) ([]catalog.Tag, errors.ValidationErrors, error) {
	const field = "tags"
	if len(in) == 0 {
		return nil, errors.ValidationErrors{{Field: field, Tag: "required", Message: "at least one tag is required"}}, nil
	}

	var problems errors.ValidationErrors
	seen := make(map[uuid.UUID]bool, len(in))
	ids := make([]uuid.UUID, 0, len(in))
	for _, id := range in {
		if seen[id] {
			problems = append(problems, errors.ValidationError{
				Field:   field,
				Value:   id.String(),
				Tag:     "unique",
				Message: fmt.Sprintf("tag %s is listed more than once", id),
			})
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}

	resolved, err := v.catalog.ResolveTags(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	tags := make([]catalog.Tag, 0, len(ids))
	for _, id := range ids {
		t, ok := resolved[id]
		if !ok {
			problems = append(problems, errors.ValidationError{
				Field:   field,
				Value:   id.String(),
				Tag:     "exists",
				Message: fmt.Sprintf("tag %s does not exist", id),
			})
			continue
		}
		tags = append(tags, t)
	}
	return tags, problems, nil
}

func (v *Validator) structural(p Payload) errors.ValidationErrors {
	err := v.validate.Struct(p)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.ValidationErrors{{Field: "payload", Tag: "invalid", Message: err.Error()}}
	}

	out := make(errors.ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, errors.ValidationError{
			Field:   fe.Field(),
			Value:   fe.Value(),
			Tag:     fe.Tag(),
			Message: structuralMessage(fe),
		})
	}
	return out
}

func structuralMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "notblank":
		return fmt.Sprintf("%s must not be blank", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}

func rangeMessage(subject string, b recipe.Bounds) string {
	return fmt.Sprintf("%s must be between %d and %d", subject, b.Min, b.Max)
}

// Package handlers provides the gin handlers of the JSON API
package handlers

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/alchemorsel/foodgram/internal/infrastructure/http/middleware"
	"github.com/alchemorsel/foodgram/pkg/errors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// pathID parses the :id route parameter
func pathID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, errors.NewNotFoundError("resource not found").WithMetadata("id", c.Param("id"))
	}
	return id, nil
}

// recipesLimit reads ?recipes_limit=; absent means no limit
func recipesLimit(c *gin.Context) (*int, error) {
	raw, ok := c.GetQuery("recipes_limit")
	if !ok || raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil, errors.NewValidationErrors([]errors.ValidationError{{
			Field:   "recipes_limit",
			Value:   raw,
			Tag:     "min",
			Message: "recipes_limit must be a non-negative integer",
		}})
	}
	return &n, nil
}

// viewer returns the authenticated user. Routes calling it sit behind
// RequireAuth.
func viewer(c *gin.Context) uuid.UUID {
	if id := middleware.ViewerID(c); id != nil {
		return *id
	}
	return uuid.Nil
}

// bindError turns a body binding failure into an AppError. Values of the
// wrong JSON type and failed binding rules are reported per field.
func bindError(err error) error {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return err
	}

	var typeErr *json.UnmarshalTypeError
	if stderrors.As(err, &typeErr) && typeErr.Field != "" {
		// nested paths such as ingredients.amount belong to the top field
		field := strings.SplitN(typeErr.Field, ".", 2)[0]
		return errors.NewValidationErrors([]errors.ValidationError{{
			Field:   field,
			Value:   typeErr.Value,
			Tag:     "type",
			Message: fmt.Sprintf("%s must be %s, got %s", typeErr.Field, jsonKind(typeErr.Type), typeErr.Value),
		}})
	}

	var fieldErrs validator.ValidationErrors
	if stderrors.As(err, &fieldErrs) {
		problems := make([]errors.ValidationError, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			field := strings.ToLower(fe.Field())
			problems = append(problems, errors.ValidationError{
				Field:   field,
				Tag:     fe.Tag(),
				Message: fmt.Sprintf("%s failed %s", field, fe.Tag()),
			})
		}
		return errors.NewValidationErrors(problems)
	}

	return errors.NewBadRequestError("invalid request body").WithCause(err)
}

func jsonKind(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "a string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Bool:
		return "a boolean"
	case reflect.Slice, reflect.Array:
		return "a list"
	default:
		return "an object"
	}
}

func fail(c *gin.Context, err error) {
	_ = c.Error(err)
}

package relation

import (
	"context"
	"testing"

	"github.com/alchemorsel/foodgram/internal/application/eventing"
	"github.com/alchemorsel/foodgram/internal/domain/relation"
	"github.com/alchemorsel/foodgram/pkg/errors"
	"github.com/alchemorsel/foodgram/test/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func TestToggleAdd_TargetDeletedBeforeInsert_ReturnsResolveNotFound(t *testing.T) {
	// Arrange
	targetID := uuid.New()
	resolves := 0
	desc := Descriptor[string, string]{
		Kind: relation.KindFavorite,
		Resolve: func(_ context.Context, id uuid.UUID) (string, error) {
			resolves++
			if resolves == 1 {
				return "soup", nil
			}
			return "", errors.NewNotFoundError("recipe not found").WithMetadata("recipe_id", id.String())
		},
		Project: func(_ context.Context, target string, _ uuid.UUID, _ Options) (string, error) {
			return target, nil
		},
		DuplicateMessage: "recipe already added to favorites",
		MissingMessage:   "recipe is not in favorites",
	}
	repo := new(testutils.MockRelationRepository)
	repo.On("Add", mock.Anything, mock.Anything).Return(relation.ErrTargetNotFound)
	bus := new(testutils.MockMessageBus)
	toggle := NewToggle(desc, repo, eventing.NewPublisher(bus, zap.NewNop()), zap.NewNop())

	// Act
	_, err := toggle.Add(context.Background(), uuid.New(), targetID, Options{})

	// Assert
	testutils.AssertAppError(t, err, errors.CodeNotFound)
	assert.Contains(t, err.Error(), "recipe not found")
	assert.Equal(t, 2, resolves)
	assert.Empty(t, bus.Topics())
}

package eventing

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"github.com/alchemorsel/foodgram/internal/domain/recipe"
	"github.com/alchemorsel/foodgram/internal/ports/outbound"
	"github.com/alchemorsel/foodgram/test/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPublisher_SendsEventOnItsTopic(t *testing.T) {
	bus := new(testutils.MockMessageBus)
	created := recipe.RecipeCreatedEvent{RecipeID: uuid.New(), AuthorID: uuid.New(), Name: "Soup", CreatedAt: time.Now().UTC()}

	var sent outbound.Message
	bus.On("Publish", mock.Anything, "recipe.created", mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(2).(outbound.Message) }).
		Return(nil)

	NewPublisher(bus, zap.NewNop()).Publish(context.Background(), created)

	bus.AssertExpectations(t)
	assert.Equal(t, "recipe.created", sent.Type)
	assert.NotEmpty(t, sent.ID)
	assert.True(t, created.CreatedAt.Equal(sent.Timestamp))

	var decoded recipe.RecipeCreatedEvent
	require.NoError(t, json.Unmarshal(sent.Payload, &decoded))
	assert.Equal(t, created.RecipeID, decoded.RecipeID)
}

func TestPublisher_FailureDoesNotStopLaterEvents(t *testing.T) {
	bus := new(testutils.MockMessageBus)
	bus.On("Publish", mock.Anything, "recipe.created", mock.Anything).Return(stderrors.New("broker down"))
	bus.On("Publish", mock.Anything, "recipe.deleted", mock.Anything).Return(nil)

	NewPublisher(bus, zap.NewNop()).Publish(context.Background(),
		recipe.RecipeCreatedEvent{RecipeID: uuid.New()},
		recipe.RecipeDeletedEvent{RecipeID: uuid.New()},
	)

	assert.Equal(t, []string{"recipe.created", "recipe.deleted"}, bus.Topics())
}

func TestPublisher_NilBusDropsEvents(t *testing.T) {
	var p *Publisher
	assert.NotPanics(t, func() {
		p.Publish(context.Background(), recipe.RecipeCreatedEvent{})
	})
	assert.NotPanics(t, func() {
		NewPublisher(nil, zap.NewNop()).Publish(context.Background(), recipe.RecipeCreatedEvent{})
	})
}

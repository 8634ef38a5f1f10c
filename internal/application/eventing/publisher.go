// Package eventing turns domain events into bus messages.
package eventing

import (
	"context"
	"encoding/json"

	"github.com/alchemorsel/foodgram/internal/domain/shared"
	"github.com/alchemorsel/foodgram/internal/ports/outbound"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Publisher publishes committed domain events. Delivery failures are logged
// and never undo the write that raised the event.
type Publisher struct {
	bus    outbound.MessageBus
	logger *zap.Logger
}

// NewPublisher creates a publisher. A nil bus drops every event.
func NewPublisher(bus outbound.MessageBus, logger *zap.Logger) *Publisher {
	return &Publisher{bus: bus, logger: logger.Named("event-publisher")}
}

// Publish sends each event on a topic named after the event.
func (p *Publisher) Publish(ctx context.Context, events ...shared.DomainEvent) {
	if p == nil || p.bus == nil {
		return
	}
	for _, event := range events {
		if err := p.publish(ctx, event); err != nil {
			p.logger.Error("Failed to publish event",
				zap.String("event", event.EventName()),
				zap.Error(err),
			)
		}
	}
}

func (p *Publisher) publish(ctx context.Context, event shared.DomainEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.bus.Publish(ctx, event.EventName(), outbound.Message{
		ID:        uuid.NewString(),
		Type:      event.EventName(),
		Payload:   payload,
		Timestamp: event.OccurredAt(),
	})
}

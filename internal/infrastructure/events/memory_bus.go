// Package events provides message bus implementations for domain events.
package events

import (
	"context"
	"sync"

	"github.com/alchemorsel/foodgram/internal/ports/outbound"
	"go.uber.org/zap"
)

// AllTopics subscribes a handler to every topic.
const AllTopics = "*"

// MemoryBus dispatches messages synchronously to handlers registered in this
// process. Handler errors are logged and do not fail the publisher.
type MemoryBus struct {
	mu       sync.RWMutex
	handlers map[string][]outbound.MessageHandler
	closed   bool
	log      *zap.Logger
}

var _ outbound.MessageBus = (*MemoryBus)(nil)

// NewMemoryBus creates a new in-process bus
func NewMemoryBus(log *zap.Logger) *MemoryBus {
	return &MemoryBus{
		handlers: make(map[string][]outbound.MessageHandler),
		log:      log.Named("memory-bus"),
	}
}

// Publish dispatches a message to the topic's handlers and to wildcard handlers
func (b *MemoryBus) Publish(ctx context.Context, topic string, message outbound.Message) error {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return nil
	}
	handlers := make([]outbound.MessageHandler, 0, len(b.handlers[topic])+len(b.handlers[AllTopics]))
	handlers = append(handlers, b.handlers[topic]...)
	handlers = append(handlers, b.handlers[AllTopics]...)
	b.mu.RUnlock()

	if len(handlers) == 0 {
		b.log.Debug("No handlers registered for event", zap.String("event", topic))
		return nil
	}

	for _, handler := range handlers {
		if err := handler(ctx, message); err != nil {
			b.log.Error("Failed to handle event",
				zap.String("event", topic),
				zap.String("message_id", message.ID),
				zap.Error(err),
			)
		}
	}
	return nil
}

// Subscribe registers handler for topic; AllTopics receives every message
func (b *MemoryBus) Subscribe(ctx context.Context, topic string, handler outbound.MessageHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[topic] = append(b.handlers[topic], handler)
	b.log.Debug("Registered event handler", zap.String("event", topic))
	return nil
}

// Close drops all handlers; later publishes are ignored
func (b *MemoryBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	b.handlers = make(map[string][]outbound.MessageHandler)
	return nil
}

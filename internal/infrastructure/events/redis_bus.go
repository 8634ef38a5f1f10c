package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/alchemorsel/foodgram/internal/ports/outbound"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisBus fans messages out over Redis pub/sub so every instance sees them.
// Channels are named <prefix>:<topic>.
type RedisBus struct {
	rdb    redis.UniversalClient
	prefix string
	log    *zap.Logger

	mu     sync.Mutex
	subs   []*redis.PubSub
	wg     sync.WaitGroup
	closed bool
}

var _ outbound.MessageBus = (*RedisBus)(nil)

// NewRedisBus creates a bus on rdb. An empty prefix defaults to "foodgram".
func NewRedisBus(rdb redis.UniversalClient, prefix string, log *zap.Logger) *RedisBus {
	if prefix == "" {
		prefix = "foodgram"
	}
	return &RedisBus{rdb: rdb, prefix: prefix, log: log.Named("redis-bus")}
}

// Publish encodes message as JSON and publishes it on the topic channel
func (b *RedisBus) Publish(ctx context.Context, topic string, message outbound.Message) error {
	raw, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	if err := b.rdb.Publish(ctx, b.channel(topic), raw).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

// Subscribe delivers messages on topic to handler until ctx is done or the
// bus is closed. AllTopics subscribes to every channel under the prefix.
func (b *RedisBus) Subscribe(ctx context.Context, topic string, handler outbound.MessageHandler) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return fmt.Errorf("redis bus closed")
	}
	b.mu.Unlock()

	var sub *redis.PubSub
	if topic == AllTopics {
		sub = b.rdb.PSubscribe(ctx, b.channel("*"))
	} else {
		sub = b.rdb.Subscribe(ctx, b.channel(topic))
	}

	// ensures subscription actually started
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					return
				}
				var msg outbound.Message
				if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
					b.log.Warn("Bad event payload", zap.String("channel", m.Channel), zap.Error(err))
					continue
				}
				if err := handler(ctx, msg); err != nil {
					b.log.Error("Failed to handle event",
						zap.String("event", b.topic(m.Channel)),
						zap.String("message_id", msg.ID),
						zap.Error(err),
					)
				}
			}
		}
	}()

	return nil
}

// Close closes every subscription and waits for the receive loops to exit.
// The Redis client is owned by the caller.
func (b *RedisBus) Close() error {
	b.mu.Lock()
	b.closed = true
	subs := b.subs
	b.subs = nil
	b.mu.Unlock()

	for _, sub := range subs {
		_ = sub.Close()
	}
	b.wg.Wait()
	return nil
}

func (b *RedisBus) channel(topic string) string {
	return b.prefix + ":" + topic
}

func (b *RedisBus) topic(channel string) string {
	return strings.TrimPrefix(channel, b.prefix+":")
}

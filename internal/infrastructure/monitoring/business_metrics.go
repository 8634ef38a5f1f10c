package monitoring

import (
	"context"
	"fmt"
	"strings"

	"github.com/alchemorsel/foodgram/internal/ports/outbound"
	"github.com/prometheus/client_golang/prometheus"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

const meterName = "github.com/alchemorsel/foodgram"

// NewMeterProvider creates an OpenTelemetry meter provider whose readings are
// exposed through reg.
func NewMeterProvider(reg prometheus.Registerer) (*sdkmetric.MeterProvider, error) {
	exporter, err := otelprom.New(otelprom.WithRegisterer(reg))
	if err != nil {
		return nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}
	return sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter)), nil
}

// BusinessMetrics counts recipe writes and relation toggles. It is fed by
// subscribing Handle to the message bus.
type BusinessMetrics struct {
	recipeEvents   metric.Int64Counter
	relationEvents metric.Int64Counter
	logger         *zap.Logger
}

// NewBusinessMetrics creates the business counters on mp
func NewBusinessMetrics(mp metric.MeterProvider, logger *zap.Logger) (*BusinessMetrics, error) {
	meter := mp.Meter(meterName)

	recipeEvents, err := meter.Int64Counter("foodgram.recipe.events",
		metric.WithDescription("Recipe aggregate writes by action"),
	)
	if err != nil {
		return nil, err
	}
	relationEvents, err := meter.Int64Counter("foodgram.relation.events",
		metric.WithDescription("Relation toggles by kind and action"),
	)
	if err != nil {
		return nil, err
	}

	return &BusinessMetrics{
		recipeEvents:   recipeEvents,
		relationEvents: relationEvents,
		logger:         logger.Named("business-metrics"),
	}, nil
}

// Handle records one bus message. Topics are recipe.<action> and
// relation.<kind>.<action>; anything else is ignored.
func (b *BusinessMetrics) Handle(ctx context.Context, msg outbound.Message) error {
	parts := strings.Split(msg.Type, ".")
	switch {
	case len(parts) == 2 && parts[0] == "recipe":
		b.recipeEvents.Add(ctx, 1, metric.WithAttributes(attribute.String("action", parts[1])))
	case len(parts) == 3 && parts[0] == "relation":
		b.relationEvents.Add(ctx, 1, metric.WithAttributes(
			attribute.String("kind", parts[1]),
			attribute.String("action", parts[2]),
		))
	default:
		b.logger.Debug("Ignoring event", zap.String("event", msg.Type))
	}
	return nil
}

// Subscribe attaches Handle to every topic on bus
func (b *BusinessMetrics) Subscribe(ctx context.Context, bus outbound.MessageBus, topic string) error {
	return bus.Subscribe(ctx, topic, b.Handle)
}

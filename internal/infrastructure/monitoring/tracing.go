package monitoring

import (
	"context"
	"fmt"

	"github.com/alchemorsel/foodgram/internal/infrastructure/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/zap"
)

// NewTracerProvider installs the global tracer provider and propagator. With
// tracing disabled the provider samples nothing, so spans stay no-ops.
func NewTracerProvider(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*sdktrace.TracerProvider, error) {
	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		semconv.ServiceName(cfg.App.Name),
		semconv.ServiceVersion(cfg.App.Version),
		semconv.DeploymentEnvironment(cfg.App.Environment),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	opts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}

	mc := cfg.Monitoring
	switch {
	case !mc.EnableTracing:
		opts = append(opts, sdktrace.WithSampler(sdktrace.NeverSample()))
		logger.Info("Tracing is disabled")
	case mc.OTLPEndpoint == "":
		opts = append(opts, sdktrace.WithSampler(sdktrace.NeverSample()))
		logger.Warn("Tracing enabled without an OTLP endpoint; spans are dropped")
	default:
		exporter, err := newOTLPExporter(ctx, mc)
		if err != nil {
			return nil, err
		}
		opts = append(opts,
			sdktrace.WithBatcher(exporter),
			sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(mc.SamplingRate))),
		)
		logger.Info("Tracing initialized",
			zap.String("otlp_endpoint", mc.OTLPEndpoint),
			zap.Float64("sampling_rate", mc.SamplingRate),
		)
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return tp, nil
}

func newOTLPExporter(ctx context.Context, mc config.MonitoringConfig) (*otlptrace.Exporter, error) {
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(mc.OTLPEndpoint)}
	if mc.OTLPInsecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}
	return exporter, nil
}

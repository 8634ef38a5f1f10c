package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alchemorsel/foodgram/internal/infrastructure/config"
	"github.com/alchemorsel/foodgram/pkg/healthcheck"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// OpsServer serves liveness, readiness and Prometheus metrics on the
// metrics port, apart from API traffic.
type OpsServer struct {
	logger *zap.Logger
	router *chi.Mux
	server *http.Server
}

// NewOpsServer creates the operations server
func NewOpsServer(cfg *config.Config, logger *zap.Logger, health *healthcheck.HealthCheck, gatherer prometheus.Gatherer) *OpsServer {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(10 * time.Second))

	r.Get(cfg.Monitoring.HealthCheckPath, health.LivenessHandler())
	r.Get(cfg.Monitoring.ReadinessPath, health.ReadinessHandler())
	if cfg.Monitoring.EnableMetrics {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{EnableOpenMetrics: true}))
	}

	return &OpsServer{
		logger: logger.Named("ops-server"),
		router: r,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Monitoring.MetricsPort),
			Handler:           otelhttp.NewHandler(r, "ops"),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Handler exposes the router for in-process tests
func (s *OpsServer) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown; a clean shutdown returns nil
func (s *OpsServer) Start() error {
	s.logger.Info("Starting operations server", zap.String("address", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the operations server
func (s *OpsServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Package server provides the API and operations HTTP servers
package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"github.com/alchemorsel/foodgram/internal/infrastructure/config"
	"github.com/alchemorsel/foodgram/internal/infrastructure/http/handlers"
	"github.com/alchemorsel/foodgram/internal/infrastructure/http/middleware"
	"github.com/alchemorsel/foodgram/internal/infrastructure/monitoring"
	"github.com/alchemorsel/foodgram/pkg/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
)

// Handlers groups the API handlers mounted under /api
type Handlers struct {
	Recipes *handlers.RecipeHandlers
	Users   *handlers.UserHandlers
	Catalog *handlers.CatalogHandlers
}

// Media describes locally stored images served by the API server. A zero
// value disables media serving.
type Media struct {
	Root    string
	BaseURL string
}

// Server represents the API HTTP server
type Server struct {
	config *config.Config
	logger *zap.Logger
	engine *gin.Engine
	server *http.Server
}

// NewServer creates the API server and its route table
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	mw *middleware.Middleware,
	metrics *monitoring.MetricsCollector,
	tokens middleware.TokenVerifier,
	h Handlers,
	media Media,
) (*Server, error) {
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		return nil, fmt.Errorf("set trusted proxies: %w", err)
	}

	// Compression wraps the writer before Recovery and ErrorHandler so their
	// bodies are encoded too.
	engine.Use(mw.RequestID(), mw.Logger(), mw.Security())
	if cfg.Server.EnableCORS {
		engine.Use(mw.CORS())
	}
	if cfg.Server.EnableCompression {
		engine.Use(mw.Compression())
	}
	engine.Use(mw.Recovery(), mw.ErrorHandler())
	if cfg.RateLimit.Enable {
		engine.Use(mw.RateLimit())
	}
	engine.Use(mw.Tracing())
	if metrics != nil {
		engine.Use(metrics.HTTPMiddleware())
	}
	engine.Use(mw.BodyLimit(), mw.OptionalAuth(tokens))

	handlers.Register(engine.Group("/api"), mw.RequireAuth(), h.Recipes, h.Users, h.Catalog)

	if media.Root != "" {
		prefix, err := mediaPrefix(media.BaseURL)
		if err != nil {
			return nil, err
		}
		engine.Static(prefix, media.Root)
	}

	engine.NoRoute(func(c *gin.Context) {
		_ = c.Error(errors.NewNotFoundError("route not found").WithMetadata("path", c.Request.URL.Path))
	})

	s := &Server{
		config: cfg,
		logger: logger.Named("api-server"),
		engine: engine,
		server: &http.Server{
			Addr:              net.JoinHostPort(cfg.Server.Host, fmt.Sprint(cfg.Server.Port)),
			Handler:           engine,
			ReadTimeout:       cfg.Server.ReadTimeout,
			ReadHeaderTimeout: cfg.Server.ReadTimeout,
			WriteTimeout:      cfg.Server.WriteTimeout,
			IdleTimeout:       cfg.Server.IdleTimeout,
			MaxHeaderBytes:    cfg.Server.MaxHeaderBytes,
		},
	}

	if err := http2.ConfigureServer(s.server, &http2.Server{IdleTimeout: cfg.Server.IdleTimeout}); err != nil {
		return nil, fmt.Errorf("configure http2: %w", err)
	}

	return s, nil
}

// Handler exposes the router for in-process tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.server.Addr
}

// Start serves until Shutdown; a clean shutdown returns nil
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server",
		zap.String("address", s.server.Addr),
		zap.String("environment", s.config.App.Environment),
	)
	if err := s.server.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Serve accepts connections on ln until Shutdown
func (s *Server) Serve(ln net.Listener) error {
	if err := s.server.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// mediaPrefix returns the URL path images are served under. BaseURL may be
// a bare path or an absolute URL.
func mediaPrefix(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse storage base url: %w", err)
	}
	if u.Path == "" || u.Path == "/" {
		return "", fmt.Errorf("storage base url %q has no path to serve media under", baseURL)
	}
	return u.Path, nil
}

// Package container provides dependency injection using Uber FX
// This implements the Dependency Inversion Principle from SOLID
package container

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	catalogapp "github.com/alchemorsel/foodgram/internal/application/catalog"
	"github.com/alchemorsel/foodgram/internal/application/eventing"
	"github.com/alchemorsel/foodgram/internal/application/projection"
	recipeapp "github.com/alchemorsel/foodgram/internal/application/recipe"
	relationapp "github.com/alchemorsel/foodgram/internal/application/relation"
	userapp "github.com/alchemorsel/foodgram/internal/application/user"
	"github.com/alchemorsel/foodgram/internal/infrastructure/config"
	"github.com/alchemorsel/foodgram/internal/infrastructure/events"
	"github.com/alchemorsel/foodgram/internal/infrastructure/http/handlers"
	"github.com/alchemorsel/foodgram/internal/infrastructure/http/middleware"
	"github.com/alchemorsel/foodgram/internal/infrastructure/http/server"
	"github.com/alchemorsel/foodgram/internal/infrastructure/monitoring"
	gormrepo "github.com/alchemorsel/foodgram/internal/infrastructure/persistence/gorm"
	"github.com/alchemorsel/foodgram/internal/infrastructure/persistence/memory"
	"github.com/alchemorsel/foodgram/internal/infrastructure/persistence/migrations"
	"github.com/alchemorsel/foodgram/internal/infrastructure/persistence/postgres"
	redisrepo "github.com/alchemorsel/foodgram/internal/infrastructure/persistence/redis"
	"github.com/alchemorsel/foodgram/internal/infrastructure/persistence/sqlite"
	"github.com/alchemorsel/foodgram/internal/infrastructure/security"
	"github.com/alchemorsel/foodgram/internal/infrastructure/storage"
	"github.com/alchemorsel/foodgram/internal/ports/inbound"
	"github.com/alchemorsel/foodgram/internal/ports/outbound"
	"github.com/alchemorsel/foodgram/pkg/healthcheck"
	"github.com/alchemorsel/foodgram/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Module assembles the full API application. configPath may be empty to
// rely on the default search path and environment.
func Module(configPath string) fx.Option {
	return fx.Options(
		CoreModule(configPath),
		MonitoringModule,
		CacheModule,
		EventModule,
		StorageModule,
		RepositoryModule,
		ServiceModule,
		HTTPModule,
		LifecycleModule,
	)
}

// CoreModule provides configuration, logging and the database. The CLI uses
// it alone for maintenance commands.
func CoreModule(configPath string) fx.Option {
	return fx.Options(
		fx.Provide(func() (*config.Config, error) {
			return config.Load(configPath)
		}),
		LoggerModule,
		DatabaseModule,
	)
}

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, zap.AtomicLevel, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// DatabaseModule provides the GORM handle for the configured driver
var DatabaseModule = fx.Provide(
	NewDatabase,
	func(db *gorm.DB) (*sql.DB, error) {
		return db.DB()
	},
)

// DatabaseParams are the inputs of NewDatabase. Registerer is optional so
// maintenance commands can open the database without monitoring.
type DatabaseParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Config     *config.Config
	Logger     *zap.Logger
	Registerer prometheus.Registerer `optional:"true"`
}

// NewDatabase opens SQLite or Postgres. Postgres schema changes run through
// the embedded migrations when database.auto_migrate is set; SQLite is
// migrated from the models on open.
func NewDatabase(p DatabaseParams) (*gorm.DB, error) {
	cfg, log := p.Config, p.Logger

	switch cfg.Database.Driver {
	case "postgres":
		if cfg.Database.AutoMigrate {
			if err := MigrateUp(cfg, log); err != nil {
				return nil, err
			}
		}

		cm, err := postgres.NewConnectionManager(context.Background(), cfg, log)
		if err != nil {
			return nil, err
		}
		if p.Registerer != nil {
			if err := cm.RegisterMetrics(p.Registerer); err != nil {
				log.Warn("Failed to register database metrics", zap.Error(err))
			}
		}
		p.Lifecycle.Append(fx.StopHook(cm.Close))
		return cm.DB(), nil

	default:
		db, err := sqlite.SetupDatabase(cfg.Database.Database,
			gormrepo.NewLogger(log, cfg.Database.LogLevel, cfg.Database.SlowQueryThreshold))
		if err != nil {
			return nil, fmt.Errorf("failed to setup SQLite database: %w", err)
		}
		log.Info("Connected to SQLite database", zap.String("path", cfg.Database.Database))

		p.Lifecycle.Append(fx.StopHook(func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}))
		return db, nil
	}
}

// MigrateUp applies pending Postgres migrations on a dedicated connection
func MigrateUp(cfg *config.Config, log *zap.Logger) error {
	m, err := migrations.Open(cfg.GetDSN(), cfg.Database.Database, log)
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Up()
}

// MonitoringModule provides the Prometheus registry, HTTP metrics, OTel
// providers, business metrics and health checks
var MonitoringModule = fx.Options(
	fx.Provide(
		monitoring.NewRegistry,
		func(reg *prometheus.Registry) prometheus.Registerer { return reg },
		func(reg *prometheus.Registry) prometheus.Gatherer { return reg },
		monitoring.NewMetricsCollector,
		func(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*sdktrace.TracerProvider, error) {
			tp, err := monitoring.NewTracerProvider(context.Background(), cfg, log)
			if err != nil {
				return nil, err
			}
			lc.Append(fx.StopHook(tp.Shutdown))
			return tp, nil
		},
		func(lc fx.Lifecycle, reg prometheus.Registerer) (*sdkmetric.MeterProvider, error) {
			mp, err := monitoring.NewMeterProvider(reg)
			if err != nil {
				return nil, err
			}
			lc.Append(fx.StopHook(mp.Shutdown))
			return mp, nil
		},
		func(mp *sdkmetric.MeterProvider, log *zap.Logger) (*monitoring.BusinessMetrics, error) {
			return monitoring.NewBusinessMetrics(mp, log)
		},
		NewHealthCheck,
	),
)

// NewHealthCheck registers readiness checks for the database and, when
// enabled, Redis
func NewHealthCheck(cfg *config.Config, log *zap.Logger, db *sql.DB, rdb *redis.Client, reg prometheus.Registerer) *healthcheck.HealthCheck {
	hc := healthcheck.New(cfg.App.Version, log)
	hc.SetMetrics(healthcheck.NewMetrics(reg))
	hc.Register("database", healthcheck.NewDatabaseChecker(db))
	if rdb != nil {
		hc.Register("redis", healthcheck.NewRedisChecker(rdb))
	}
	return hc
}

// CacheModule provides the Redis client (nil when disabled) and the cache
var CacheModule = fx.Provide(
	func(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*redis.Client, error) {
		if !cfg.Redis.Enabled {
			return nil, nil
		}
		rdb, err := redisrepo.NewClient(context.Background(), cfg, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.StopHook(rdb.Close))
		return rdb, nil
	},
	func(lc fx.Lifecycle, rdb *redis.Client, cfg *config.Config, log *zap.Logger) outbound.CacheRepository {
		if rdb != nil {
			return redisrepo.NewCacheRepository(rdb, "foodgram:cache", log)
		}
		log.Info("Redis disabled, using in-memory cache")
		cache := memory.NewCacheRepository()
		lc.Append(fx.StopHook(cache.Close))
		return cache
	},
)

// EventModule provides the message bus and the domain event publisher
var EventModule = fx.Provide(
	func(lc fx.Lifecycle, rdb *redis.Client, cfg *config.Config, log *zap.Logger) outbound.MessageBus {
		var bus outbound.MessageBus
		if rdb != nil {
			bus = events.NewRedisBus(rdb, cfg.Redis.ChannelPrefix, log)
		} else {
			bus = events.NewMemoryBus(log)
		}
		lc.Append(fx.StopHook(bus.Close))
		return bus
	},
	eventing.NewPublisher,
)

// StorageModule provides image storage and, for the local provider, the
// directory the API server exposes
var StorageModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (outbound.StorageService, error) {
		return storage.New(cfg, log)
	},
	func(svc outbound.StorageService) server.Media {
		if local, ok := svc.(*storage.LocalStorage); ok {
			return server.Media{Root: local.Root(), BaseURL: local.BaseURL()}
		}
		return server.Media{}
	},
)

// RepositoryModule provides repository implementations
var RepositoryModule = fx.Provide(
	fx.Annotate(gormrepo.NewCatalogRepository, fx.As(new(outbound.CatalogRepository))),
	fx.Annotate(gormrepo.NewRecipeRepository, fx.As(new(outbound.RecipeRepository))),
	fx.Annotate(gormrepo.NewRelationRepository, fx.As(new(outbound.RelationRepository))),
	fx.Annotate(gormrepo.NewUserRepository, fx.As(new(outbound.UserRepository))),
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	func(repo outbound.CatalogRepository, cache outbound.CacheRepository, cfg *config.Config, log *zap.Logger) *catalogapp.Service {
		return catalogapp.NewService(repo, cache, cfg.Recipe.CacheTTL, log)
	},
	func(s *catalogapp.Service) inbound.CatalogService { return s },

	func(cfg *config.Config) *config.LiveBounds { return config.NewLiveBounds(cfg.Recipe) },
	func(s *catalogapp.Service, bounds *config.LiveBounds) *recipeapp.Validator {
		return recipeapp.NewValidator(s, bounds)
	},
	projection.NewProjector,

	func(
		recipes outbound.RecipeRepository,
		users outbound.UserRepository,
		validator *recipeapp.Validator,
		store outbound.StorageService,
		projector *projection.Projector,
		cache outbound.CacheRepository,
		publisher *eventing.Publisher,
		cfg *config.Config,
		log *zap.Logger,
	) inbound.RecipeService {
		return recipeapp.NewRecipeService(recipes, users, validator, store, projector, cache, cfg.Recipe.CacheTTL, publisher, log)
	},
	fx.Annotate(relationapp.NewService, fx.As(new(inbound.RelationService))),

	func(users outbound.UserRepository, projector *projection.Projector, cfg *config.Config, log *zap.Logger) *userapp.UserService {
		return userapp.NewUserService(users, projector, cfg.Auth.BCryptCost, log)
	},
	func(cfg *config.Config) *security.TokenService { return security.NewTokenService(cfg.Auth) },
)

// HTTPModule provides HTTP servers and handlers
var HTTPModule = fx.Provide(
	middleware.New,
	func(cfg *config.Config) handlers.ImageDecoder {
		return func(value string) (*inbound.ImageUpload, error) {
			return storage.DecodeDataURI(value, cfg.Storage.MaxFileSize, cfg.Storage.AllowedTypes)
		}
	},
	func(
		recipes inbound.RecipeService,
		relations inbound.RelationService,
		catalog inbound.CatalogService,
		users *userapp.UserService,
		tokens *security.TokenService,
		decode handlers.ImageDecoder,
		log *zap.Logger,
	) server.Handlers {
		return server.Handlers{
			Recipes: handlers.NewRecipeHandlers(recipes, relations, decode, log),
			Users:   handlers.NewUserHandlers(users, relations, tokens, log),
			Catalog: handlers.NewCatalogHandlers(catalog),
		}
	},
	func(
		cfg *config.Config,
		log *zap.Logger,
		mw *middleware.Middleware,
		metrics *monitoring.MetricsCollector,
		tokens *security.TokenService,
		h server.Handlers,
		media server.Media,
	) (*server.Server, error) {
		return server.NewServer(cfg, log, mw, metrics, tokens, h, media)
	},
	server.NewOpsServer,
)

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// LifecycleParams are the components started and stopped with the app
type LifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Config     *config.Config
	Logger     *zap.Logger
	Level      zap.AtomicLevel
	Bounds     *config.LiveBounds
	Bus        outbound.MessageBus
	Metrics    *monitoring.BusinessMetrics
	Server     *server.Server
	Ops        *server.OpsServer
	Tracer     *sdktrace.TracerProvider
}

// RegisterLifecycleHooks registers application lifecycle hooks
func RegisterLifecycleHooks(p LifecycleParams) {
	log := p.Logger

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting Foodgram",
				zap.String("version", p.Config.App.Version),
				zap.String("environment", p.Config.App.Environment),
				zap.String("database", p.Config.Database.Driver),
			)

			// Subscriptions outlive the start context; the bus ends them on Close.
			if err := p.Metrics.Subscribe(context.Background(), p.Bus, events.AllTopics); err != nil {
				return fmt.Errorf("subscribe business metrics: %w", err)
			}

			if config.Watch(p.Config, log, p.Level, p.Bounds) {
				log.Info("Watching configuration file for changes")
			}

			serve := func(name string, start func() error) {
				go func() {
					if err := start(); err != nil {
						log.Error("Server stopped", zap.String("server", name), zap.Error(err))
						_ = p.Shutdowner.Shutdown(fx.ExitCode(1))
					}
				}()
			}
			serve("api", p.Server.Start)
			serve("ops", p.Ops.Start)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down Foodgram")

			shutdownCtx, cancel := context.WithTimeout(ctx, p.Config.Server.ShutdownTimeout)
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}
			if err := p.Ops.Shutdown(shutdownCtx); err != nil {
				log.Error("Failed to shutdown operations server", zap.Error(err))
			}

			_ = log.Sync()
			return nil
		},
	})
}

// StartTimeout bounds fx startup, which includes migrations
const StartTimeout = 2 * time.Minute

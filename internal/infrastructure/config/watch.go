package config

import (
	"sync/atomic"

	"github.com/alchemorsel/foodgram/internal/domain/recipe"
	"github.com/alchemorsel/foodgram/pkg/logger"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// LiveBounds holds the recipe bounds currently in force. It is safe for
// concurrent use and is updated in place on config reload.
type LiveBounds struct {
	current atomic.Pointer[recipe.Bounds]
}

// NewLiveBounds creates a holder initialised from rc.
func NewLiveBounds(rc RecipeConfig) *LiveBounds {
	b := &LiveBounds{}
	b.Set(rc)
	return b
}

// Bounds returns the bounds in force.
func (b *LiveBounds) Bounds() recipe.Bounds {
	return *b.current.Load()
}

// Set replaces the bounds.
func (b *LiveBounds) Set(rc RecipeConfig) {
	b.current.Store(&recipe.Bounds{Min: rc.MinValue, Max: rc.MaxValue})
}

// Watch reloads the config file when it changes and applies the settings that
// can change at runtime: recipe bounds and the log level. A reload that fails
// validation is logged and ignored. Watch returns false when no config file
// was loaded.
func Watch(cfg *Config, log *zap.Logger, level zap.AtomicLevel, bounds *LiveBounds) bool {
	if cfg.v == nil || cfg.v.ConfigFileUsed() == "" {
		return false
	}
	log = log.Named("config")

	cfg.v.OnConfigChange(func(e fsnotify.Event) {
		next, err := decode(cfg.v)
		if err != nil {
			log.Warn("Ignoring invalid config reload", zap.String("file", e.Name), zap.Error(err))
			return
		}

		bounds.Set(next.Recipe)
		level.SetLevel(logger.ParseLevel(next.App.LogLevel))

		log.Info("Config reloaded",
			zap.String("file", e.Name),
			zap.String("op", e.Op.String()),
			zap.Int("recipe_min_value", next.Recipe.MinValue),
			zap.Int("recipe_max_value", next.Recipe.MaxValue),
			zap.String("log_level", next.App.LogLevel),
		)
	})
	cfg.v.WatchConfig()

	log.Info("Watching config file", zap.String("file", cfg.v.ConfigFileUsed()))
	return true
}

package main

import (
	"context"

	"github.com/alchemorsel/foodgram/internal/infrastructure/config"
	"github.com/alchemorsel/foodgram/internal/infrastructure/container"
	gormrepo "github.com/alchemorsel/foodgram/internal/infrastructure/persistence/gorm"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert demo tags, ingredients and users into an empty database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithDatabase(cmd.Context(), *configPath, func(ctx context.Context, db *gorm.DB, cfg *config.Config, log *zap.Logger) error {
				if err := gormrepo.SeedDatabase(ctx, db, cfg.Auth.BCryptCost); err != nil {
					return err
				}
				log.Info("Database seeded", zap.String("demo_password", gormrepo.DemoPassword))
				return nil
			})
		},
	}
}

// runWithDatabase opens the configured database, runs fn and closes it again
func runWithDatabase(ctx context.Context, configPath string, fn func(context.Context, *gorm.DB, *config.Config, *zap.Logger) error) error {
	var (
		db  *gorm.DB
		cfg *config.Config
		log *zap.Logger
	)
	app := fx.New(
		fx.NopLogger,
		container.CoreModule(configPath),
		fx.Populate(&db, &cfg, &log),
	)
	if err := app.Err(); err != nil {
		return err
	}
	if err := app.Start(ctx); err != nil {
		return err
	}
	runErr := fn(ctx, db, cfg, log)
	if err := app.Stop(context.Background()); err != nil && runErr == nil {
		return err
	}
	return runErr
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alchemorsel/foodgram/internal/infrastructure/container"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the API and operations servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fx.New(
				fx.NopLogger, // Use our own logger instead of Fx's
				fx.StartTimeout(container.StartTimeout),
				container.Module(*configPath),
			)

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if err := app.Start(ctx); err != nil {
				return fmt.Errorf("failed to start application: %w", err)
			}

			// Wait for a signal or a server failure
			select {
			case <-ctx.Done():
			case <-app.Wait():
			}

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer shutdownCancel()

			if err := app.Stop(shutdownCtx); err != nil {
				return fmt.Errorf("failed to stop application gracefully: %w", err)
			}
			return nil
		},
	}
}

package main

import (
	"context"
	"fmt"

	"github.com/alchemorsel/foodgram/internal/infrastructure/config"
	gormrepo "github.com/alchemorsel/foodgram/internal/infrastructure/persistence/gorm"
	"github.com/alchemorsel/foodgram/internal/infrastructure/security"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTokenCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "token <user-id>",
		Short: "Issue an access token for an existing user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid user id: %w", err)
			}

			return runWithDatabase(cmd.Context(), *configPath, func(ctx context.Context, db *gorm.DB, cfg *config.Config, log *zap.Logger) error {
				u, err := gormrepo.NewUserRepository(db).FindByID(ctx, userID)
				if err != nil {
					return err
				}

				token, expiresAt, err := security.NewTokenService(cfg.Auth).Issue(u.ID(), u.Email())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), token)
				log.Info("Token issued", zap.String("user_id", u.ID().String()), zap.Time("expires_at", expiresAt))
				return nil
			})
		},
	}
}

package db

import (
	"context"
	"errors"
	"log/slog"

	"taxease/internal/domain/auth"
	"taxease/internal/platform/config"
)

// Seed registers the configured demo user unless it already exists.
func Seed(ctx context.Context, users *auth.Service, cfg config.Config) error {
	if cfg.SeedUserEmail == "" {
		return nil
	}
	user, err := users.Register(ctx, auth.RegisterInput{
		Name:     cfg.SeedUserName,
		Email:    cfg.SeedUserEmail,
		Password: cfg.SeedUserPassword,
	})
	if errors.Is(err, auth.ErrUserExists) {
		return nil
	}
	if err != nil {
		return err
	}
	slog.Info("seed user created", "user_id", user.ID)
	return nil
}

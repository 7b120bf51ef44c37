package cli

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"taxease/internal/domain/calculations"
	"taxease/internal/platform/config"
	"taxease/internal/platform/db"
	"taxease/internal/platform/jobs"
)

const defaultRetention = 365 * 24 * time.Hour

func openStores(ctx context.Context) (*db.Stores, error) {
	cfg := config.Load()
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	cfg.RunMigrations = true
	return db.Open(ctx, cfg)
}

func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations to DATABASE_URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stores, err := openStores(cmd.Context())
			if err != nil {
				return err
			}
			defer stores.Close()

			out := formatter{format: rootOpts.Format, w: cmd.OutOrStdout()}
			return out.emit(map[string]string{"backend": stores.Backend}, func(io.Writer) error {
				out.line("migrations applied (%s)", stores.Backend)
				return nil
			})
		},
	}
}

func NewPruneCommand(rootOpts *RootOptions) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete calculations older than the retention window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan <= 0 {
				return errors.New("--older-than must be positive")
			}
			stores, err := openStores(cmd.Context())
			if err != nil {
				return err
			}
			defer stores.Close()

			service := calculations.NewService(stores.Calculations, stores.Users, nil)
			deleted, err := jobs.New(service, olderThan, "").RunNow(cmd.Context())
			if err != nil {
				return err
			}

			out := formatter{format: rootOpts.Format, w: cmd.OutOrStdout()}
			return out.emit(map[string]int64{"deleted": deleted}, func(io.Writer) error {
				out.line("deleted %d calculation(s) older than %s", deleted, olderThan)
				return nil
			})
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", defaultRetention, "retention window")
	return cmd
}

package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxease/internal/domain/auth"
	"taxease/internal/platform/config"
)

func TestOpenSQLiteAndSeed(t *testing.T) {
	ctx := context.Background()
	cfg := config.Config{
		DatabaseURL:      "sqlite:" + filepath.Join(t.TempDir(), "taxease.db"),
		SeedUserName:     "Demo User",
		SeedUserEmail:    "demo@example.com",
		SeedUserPassword: "demo123",
	}

	stores, err := Open(ctx, cfg)
	require.NoError(t, err)
	defer stores.Close()
	assert.Equal(t, config.BackendSQLite, stores.Backend)
	require.NoError(t, stores.Ping(ctx))

	users := auth.NewService(stores.Users, "secret", time.Hour)
	require.NoError(t, Seed(ctx, users, cfg))
	require.NoError(t, Seed(ctx, users, cfg))

	_, user, err := users.Login(ctx, "demo@example.com", "demo123")
	require.NoError(t, err)
	assert.Equal(t, "Demo User", user.Name)
}

func TestSeedSkipsWithoutEmail(t *testing.T) {
	assert.NoError(t, Seed(context.Background(), nil, config.Config{}))
}

func TestOpenPostgres(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	stores, err := Open(ctx, config.Config{
		DatabaseURL:   url,
		RunMigrations: true,
		MigrationsDir: filepath.Join("..", "..", "..", "migrations"),
	})
	require.NoError(t, err)
	defer stores.Close()
	assert.Equal(t, config.BackendPostgres, stores.Backend)
	assert.NoError(t, stores.Ping(ctx))
}

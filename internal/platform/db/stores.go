package db

import (
	"context"
	"fmt"

	"taxease/internal/domain/auth"
	"taxease/internal/domain/calculations"
	"taxease/internal/platform/config"
	"taxease/internal/platform/sqlitestore"
)

// Stores is the persistence selected by DATABASE_URL.
type Stores struct {
	Backend      string
	Users        auth.UserStore
	Calculations calculations.Store
	ping         func(context.Context) error
	close        func()
}

func (s *Stores) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

func (s *Stores) Close() {
	if s.close != nil {
		s.close()
	}
}

// Open connects to the configured backend. Postgres migrations run when
// RUN_MIGRATIONS is set; the SQLite schema is always brought up to date.
func Open(ctx context.Context, cfg config.Config) (*Stores, error) {
	switch cfg.Backend() {
	case config.BackendSQLite:
		store, err := sqlitestore.Open(ctx, cfg.SQLitePath())
		if err != nil {
			return nil, err
		}
		return &Stores{
			Backend:      config.BackendSQLite,
			Users:        store,
			Calculations: store,
			ping:         store.Ping,
			close:        func() { _ = store.Close() },
		}, nil
	default:
		pool, err := Connect(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}
		if cfg.RunMigrations {
			if err := Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
				pool.Close()
				return nil, fmt.Errorf("migrations: %w", err)
			}
		}
		return &Stores{
			Backend:      config.BackendPostgres,
			Users:        auth.NewStore(pool),
			Calculations: calculations.NewStore(pool),
			ping:         pool.Ping,
			close:        pool.Close,
		}, nil
	}
}

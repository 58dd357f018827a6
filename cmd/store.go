package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/atelierhq/trend-cli/internal/catalog"
	"github.com/atelierhq/trend-cli/internal/config"
)

// openStore builds the configured catalog store and runs migrations.
// The sqlite driver is the zero-config default; postgres needs a
// database_url.
func openStore(ctx context.Context, cfg *config.Config) (catalog.Store, error) {
	var (
		store catalog.Store
		err   error
	)

	switch cfg.Store.Driver {
	case "", "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "trend.db"
		}
		store, err = catalog.NewSQLite(dsn)
		if err != nil {
			return nil, err
		}
	case "postgres":
		if cfg.Store.DatabaseURL == "" {
			return nil, eris.New("store: postgres driver needs store.database_url")
		}
		store, err = catalog.NewPostgres(ctx, cfg.Store.DatabaseURL, &cfg.Store.Pool)
		if err != nil {
			return nil, err
		}
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Store.Driver)
	}

	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, err
	}

	zap.L().Debug("store ready", zap.String("driver", cfg.Store.Driver))
	return store, nil
}

// Package store opens the configured database and returns the matching
// repository implementation.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"messenger/internal/config"
	"messenger/internal/domain"
	"messenger/internal/store/postgres"
	"messenger/internal/store/sqlite"
)

// Open connects to the database named by cfg, runs the migrations and returns
// the store with its handle. The caller owns the handle and must close it.
func Open(ctx context.Context, cfg *config.Config) (domain.Store, *sql.DB, error) {
	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return postgres.NewStore(db), db, nil
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := sqlite.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return sqlite.NewStore(db), db, nil
	}
	return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
}

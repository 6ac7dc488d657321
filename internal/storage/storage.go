// Package storage opens the kv.Store selected by configuration.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/stash/internal/config"
	"github.com/MrJamesThe3rd/stash/internal/database"
	"github.com/MrJamesThe3rd/stash/internal/kv"
	"github.com/MrJamesThe3rd/stash/internal/kv/redisstore"
	"github.com/MrJamesThe3rd/stash/internal/kv/sqlstore"
)

// Open connects to the configured backend, applying migrations for SQL drivers.
// The returned close func releases the connection.
func Open(ctx context.Context, cfg *config.Config) (kv.Store, func() error, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		slog.WarnContext(ctx, "using in-memory storage; data is lost on exit")
		return kv.NewMemory(), func() error { return nil }, nil

	case config.DriverSQLite:
		db, err := database.OpenSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}

		return migrated(ctx, db, database.SQLite)

	case config.DriverPostgres:
		db, err := database.New(cfg.ConnectionString())
		if err != nil {
			return nil, nil, err
		}

		return migrated(ctx, db, database.Postgres)

	case config.DriverRedis:
		client, err := redisstore.NewClient(ctx, cfg.Redis.URL, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, err
		}

		return redisstore.New(client, cfg.Redis.Prefix), client.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func migrated(ctx context.Context, db *sql.DB, dialect database.Dialect) (kv.Store, func() error, error) {
	if err := database.Migrate(ctx, db, dialect); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	slog.InfoContext(ctx, "storage ready", "driver", dialect)

	return sqlstore.New(db, dialect), db.Close, nil
}

package database

import (
	"context"

	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

// Open connects with bounded retries and applies pending migrations through
// a database/sql view of the same pool. The server and the batch commands
// share it so none of them runs against an outdated schema.
func Open(ctx context.Context, cfg *Config, attempts int, logger *zap.Logger) (*DB, error) {
	db, err := ConnectWithRetry(ctx, cfg, attempts, logger)
	if err != nil {
		return nil, err
	}

	sqlDB := stdlib.OpenDBFromPool(db.Pool)
	defer sqlDB.Close()

	if err := RunMigrations(sqlDB, logger); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

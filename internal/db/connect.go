package db

import (
	"context"
	"fmt"

	"realtime_kanban/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect creates a pool and checks it with a ping. The pool is closed on failure.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create database pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Debug("database connected", "host", pool.Config().ConnConfig.Host)
	return pool, nil
}

package store

import (
	"context"
	"log/slog"

	"realtime_kanban/internal/config"
)

// Open builds the configured backend. A backend that cannot be reached is
// logged and replaced by Unavailable so the server keeps answering requests;
// nothing retries the connection.
func Open(ctx context.Context, cfg *config.Config, log *slog.Logger) TaskStore {
	log = log.With("store_driver", cfg.StoreDriver)

	switch cfg.StoreDriver {
	case config.DriverPostgres:
		s, err := OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("task store connection failed", "error", err)
			return Unavailable(err)
		}
		log.Info("task store connected")
		return s
	case config.DriverSQLite:
		s, err := OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			log.Error("task store connection failed", "error", err)
			return Unavailable(err)
		}
		log.Info("task store connected", "path", cfg.SQLitePath)
		return s
	case config.DriverMongo:
		s, err := OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
		if s == nil {
			log.Error("task store connection failed", "error", err)
			return Unavailable(err)
		}
		if err != nil {
			// the driver reconnects on its own once the server is reachable
			log.Error("task store connection failed", "error", err)
		} else {
			log.Info("task store connected")
		}
		return s
	default:
		log.Info("using in-memory task store")
		return NewMemoryStore()
	}
}

package persistence

import (
	"context"
	"fmt"
	"log/slog"

	"task-tracker-api/internal/config"
	"task-tracker-api/internal/models"
)

// Backend stores and reloads full store snapshots. Every Backend can be
// used as a manager.Saver.
type Backend interface {
	// Save replaces the stored snapshot with snap.
	Save(ctx context.Context, snap models.Snapshot) error

	// Load returns the last saved snapshot, or an empty one when nothing
	// has been saved yet.
	Load(ctx context.Context) (models.Snapshot, error)

	Close() error
}

// Open builds the backend selected by cfg.
func Open(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (Backend, error) {
	switch cfg.Backend {
	case config.BackendCSV:
		logger.Info("using csv snapshot", "path", cfg.Path)
		return NewCSVBackend(cfg.Path), nil
	case config.BackendSQLite:
		logger.Info("using sqlite snapshot", "path", cfg.Path)
		return NewSQLiteBackend(cfg.Path)
	case config.BackendPostgres:
		logger.Info("using postgres snapshot")
		return NewPostgresBackend(ctx, cfg.DSN)
	case config.BackendMemory:
		logger.Info("using in-memory snapshot; data is lost on exit")
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// Ensure every backend implements Backend at compile time.
var (
	_ Backend = (*CSVBackend)(nil)
	_ Backend = (*SQLiteBackend)(nil)
	_ Backend = (*PostgresBackend)(nil)
	_ Backend = (*MemoryBackend)(nil)
)

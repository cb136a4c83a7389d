package backend

import (
	"fmt"
	"log/slog"

	"fintrack/internal/storage"
	"fintrack/internal/storage/memory"
)

// Open builds the repository for the configured backend. The memory backend
// keeps everything in process and loses it on restart; sqlite persists and
// additionally carries the sync bookkeeping the export worker needs.
func Open(cfg Config) (storage.Repository, error) {
	switch cfg.Type {
	case SQLite:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite backend: %w", err)
		}
		slog.Info("Initialized sqlite backend", "path", cfg.SQLiteDBPath)
		return repo, nil
	case Memory:
		slog.Info("Initialized memory backend")
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("invalid backend type: %s", cfg.Type)
	}
}

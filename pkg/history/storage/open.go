package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"intlab/rpncalc/pkg/config"
	"intlab/rpncalc/pkg/history"
)

// Open creates the store selected by cfg.Driver. For the SQLite drivers the
// parent directory of cfg.Path is created if missing.
func Open(cfg *config.HistoryConfig) (history.Storage, error) {
	switch cfg.Driver {
	case "memory":
		return NewMemoryStorage(), nil
	case DriverModernc, DriverMattn, "":
		if dir := filepath.Dir(cfg.Path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, history.NewStorageError(backendSQLite, "mkdir", err)
			}
		}
		return NewSQLiteStorage(&SQLiteConfig{
			Driver:       cfg.Driver,
			Path:         cfg.Path,
			MaxOpenConns: cfg.MaxOpenConns,
			MaxIdleConns: cfg.MaxIdleConns,
			WALMode:      cfg.WALMode,
			BusyTimeout:  cfg.BusyTimeout,
		})
	default:
		return nil, fmt.Errorf("unknown history driver %q", cfg.Driver)
	}
}

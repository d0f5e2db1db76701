// Package storage provides history.Storage backends.
//
// SQLiteStorage works with either SQLite driver:
//
//   - "sqlite": modernc.org/sqlite, pure Go, the default
//   - "sqlite3": github.com/mattn/go-sqlite3, requires cgo
//
// MemoryStorage keeps records in a map and is meant for tests.
//
//	store, err := storage.Open(&cfg.History)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
package storage

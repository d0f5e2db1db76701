package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"intlab/rpncalc/pkg/history"
)

// database/sql driver names.
const (
	// DriverModernc is the pure Go driver registered by modernc.org/sqlite.
	DriverModernc = "sqlite"

	// DriverMattn is the cgo driver registered by github.com/mattn/go-sqlite3.
	DriverMattn = "sqlite3"
)

const backendSQLite = "sqlite"

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Driver is DriverModernc or DriverMattn.
	// Default: DriverModernc
	Driver string

	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Driver:       DriverModernc,
		Path:         "data/history.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStorage implements history.Storage using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStorage opens the database, applies pragmas and creates the
// schema if needed.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}
	if config.Driver == "" {
		config.Driver = DriverModernc
	}

	logger := slog.Default().With("component", "history.storage.sqlite")

	dsn, err := buildDSN(config)
	if err != nil {
		return nil, history.NewStorageError(backendSQLite, "open", err)
	}

	db, err := sql.Open(config.Driver, dsn)
	if err != nil {
		return nil, history.NewStorageError(backendSQLite, "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStorage{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite storage initialized",
		"driver", config.Driver,
		"path", config.Path,
		"wal_mode", config.WALMode,
		"max_open_conns", config.MaxOpenConns,
	)

	return s, nil
}

// buildDSN carries the busy timeout in the connection string so every
// pooled connection gets it. The two drivers spell it differently.
func buildDSN(config *SQLiteConfig) (string, error) {
	ms := config.BusyTimeout.Milliseconds()
	switch config.Driver {
	case DriverModernc:
		q := url.Values{}
		q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", ms))
		return "file:" + config.Path + "?" + q.Encode(), nil
	case DriverMattn:
		return fmt.Sprintf("%s?_busy_timeout=%d", config.Path, ms), nil
	default:
		return "", fmt.Errorf("unknown sqlite driver %q", config.Driver)
	}
}

// initialize enables WAL mode and sets up the schema.
func (s *SQLiteStorage) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return history.NewStorageError(backendSQLite, "enable_wal", err)
		}
		s.logger.Debug("WAL mode enabled")
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return history.NewStorageError(backendSQLite, "create_schema", err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return history.NewStorageError(backendSQLite, "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return history.NewStorageError(backendSQLite, "get_schema_version", err)
	}

	if version != SchemaVersion {
		return history.NewStorageError(backendSQLite, "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	s.logger.Debug("schema version verified", "version", version)
	return nil
}

// Store persists a record.
func (s *SQLiteStorage) Store(ctx context.Context, record *history.Record) error {
	var result any
	if record.Result != nil {
		result = *record.Result
	}

	_, err := s.db.ExecContext(ctx, insertRecord,
		record.ID, record.Expression, record.Normalized, nullString(record.Postfix), result,
		string(record.Status), nullString(record.ErrorKind), nullString(record.ErrorMessage),
		record.Source, int64(record.Duration), record.CreatedAt.UnixNano(),
	)
	if err != nil {
		return history.NewStorageError(backendSQLite, "store", err)
	}
	return nil
}

// Query retrieves records matching the query filters.
func (s *SQLiteStorage) Query(ctx context.Context, query *history.Query) ([]*history.Record, error) {
	if query == nil {
		query = &history.Query{}
	}

	where, args := buildWhereClause(query)

	sqlQuery := "SELECT " + selectColumns + " FROM history" + where + orderBy(query)

	limit := history.DefaultQueryLimit
	if query.Limit > 0 {
		limit = query.Limit
	}
	sqlQuery += fmt.Sprintf(" LIMIT %d", limit)
	if query.Offset > 0 {
		sqlQuery += fmt.Sprintf(" OFFSET %d", query.Offset)
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, history.NewStorageError(backendSQLite, "query", err)
	}
	defer rows.Close()

	records := []*history.Record{}
	for rows.Next() {
		record, err := scanRow(rows)
		if err != nil {
			return nil, history.NewStorageError(backendSQLite, "scan", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, history.NewStorageError(backendSQLite, "query", err)
	}

	return records, nil
}

// Count returns the number of records matching the query filters.
func (s *SQLiteStorage) Count(ctx context.Context, query *history.Query) (int64, error) {
	where, args := buildWhereClause(query)

	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM history"+where, args...).Scan(&count)
	if err != nil {
		return 0, history.NewStorageError(backendSQLite, "count", err)
	}
	return count, nil
}

// Delete removes records matching the query filters. With a Limit only the
// first Limit matches in sort order are removed.
func (s *SQLiteStorage) Delete(ctx context.Context, query *history.Query) (int64, error) {
	where, args := buildWhereClause(query)

	sqlQuery := "DELETE FROM history" + where
	if query != nil && query.Limit > 0 {
		sqlQuery = fmt.Sprintf("DELETE FROM history WHERE id IN (SELECT id FROM history%s%s LIMIT %d)",
			where, orderBy(query), query.Limit)
	}

	result, err := s.db.ExecContext(ctx, sqlQuery, args...)
	if err != nil {
		return 0, history.NewStorageError(backendSQLite, "delete", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, history.NewStorageError(backendSQLite, "delete", err)
	}
	return count, nil
}

// Ping verifies the database connection.
func (s *SQLiteStorage) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return history.NewStorageError(backendSQLite, "ping", err)
	}
	return nil
}

// Close releases the database connection.
func (s *SQLiteStorage) Close() error {
	if err := s.db.Close(); err != nil {
		return history.NewStorageError(backendSQLite, "close", err)
	}

	s.logger.Info("SQLite storage closed")
	return nil
}

// buildWhereClause returns " WHERE ..." (or "") and its arguments.
func buildWhereClause(query *history.Query) (string, []any) {
	if query == nil {
		return "", nil
	}

	var conditions []string
	var args []any

	if query.StartTime != nil {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, query.StartTime.UnixNano())
	}
	if query.EndTime != nil {
		conditions = append(conditions, "created_at <= ?")
		args = append(args, query.EndTime.UnixNano())
	}
	if query.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, string(query.Status))
	}
	if query.ErrorKind != "" {
		conditions = append(conditions, "error_kind = ?")
		args = append(args, query.ErrorKind)
	}
	if query.Source != "" {
		conditions = append(conditions, "source = ?")
		args = append(args, query.Source)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// orderBy breaks created_at ties on id so paging is stable.
func orderBy(query *history.Query) string {
	if query.Ascending() {
		return " ORDER BY created_at ASC, id ASC"
	}
	return " ORDER BY created_at DESC, id DESC"
}

func scanRow(rows *sql.Rows) (*history.Record, error) {
	var (
		record                           history.Record
		postfix, errorKind, errorMessage sql.NullString
		result                           sql.NullFloat64
		status                           string
		durationNS, createdAt            int64
	)

	err := rows.Scan(
		&record.ID, &record.Expression, &record.Normalized, &postfix, &result,
		&status, &errorKind, &errorMessage, &record.Source, &durationNS, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	record.Postfix = postfix.String
	if result.Valid {
		value := result.Float64
		record.Result = &value
	}
	record.Status = history.Status(status)
	record.ErrorKind = errorKind.String
	record.ErrorMessage = errorMessage.String
	record.Duration = time.Duration(durationNS)
	record.CreatedAt = time.Unix(0, createdAt).UTC()

	return &record, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

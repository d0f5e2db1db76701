package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the history database schema.
// created_at holds Unix nanoseconds so range filters compare numerically
// under either driver.
const Schema = `
CREATE TABLE IF NOT EXISTS history (
    id TEXT PRIMARY KEY,
    expression TEXT NOT NULL,
    normalized TEXT NOT NULL,
    postfix TEXT,
    result REAL,
    status TEXT NOT NULL,
    error_kind TEXT,
    error_message TEXT,
    source TEXT NOT NULL,
    duration_ns INTEGER NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_history_created_at ON history(created_at);
CREATE INDEX IF NOT EXISTS idx_history_status ON history(status);
CREATE INDEX IF NOT EXISTS idx_history_source ON history(source);
`

// InsertSchemaVersion inserts the schema version into the schema_version table.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`

const insertRecord = `
INSERT INTO history (
    id, expression, normalized, postfix, result,
    status, error_kind, error_message, source, duration_ns, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const selectColumns = `id, expression, normalized, postfix, result,
    status, error_kind, error_message, source, duration_ns, created_at`

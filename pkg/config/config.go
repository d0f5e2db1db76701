package config

import "time"

// Config is the root configuration structure for rpncalc.
// It contains the calculator options, the HTTP service, evaluation history,
// file watching and telemetry settings.
type Config struct {
	// Calculator contains options for expression evaluation.
	Calculator CalculatorConfig `yaml:"calculator"`

	// Server contains HTTP evaluation service configuration including
	// listen address, timeouts and request limits.
	Server ServerConfig `yaml:"server"`

	// History contains configuration for recording evaluations, including
	// the storage driver, the async recorder and retention.
	History HistoryConfig `yaml:"history"`

	// Watch contains file watching configuration.
	Watch WatchConfig `yaml:"watch"`

	// Telemetry contains configuration for observability including logging,
	// metrics, and distributed tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// CalculatorConfig contains options for expression evaluation.
type CalculatorConfig struct {
	// LenientOperands returns the last computed value when operands are
	// left over at the end of evaluation instead of failing.
	// Default: false
	LenientOperands bool `yaml:"lenient_operands"`

	// MaxExpressionLength is the maximum length of an expression in bytes
	// accepted by the service and the CLI.
	// Default: 4096
	MaxExpressionLength int `yaml:"max_expression_length"`
}

// ServerConfig contains configuration for the HTTP evaluation service.
type ServerConfig struct {
	// ListenAddress is the address and port for the service to listen on.
	// Format: "host:port" (e.g., "127.0.0.1:8080", "0.0.0.0:8080").
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body.
	// Default: 10s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response.
	// Default: 10s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request
	// when keep-alives are enabled.
	// Default: 60s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for in-flight requests
	// during graceful shutdown.
	// Default: 15s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxBodyBytes limits the size of request bodies.
	// Default: 65536 (64KB)
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// RateLimit throttles the /v1 endpoints per client.
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	// TLS contains HTTPS configuration.
	TLS TLSConfig `yaml:"tls"`

	// Auth contains API key authentication for the /v1 endpoints.
	Auth AuthConfig `yaml:"auth"`
}

// TLSConfig contains HTTPS configuration for the service.
type TLSConfig struct {
	// Enabled serves HTTPS instead of plain HTTP.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// CertFile is the path to the PEM-encoded certificate chain.
	CertFile string `yaml:"cert_file"`

	// KeyFile is the path to the PEM-encoded private key.
	KeyFile string `yaml:"key_file"`

	// MinVersion is the minimum TLS version to accept.
	// Options: "1.2", "1.3"
	// Default: "1.3"
	MinVersion string `yaml:"min_version"`

	// ClientCAFile enables mutual TLS. Clients must present a certificate
	// signed by a CA in this PEM file.
	ClientCAFile string `yaml:"client_ca_file"`

	// ReloadInterval is how often the certificate files are checked for
	// changes.
	// Default: 5m
	ReloadInterval time.Duration `yaml:"reload_interval"`
}

// AuthConfig contains API key authentication configuration.
type AuthConfig struct {
	// Enabled requires a valid API key on the /v1 endpoints.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Header is the request header carrying the key. An
	// "Authorization: Bearer <key>" header is always accepted as well.
	// Default: "X-API-Key"
	Header string `yaml:"header"`

	// Keys lists the accepted API keys.
	Keys []APIKeyConfig `yaml:"keys"`
}

// APIKeyConfig describes one API key.
type APIKeyConfig struct {
	// Name identifies the client in logs and rate limiting.
	Name string `yaml:"name"`

	// Key is the secret value.
	Key string `yaml:"key"`

	// KeyEnv names an environment variable holding the key, used when Key
	// is empty.
	KeyEnv string `yaml:"key_env"`

	// Disabled rejects the key without removing it.
	Disabled bool `yaml:"disabled"`
}

// RateLimitConfig configures per-client request throttling.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate allowed per client.
	// 0 disables rate limiting.
	// Default: 0
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	// Burst is the number of requests a client may make at once.
	// 0 means twice RequestsPerSecond, rounded up.
	// Default: 0
	Burst int `yaml:"burst"`
}

// HistoryConfig contains configuration for evaluation history.
type HistoryConfig struct {
	// Enabled controls whether evaluations are recorded.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Driver selects the database/sql driver for the SQLite store.
	// Options: "sqlite" (pure Go, modernc.org/sqlite), "sqlite3" (cgo,
	// mattn/go-sqlite3), "memory"
	// Default: "sqlite"
	Driver string `yaml:"driver"`

	// Path is the database file path.
	// Default: "data/history.db"
	Path string `yaml:"path"`

	// MaxOpenConns is the maximum number of open database connections.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle database connections.
	// Default: 5
	MaxIdleConns int `yaml:"max_idle_conns"`

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool `yaml:"wal_mode"`

	// BusyTimeout is the SQLite busy timeout.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`

	// AsyncBuffer is the size of the recorder's channel. Records are dropped
	// when the buffer is full.
	// Default: 1000
	AsyncBuffer int `yaml:"async_buffer"`

	// WriteTimeout is the timeout for a single storage write.
	// Default: 5s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// Retention contains the pruning policy.
	Retention RetentionConfig `yaml:"retention"`
}

// RetentionConfig contains configuration for history pruning.
type RetentionConfig struct {
	// Days is the number of days to keep records (0 = keep forever).
	// Default: 30
	Days int `yaml:"days"`

	// MaxRecords caps the number of stored records (0 = unlimited).
	// Default: 0
	MaxRecords int64 `yaml:"max_records"`

	// PruneSchedule is a cron expression for automatic pruning.
	// Default: "0 3 * * *" (daily at 3 AM)
	PruneSchedule string `yaml:"prune_schedule"`
}

// WatchConfig contains file watching configuration.
type WatchConfig struct {
	// DebounceInterval coalesces bursts of file events into one reload.
	// Default: 100ms
	DebounceInterval time.Duration `yaml:"debounce_interval"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "rpncalc"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "" (none)
	Subsystem string `yaml:"subsystem"`

	// DurationBuckets defines histogram buckets for evaluation duration (seconds).
	// Default: [0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05]
	DurationBuckets []float64 `yaml:"duration_buckets"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether distributed tracing is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Endpoint is the OTLP gRPC collector endpoint.
	// Example: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// ServiceName is the service name in traces.
	// Default: "rpncalc"
	ServiceName string `yaml:"service_name"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Insecure disables TLS for the OTLP connection.
	// Default: true
	Insecure bool `yaml:"insecure"`

	// Timeout is the timeout for OTLP exports.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}

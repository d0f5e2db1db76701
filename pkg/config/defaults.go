package config

import "time"

// Default values for configuration fields.
const (
	// Calculator defaults
	DefaultLenientOperands     = false
	DefaultMaxExpressionLength = 4096

	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 15 * time.Second
	DefaultMaxBodyBytes    = int64(64 * 1024)
	DefaultTLSMinVersion   = "1.3"
	DefaultTLSReload       = 5 * time.Minute
	DefaultAuthHeader      = "X-API-Key"

	// History defaults
	DefaultHistoryEnabled         = false
	DefaultHistoryDriver          = "sqlite"
	DefaultHistoryPath            = "data/history.db"
	DefaultHistoryMaxOpenConns    = 10
	DefaultHistoryMaxIdleConns    = 5
	DefaultHistoryWALMode         = true
	DefaultHistoryBusyTimeout     = 5 * time.Second
	DefaultHistoryAsyncBuffer     = 1000
	DefaultHistoryWriteTimeout    = 5 * time.Second
	DefaultRetentionDays          = 30
	DefaultRetentionMaxRecords    = int64(0)
	DefaultRetentionPruneSchedule = "0 3 * * *"

	// Watch defaults
	DefaultDebounceInterval = 100 * time.Millisecond

	// Telemetry defaults
	DefaultLoggingLevel       = "info"
	DefaultLoggingFormat      = "text"
	DefaultMetricsEnabled     = true
	DefaultMetricsPath        = "/metrics"
	DefaultMetricsNamespace   = "rpncalc"
	DefaultTracingEnabled     = false
	DefaultTracingServiceName = "rpncalc"
	DefaultTracingSampleRatio = 1.0
	DefaultTracingInsecure    = true
	DefaultTracingTimeout     = 10 * time.Second
)

// DefaultDurationBuckets are the evaluation duration histogram buckets in
// seconds. Evaluations are sub-millisecond, so the buckets start at 10µs.
var DefaultDurationBuckets = []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05}

// Default returns a configuration with every field set to its default.
// Boolean fields that default to true are only reliable when a file is
// decoded on top of this value, which is what LoadConfig does.
func Default() *Config {
	cfg := &Config{
		Calculator: CalculatorConfig{
			LenientOperands: DefaultLenientOperands,
		},
		History: HistoryConfig{
			Enabled: DefaultHistoryEnabled,
			WALMode: DefaultHistoryWALMode,
		},
		Telemetry: TelemetryConfig{
			Metrics: MetricsConfig{Enabled: DefaultMetricsEnabled},
			Tracing: TracingConfig{
				Enabled:  DefaultTracingEnabled,
				Insecure: DefaultTracingInsecure,
			},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Calculator defaults
	if cfg.Calculator.MaxExpressionLength == 0 {
		cfg.Calculator.MaxExpressionLength = DefaultMaxExpressionLength
	}

	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Server.TLS.MinVersion == "" {
		cfg.Server.TLS.MinVersion = DefaultTLSMinVersion
	}
	if cfg.Server.TLS.ReloadInterval == 0 {
		cfg.Server.TLS.ReloadInterval = DefaultTLSReload
	}
	if cfg.Server.Auth.Header == "" {
		cfg.Server.Auth.Header = DefaultAuthHeader
	}

	applyHistoryDefaults(&cfg.History)

	// Watch defaults
	if cfg.Watch.DebounceInterval == 0 {
		cfg.Watch.DebounceInterval = DefaultDebounceInterval
	}

	applyTelemetryDefaults(&cfg.Telemetry)
}

func applyHistoryDefaults(cfg *HistoryConfig) {
	if cfg.Driver == "" {
		cfg.Driver = DefaultHistoryDriver
	}
	if cfg.Path == "" {
		cfg.Path = DefaultHistoryPath
	}
	if cfg.MaxOpenConns == 0 {
		cfg.MaxOpenConns = DefaultHistoryMaxOpenConns
	}
	if cfg.MaxIdleConns == 0 {
		cfg.MaxIdleConns = DefaultHistoryMaxIdleConns
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = DefaultHistoryBusyTimeout
	}
	if cfg.AsyncBuffer == 0 {
		cfg.AsyncBuffer = DefaultHistoryAsyncBuffer
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = DefaultHistoryWriteTimeout
	}

	// Retention defaults
	if cfg.Retention.Days == 0 {
		cfg.Retention.Days = DefaultRetentionDays
	}
	if cfg.Retention.PruneSchedule == "" {
		cfg.Retention.PruneSchedule = DefaultRetentionPruneSchedule
	}
}

func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLoggingFormat
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if len(cfg.Metrics.DurationBuckets) == 0 {
		cfg.Metrics.DurationBuckets = append([]float64(nil), DefaultDurationBuckets...)
	}

	if cfg.Tracing.ServiceName == "" {
		cfg.Tracing.ServiceName = DefaultTracingServiceName
	}
	if cfg.Tracing.SampleRatio == 0 {
		cfg.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
	if cfg.Tracing.Timeout == 0 {
		cfg.Tracing.Timeout = DefaultTracingTimeout
	}
}

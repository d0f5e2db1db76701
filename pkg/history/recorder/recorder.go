package recorder

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"intlab/rpncalc/pkg/config"
	"intlab/rpncalc/pkg/history"
)

// Config contains configuration for the history recorder.
type Config struct {
	// Enabled enables recording. A disabled recorder accepts and discards.
	Enabled bool

	// AsyncBuffer is the size of the async write channel buffer.
	// Default: 1000
	AsyncBuffer int

	// WriteTimeout is the timeout for writing one record to storage.
	// Default: 5 seconds
	WriteTimeout time.Duration
}

// DefaultConfig returns the default recorder configuration.
func DefaultConfig() *Config {
	return &Config{
		Enabled:      true,
		AsyncBuffer:  config.DefaultHistoryAsyncBuffer,
		WriteTimeout: config.DefaultHistoryWriteTimeout,
	}
}

// ConfigFrom builds a recorder configuration from the history section.
func ConfigFrom(cfg *config.HistoryConfig) *Config {
	return &Config{
		Enabled:      cfg.Enabled,
		AsyncBuffer:  cfg.AsyncBuffer,
		WriteTimeout: cfg.WriteTimeout,
	}
}

// Metrics receives a count of records dropped because the buffer was full.
// *metrics.Collector satisfies it.
type Metrics interface {
	RecordHistoryDropped()
}

// Recorder writes history records asynchronously so evaluation never waits
// on storage.
type Recorder struct {
	storage    history.Storage
	config     *Config
	metrics    Metrics
	recordChan chan *history.Record
	logger     *slog.Logger

	// mu guards closed against concurrent Record and Close.
	mu        sync.RWMutex
	closed    bool
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewRecorder creates a recorder and starts its worker. metrics may be nil.
func NewRecorder(storage history.Storage, cfg *Config, metrics Metrics) *Recorder {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.AsyncBuffer <= 0 {
		cfg.AsyncBuffer = config.DefaultHistoryAsyncBuffer
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = config.DefaultHistoryWriteTimeout
	}

	r := &Recorder{
		storage:    storage,
		config:     cfg,
		metrics:    metrics,
		recordChan: make(chan *history.Record, cfg.AsyncBuffer),
		done:       make(chan struct{}),
		logger:     slog.Default().With("component", "history.recorder"),
	}

	r.wg.Add(1)
	go r.worker()

	r.logger.Debug("history recorder initialized",
		"enabled", cfg.Enabled,
		"async_buffer", cfg.AsyncBuffer,
		"write_timeout", cfg.WriteTimeout,
	)

	return r
}

// Record enqueues a record for writing and returns immediately. If the
// buffer is full the record is dropped and ErrBufferFull is returned.
func (r *Recorder) Record(ctx context.Context, record *history.Record) error {
	if !r.config.Enabled {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return history.NewRecorderError(record.ID, history.ErrClosed)
	}

	select {
	case r.recordChan <- record:
		return nil
	default:
		if r.metrics != nil {
			r.metrics.RecordHistoryDropped()
		}
		r.logger.Warn("history buffer full, dropping record",
			"record_id", record.ID,
			"channel_capacity", r.config.AsyncBuffer,
		)
		return history.NewRecorderError(record.ID, history.ErrBufferFull)
	}
}

// Enabled reports whether records are kept.
func (r *Recorder) Enabled() bool {
	return r.config.Enabled
}

// Close stops accepting records, drains the buffer and waits for the
// pending writes. It is safe to call more than once.
func (r *Recorder) Close() error {
	r.closeOnce.Do(func() {
		r.mu.Lock()
		r.closed = true
		close(r.done)
		r.mu.Unlock()

		r.wg.Wait()
		r.logger.Debug("history recorder shut down")
	})
	return nil
}

func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case record := <-r.recordChan:
			r.writeRecord(record)

		case <-r.done:
			// No sends can start once done is closed, so draining what is
			// buffered is final.
			for {
				select {
				case record := <-r.recordChan:
					r.writeRecord(record)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) writeRecord(record *history.Record) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	start := time.Now()
	if err := r.storage.Store(ctx, record); err != nil {
		r.logger.Error("failed to store history record",
			"record_id", record.ID,
			"error", err,
		)
		return
	}

	duration := time.Since(start)
	r.logger.Debug("history recorded",
		"record_id", record.ID,
		"status", record.Status,
		"duration_ms", duration.Milliseconds(),
	)

	if duration > r.config.WriteTimeout/2 {
		r.logger.Warn("slow history write",
			"record_id", record.ID,
			"duration_ms", duration.Milliseconds(),
			"threshold_ms", (r.config.WriteTimeout / 2).Milliseconds(),
		)
	}
}

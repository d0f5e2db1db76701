package retention

import (
	"context"
	"log/slog"
	"time"

	"intlab/rpncalc/pkg/config"
	"intlab/rpncalc/pkg/history"
)

// Prune reasons reported to metrics.
const (
	ReasonAge   = "age"
	ReasonCount = "count"
)

// Config contains configuration for the retention pruner.
type Config struct {
	// RetentionDays is the number of days to keep records.
	// 0 means keep records forever.
	RetentionDays int

	// MaxRecords is the maximum number of records to keep.
	// 0 means unlimited.
	MaxRecords int64

	// PruneSchedule is a cron expression for scheduled pruning.
	// Example: "0 3 * * *" (daily at 3 AM)
	PruneSchedule string
}

// DefaultConfig returns the default retention configuration.
func DefaultConfig() *Config {
	return &Config{
		RetentionDays: config.DefaultRetentionDays,
		PruneSchedule: config.DefaultRetentionPruneSchedule,
	}
}

// ConfigFrom builds a retention configuration from the history section.
func ConfigFrom(cfg *config.RetentionConfig) *Config {
	return &Config{
		RetentionDays: cfg.Days,
		MaxRecords:    cfg.MaxRecords,
		PruneSchedule: cfg.PruneSchedule,
	}
}

// Metrics receives prune counts. *metrics.Collector satisfies it.
type Metrics interface {
	RecordHistoryPruned(reason string, count int64)
}

// Pruner enforces the retention policy on a history store.
type Pruner struct {
	storage   history.Storage
	config    *Config
	metrics   Metrics
	logger    *slog.Logger
	scheduler *Scheduler

	// now is replaceable in tests.
	now func() time.Time
}

// NewPruner creates a pruner. metrics may be nil.
func NewPruner(storage history.Storage, cfg *Config, metrics Metrics) *Pruner {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	p := &Pruner{
		storage: storage,
		config:  cfg,
		metrics: metrics,
		logger:  slog.Default().With("component", "history.retention"),
		now:     time.Now,
	}
	p.scheduler = NewScheduler(cfg.PruneSchedule, p.scheduledPrune, p.logger)
	return p
}

// Prune deletes records older than the retention period, then the oldest
// records beyond MaxRecords. It returns the total number deleted.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var total int64

	if p.config.RetentionDays > 0 {
		deleted, err := p.pruneByAge(ctx)
		if err != nil {
			return total, history.NewRetentionError(ReasonAge, err)
		}
		total += deleted
		p.report(ReasonAge, deleted)
	}

	if p.config.MaxRecords > 0 {
		deleted, err := p.pruneByCount(ctx)
		if err != nil {
			return total, history.NewRetentionError(ReasonCount, err)
		}
		total += deleted
		p.report(ReasonCount, deleted)
	}

	if total > 0 {
		p.logger.Info("history pruning completed",
			"total_deleted", total,
			"retention_days", p.config.RetentionDays,
			"max_records", p.config.MaxRecords,
		)
	} else {
		p.logger.Debug("no history records pruned")
	}

	return total, nil
}

func (p *Pruner) report(reason string, deleted int64) {
	if deleted == 0 {
		return
	}
	if p.metrics != nil {
		p.metrics.RecordHistoryPruned(reason, deleted)
	}
	p.logger.Debug("pruned history records", "reason", reason, "deleted_count", deleted)
}

func (p *Pruner) pruneByAge(ctx context.Context) (int64, error) {
	cutoff := p.now().AddDate(0, 0, -p.config.RetentionDays)
	return p.storage.Delete(ctx, &history.Query{EndTime: &cutoff})
}

// pruneByCount deletes the oldest records above MaxRecords.
func (p *Pruner) pruneByCount(ctx context.Context) (int64, error) {
	count, err := p.storage.Count(ctx, nil)
	if err != nil {
		return 0, err
	}
	if count <= p.config.MaxRecords {
		return 0, nil
	}

	return p.storage.Delete(ctx, &history.Query{
		Limit:     int(count - p.config.MaxRecords),
		SortOrder: history.SortAsc,
	})
}

func (p *Pruner) scheduledPrune(ctx context.Context) {
	deleted, err := p.Prune(ctx)
	if err != nil {
		p.logger.Error("scheduled pruning failed", "error", err)
		return
	}
	p.logger.Debug("scheduled pruning completed", "deleted_count", deleted)
}

// Start starts the scheduled pruning. It stops when ctx is cancelled.
func (p *Pruner) Start(ctx context.Context) error {
	if err := p.scheduler.Start(ctx); err != nil {
		return err
	}
	if p.scheduler.IsRunning() {
		p.logger.Info("retention policy active",
			"retention_days", p.config.RetentionDays,
			"max_records", p.config.MaxRecords,
		)
	}
	return nil
}

// Stop stops the scheduler and waits for a running prune to finish.
func (p *Pruner) Stop() {
	p.scheduler.Stop()
}

// NextPruning returns the time of the next scheduled pruning.
func (p *Pruner) NextPruning() *time.Time {
	return p.scheduler.NextRun()
}

package metrics

import (
	"time"

	"intlab/rpncalc/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Status label values for evaluations.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Collector owns every rpncalc metric and the registry they are registered
// with. All Record methods are no-ops on a nil collector or when metrics are
// disabled, so callers never need to guard them.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	evaluationMetrics *EvaluationMetrics
	historyMetrics    *HistoryMetrics
	httpMetrics       *HTTPMetrics
}

// NewCollector creates a new metrics collector with the specified
// configuration. If registry is nil a fresh registry is created; the
// process-wide default registry is never used.
//
// Example:
//
//	cfg := &config.MetricsConfig{Enabled: true, Namespace: "rpncalc"}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = append([]float64(nil), config.DefaultDurationBuckets...)
	}

	return &Collector{
		config:            cfg,
		registry:          registry,
		evaluationMetrics: NewEvaluationMetrics(cfg, registry),
		historyMetrics:    NewHistoryMetrics(cfg, registry),
		httpMetrics:       NewHTTPMetrics(cfg, registry),
	}
}

func (c *Collector) enabled() bool {
	return c != nil && c.config.Enabled
}

// RecordEvaluation records one evaluation.
//
// Parameters:
//   - source: where the expression came from ("cli", "http", "watch")
//   - kind: the error kind, or "" on success
//   - duration: time spent converting and evaluating
//   - tokens: length of the postfix sequence (0 if conversion failed)
func (c *Collector) RecordEvaluation(source, kind string, duration time.Duration, tokens int) {
	if !c.enabled() {
		return
	}
	c.evaluationMetrics.Record(source, kind, duration, tokens)
}

// RecordHistoryPruned records records removed by retention.
func (c *Collector) RecordHistoryPruned(reason string, count int64) {
	if !c.enabled() {
		return
	}
	c.historyMetrics.RecordPruned(reason, count)
}

// RecordHistoryDropped records a history record dropped because the
// recorder's buffer was full.
func (c *Collector) RecordHistoryDropped() {
	if !c.enabled() {
		return
	}
	c.historyMetrics.RecordDropped()
}

// RecordHTTPRequest records a completed HTTP request.
func (c *Collector) RecordHTTPRequest(route string, code int, duration time.Duration) {
	if !c.enabled() {
		return
	}
	c.httpMetrics.Record(route, code, duration)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

package metrics

import (
	"intlab/rpncalc/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// HistoryMetrics tracks the evaluation history store.
type HistoryMetrics struct {
	prunedTotal  *prometheus.CounterVec
	droppedTotal prometheus.Counter
}

// NewHistoryMetrics creates and registers history metrics.
func NewHistoryMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *HistoryMetrics {
	hm := &HistoryMetrics{
		prunedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "history_pruned_total",
				Help:      "Total number of history records removed by retention",
			},
			[]string{"reason"},
		),

		droppedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "history_dropped_total",
				Help:      "Total number of history records dropped because the recorder buffer was full",
			},
		),
	}

	registry.MustRegister(hm.prunedTotal, hm.droppedTotal)

	return hm
}

// RecordPruned adds count to the pruned counter for reason ("age" or "count").
func (hm *HistoryMetrics) RecordPruned(reason string, count int64) {
	if count > 0 {
		hm.prunedTotal.WithLabelValues(reason).Add(float64(count))
	}
}

// RecordDropped increments the dropped counter.
func (hm *HistoryMetrics) RecordDropped() {
	hm.droppedTotal.Inc()
}

package metrics

import (
	"time"

	"intlab/rpncalc/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// EvaluationMetrics tracks expression evaluations.
//
// Metrics:
//   - rpncalc_evaluations_total: evaluations by source, status and error kind
//   - rpncalc_evaluation_duration_seconds: evaluation latency by source
//   - rpncalc_expression_tokens: postfix sequence length
type EvaluationMetrics struct {
	evaluationsTotal *prometheus.CounterVec
	duration         *prometheus.HistogramVec
	tokens           prometheus.Histogram
}

// NewEvaluationMetrics creates and registers evaluation metrics.
func NewEvaluationMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *EvaluationMetrics {
	em := &EvaluationMetrics{
		evaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "evaluations_total",
				Help:      "Total number of expressions evaluated",
			},
			[]string{"source", "status", "kind"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "evaluation_duration_seconds",
				Help:      "Duration of expression conversion and evaluation in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"source"},
		),

		tokens: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "expression_tokens",
				Help:      "Number of postfix tokens per converted expression",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
			},
		),
	}

	registry.MustRegister(
		em.evaluationsTotal,
		em.duration,
		em.tokens,
	)

	return em
}

// Record records one evaluation. An empty kind means success.
func (em *EvaluationMetrics) Record(source, kind string, duration time.Duration, tokens int) {
	status := StatusSuccess
	if kind != "" {
		status = StatusError
	} else {
		kind = "none"
	}

	em.evaluationsTotal.WithLabelValues(source, status, kind).Inc()
	em.duration.WithLabelValues(source).Observe(duration.Seconds())

	if tokens > 0 {
		em.tokens.Observe(float64(tokens))
	}
}

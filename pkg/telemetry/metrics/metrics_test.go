package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"intlab/rpncalc/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func testConfig() *config.MetricsConfig {
	return &config.MetricsConfig{
		Enabled:         true,
		Namespace:       "test",
		DurationBuckets: []float64{0.0001, 0.001, 0.01},
	}
}

func TestCollector_NewCollector(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()

	collector := NewCollector(cfg, registry)

	if collector.config != cfg {
		t.Error("Collector config not set correctly")
	}
	if collector.Registry() != registry {
		t.Error("Collector registry not set correctly")
	}
}

func TestCollector_NewCollectorDefaults(t *testing.T) {
	cfg := &config.MetricsConfig{Enabled: true}
	collector := NewCollector(cfg, nil)

	if collector.Registry() == nil {
		t.Fatal("expected a registry to be created")
	}
	if cfg.Namespace != config.DefaultMetricsNamespace {
		t.Errorf("Namespace = %q, want %q", cfg.Namespace, config.DefaultMetricsNamespace)
	}
	if len(cfg.DurationBuckets) == 0 {
		t.Error("expected default duration buckets")
	}
}

func TestCollector_RecordEvaluation(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	collector.RecordEvaluation("cli", "", 50*time.Microsecond, 5)
	collector.RecordEvaluation("cli", "", 70*time.Microsecond, 3)
	collector.RecordEvaluation("http", "divide_by_zero", 10*time.Microsecond, 5)

	em := collector.evaluationMetrics
	if got := testutil.ToFloat64(em.evaluationsTotal.WithLabelValues("cli", StatusSuccess, "none")); got != 2 {
		t.Errorf("cli success count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(em.evaluationsTotal.WithLabelValues("http", StatusError, "divide_by_zero")); got != 1 {
		t.Errorf("http divide_by_zero count = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(em.duration); got != 2 {
		t.Errorf("duration series = %d, want 2", got)
	}
}

func TestCollector_RecordHistory(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	collector.RecordHistoryPruned("age", 10)
	collector.RecordHistoryPruned("age", 0)
	collector.RecordHistoryPruned("count", 3)
	collector.RecordHistoryDropped()
	collector.RecordHistoryDropped()

	hm := collector.historyMetrics
	if got := testutil.ToFloat64(hm.prunedTotal.WithLabelValues("age")); got != 10 {
		t.Errorf("pruned by age = %v, want 10", got)
	}
	if got := testutil.ToFloat64(hm.prunedTotal.WithLabelValues("count")); got != 3 {
		t.Errorf("pruned by count = %v, want 3", got)
	}
	if got := testutil.ToFloat64(hm.droppedTotal); got != 2 {
		t.Errorf("dropped = %v, want 2", got)
	}
}

func TestCollector_RecordHTTPRequest(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	collector.RecordHTTPRequest("/v1/calculate", 200, time.Millisecond)
	collector.RecordHTTPRequest("/v1/calculate", 422, time.Millisecond)
	collector.RecordHTTPRequest("/v1/calculate", 200, time.Millisecond)

	hm := collector.httpMetrics
	if got := testutil.ToFloat64(hm.requestsTotal.WithLabelValues("/v1/calculate", "200")); got != 2 {
		t.Errorf("200 count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(hm.requestsTotal.WithLabelValues("/v1/calculate", "422")); got != 1 {
		t.Errorf("422 count = %v, want 1", got)
	}
}

func TestCollector_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	collector := NewCollector(cfg, nil)

	collector.RecordEvaluation("cli", "", time.Microsecond, 1)
	collector.RecordHistoryDropped()

	if got := testutil.CollectAndCount(collector.evaluationMetrics.evaluationsTotal); got != 0 {
		t.Errorf("disabled collector recorded %d series", got)
	}
	if got := testutil.ToFloat64(collector.historyMetrics.droppedTotal); got != 0 {
		t.Errorf("disabled collector dropped = %v, want 0", got)
	}
}

func TestCollector_NilIsNoop(t *testing.T) {
	var collector *Collector

	collector.RecordEvaluation("cli", "", time.Microsecond, 1)
	collector.RecordHistoryPruned("age", 1)
	collector.RecordHistoryDropped()
	collector.RecordHTTPRequest("/", 200, time.Millisecond)
}

func TestCollector_Handler(t *testing.T) {
	collector := NewCollector(testConfig(), nil)
	collector.RecordEvaluation("cli", "", time.Microsecond, 3)

	srv := httptest.NewServer(collector.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET metrics: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "test_evaluations_total") {
		t.Errorf("metrics output missing test_evaluations_total:\n%s", body)
	}
}

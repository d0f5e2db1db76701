// Package metrics provides Prometheus metrics collection for rpncalc.
//
// # Metrics
//
//   - evaluations_total{source,status,kind}: expressions evaluated; kind is
//     the error kind or "none"
//   - evaluation_duration_seconds{source}: conversion plus evaluation time
//   - expression_tokens: postfix sequence length
//   - history_pruned_total{reason}: records removed by retention
//   - history_dropped_total: records dropped by a full recorder buffer
//   - http_requests_total{route,code}, http_request_duration_seconds{route}
//
// All names carry the configured namespace and subsystem.
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordEvaluation("cli", "", elapsed, len(postfix))
//	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
//
// The collector registers on its own registry, so several collectors can
// coexist in tests.
package metrics

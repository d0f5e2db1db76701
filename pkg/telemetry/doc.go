// Package telemetry groups the observability packages used by rpncalc.
//
// # Components
//
//   - logging: structured logging over log/slog with request ID context
//   - metrics: Prometheus counters and histograms for evaluations, history
//     and HTTP requests
//   - tracing: OpenTelemetry spans exported over OTLP/gRPC
//   - health: liveness and readiness probes
//
// # Usage
//
//	logger, _ := logging.New(logging.FromConfig(cfg.Telemetry.Logging, os.Stderr))
//	logger.SetDefault()
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
//	if err != nil {
//		return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	eng := engine.New(engine.Options{Metrics: collector, Tracer: tracer})
//
// Every component is optional: a nil metrics collector records nothing and
// a disabled tracer hands out no-op spans.
package telemetry

// Package tracing provides OpenTelemetry tracing for rpncalc.
//
// When tracing is disabled New returns a tracer backed by the noop provider,
// so callers can start spans unconditionally. When enabled, spans are sent
// in batches to an OTLP/gRPC collector and sampled with a parent-based
// trace ID ratio sampler.
//
// # Usage
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, "rpn.calculate")
//	tracing.SetExpressionAttributes(span, expr, "http")
//	res, err := calc.Explain(expr)
//	tracing.RecordResult(span, res.PostfixString(), res.Value, err)
//	span.End()
//
// # Propagation
//
// The W3C Trace Context and Baggage propagators are installed globally.
// HTTPMiddleware continues traces started by callers of the HTTP service.
package tracing

// Package logging provides structured logging for rpncalc.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - JSON, text, and console output formats
//   - Context-aware logging with request IDs and evaluation source
//   - A runtime-adjustable level
//
// # Usage
//
//	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging, os.Stderr))
//	if err != nil {
//	    return err
//	}
//	logger.SetDefault()
//
// Components then log through the default logger:
//
//	log := slog.Default().With("component", "history.recorder")
//	log.Info("recorder started", "buffer", 1000)
//
// Request handlers attach fields through the context:
//
//	ctx = logging.WithRequestID(ctx, id)
//	logger.InfoContext(ctx, "expression evaluated", "result", v)
package logging

// Package server runs the rpncalc HTTP API.
//
// # Routes
//
//   - POST /v1/calculate, /v1/convert, /v1/evaluate: expression endpoints
//   - GET /v1/history: recorded evaluations
//   - /health, /ready, /version: probes and build info
//   - GET <metrics path>: Prometheus metrics
//
// # Middleware
//
// Requests pass through request ID assignment, panic recovery and access
// logging. API routes additionally get a server span, request metrics,
// per-client rate limiting and, when Dependencies.APIKeys is set, API key
// authentication.
//
// # TLS
//
// With server.tls.enabled the listener serves HTTPS using a certificate
// that is reloaded from disk when it changes.
//
// # Usage
//
//	srv := server.New(&cfg.Server, server.Dependencies{Engine: eng, Store: store})
//	if err := srv.Start(ctx); err != nil {
//	    return err
//	}
//
// Start blocks until ctx is cancelled and then shuts down gracefully.
package server

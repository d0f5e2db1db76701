// Package health provides liveness and readiness endpoints for the rpncalc
// service.
//
// # Endpoints
//
//   - /health: liveness, 200 while the process serves requests
//   - /ready: readiness, runs registered checks; 503 if any fails
//   - /version: build information
//
// # Checks
//
//	checker := health.New(2 * time.Second)
//	checker.RegisterCheck("calculator", health.CalculatorCheck(calc))
//	checker.RegisterCheck("history", health.PingCheck(store))
//
// CalculatorCheck evaluates a fixed canary expression; PingCheck verifies a
// store's connection. Checks run concurrently with a per-check timeout.
package health

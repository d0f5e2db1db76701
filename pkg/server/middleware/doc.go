// Package middleware provides the HTTP middleware of the rpncalc server:
// panic recovery, request IDs, access logging, per-route metrics and
// per-client rate limiting.
//
//	handler = middleware.Chain(mux,
//	    middleware.RequestID,
//	    middleware.Recovery,
//	    middleware.Logging(logger),
//	)
//
// RateLimit keeps a token bucket per client. Clients are identified by API
// key name when the request was authenticated, otherwise by remote IP.
// Requests over the limit get 429 with a Retry-After header.
package middleware

package middleware

import (
	"net/http"
	"time"

	"intlab/rpncalc/pkg/telemetry/metrics"
)

// Metrics records request count and latency for one route. route is a
// fixed label so that paths with variable parts do not explode the
// series count.
func Metrics(collector *metrics.Collector, route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := newResponseWriter(w)

			next.ServeHTTP(rw, r)

			collector.RecordHTTPRequest(route, rw.statusCode, time.Since(start))
		})
	}
}

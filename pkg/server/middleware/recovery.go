package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"intlab/rpncalc/pkg/server/api"
	"intlab/rpncalc/pkg/telemetry/logging"
)

// Recovery turns a handler panic into a 500 response and logs it with the
// stack trace. Internal details are not sent to the client.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}

				slog.ErrorContext(r.Context(), "panic in handler",
					"error", err,
					"request_id", logging.GetRequestID(r.Context()),
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)

				api.WriteError(w, api.NewServerError("An internal error occurred."))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

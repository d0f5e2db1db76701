package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"intlab/rpncalc/pkg/server/api"
)

// APIKeySource is a request header that may carry the key.
type APIKeySource struct {
	Header string
	Scheme string // e.g. "Bearer"; empty means the whole value is the key
}

// DefaultSources reads the key from header, then from a bearer token.
func DefaultSources(header string) []APIKeySource {
	return []APIKeySource{
		{Header: header},
		{Header: "Authorization", Scheme: "Bearer"},
	}
}

// APIKeyMiddleware is HTTP middleware for API key authentication.
type APIKeyMiddleware struct {
	validator *APIKeyValidator
	sources   []APIKeySource
	logger    *slog.Logger
}

// NewAPIKeyMiddleware creates the middleware.
func NewAPIKeyMiddleware(validator *APIKeyValidator, sources []APIKeySource, logger *slog.Logger) *APIKeyMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return &APIKeyMiddleware{
		validator: validator,
		sources:   sources,
		logger:    logger.With("component", "auth"),
	}
}

// Handle wraps next with API key authentication.
func (m *APIKeyMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key, ok := m.extractAPIKey(r)
		if !ok {
			m.logger.Warn("missing API key", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
			reject(w, api.CodeMissingAPIKey, "missing API key")
			return
		}

		info, err := m.validator.Validate(key)
		if err != nil {
			m.logger.Warn("rejected API key",
				"error", err,
				"remote_addr", r.RemoteAddr,
				"path", r.URL.Path,
			)
			code := api.CodeInvalidAPIKey
			if errors.Is(err, ErrKeyDisabled) {
				code = api.CodeDisabledAPIKey
			}
			reject(w, code, err.Error())
			return
		}

		m.logger.Debug("API key authenticated", "client", info.Name, "path", r.URL.Path)
		next.ServeHTTP(w, r.WithContext(WithAPIKeyInfo(r.Context(), info)))
	})
}

func (m *APIKeyMiddleware) extractAPIKey(r *http.Request) (string, bool) {
	for _, source := range m.sources {
		value := strings.TrimSpace(r.Header.Get(source.Header))
		if value == "" {
			continue
		}
		if source.Scheme == "" {
			return value, true
		}
		if scheme, token, found := strings.Cut(value, " "); found && strings.EqualFold(scheme, source.Scheme) && token != "" {
			return strings.TrimSpace(token), true
		}
	}
	return "", false
}

func reject(w http.ResponseWriter, code, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="rpncalc"`)
	api.WriteError(w, api.NewError(api.ErrorTypeAuthentication, code, message))
}

type contextKey struct{}

// WithAPIKeyInfo returns a context carrying info.
func WithAPIKeyInfo(ctx context.Context, info *APIKeyInfo) context.Context {
	return context.WithValue(ctx, contextKey{}, info)
}

// GetAPIKeyInfo retrieves the authenticated key's info from ctx.
func GetAPIKeyInfo(ctx context.Context) (*APIKeyInfo, bool) {
	info, ok := ctx.Value(contextKey{}).(*APIKeyInfo)
	return info, ok
}

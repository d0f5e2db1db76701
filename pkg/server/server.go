package server

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"intlab/rpncalc/pkg/config"
	"intlab/rpncalc/pkg/engine"
	"intlab/rpncalc/pkg/history"
	"intlab/rpncalc/pkg/security/auth"
	tlsconfig "intlab/rpncalc/pkg/security/tls"
	"intlab/rpncalc/pkg/server/handlers"
	"intlab/rpncalc/pkg/server/middleware"
	"intlab/rpncalc/pkg/telemetry/health"
	"intlab/rpncalc/pkg/telemetry/metrics"
	"intlab/rpncalc/pkg/telemetry/tracing"
)

// BuildInfo is reported by /version.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// Dependencies are the collaborators the server routes to. Engine is
// required; the rest are optional.
type Dependencies struct {
	Engine  *engine.Engine
	Store   history.Storage
	Checker *health.Checker
	Metrics *metrics.Collector
	Tracer  *tracing.Tracer
	Logger  *slog.Logger
	Build   BuildInfo

	// MetricsPath is where Prometheus metrics are served. Empty disables
	// the endpoint.
	MetricsPath string

	// APIKeys, when set, requires a valid key on the /v1 endpoints. Probes
	// and metrics stay open.
	APIKeys *auth.APIKeyValidator
}

// Server is the rpncalc HTTP server.
type Server struct {
	config     *config.ServerConfig
	deps       Dependencies
	logger     *slog.Logger
	httpServer *http.Server
	limiter    *middleware.ClientLimiter
	auth       *auth.APIKeyMiddleware

	mu        sync.RWMutex
	isRunning bool
	addr      net.Addr
}

// New creates a server.
func New(cfg *config.ServerConfig, deps Dependencies) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Tracer == nil {
		deps.Tracer, _ = tracing.New(&config.TracingConfig{})
	}
	if deps.Checker == nil {
		deps.Checker = health.New(0)
	}

	s := &Server{
		config:  cfg,
		deps:    deps,
		logger:  deps.Logger.With("component", "server"),
		limiter: middleware.NewClientLimiter(cfg.RateLimit),
	}
	if deps.APIKeys != nil {
		s.auth = auth.NewAPIKeyMiddleware(deps.APIKeys, auth.DefaultSources(cfg.Auth.Header), deps.Logger)
	}
	return s
}

// Start listens on the configured address and serves until ctx is
// cancelled, then shuts down gracefully within ShutdownTimeout.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}

	tlsConfig, err := tlsconfig.ServerConfig(ctx, &s.config.TLS, s.deps.Logger)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to configure TLS: %w", err)
	}

	ln, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", s.config.ListenAddress, err)
	}
	if tlsConfig != nil {
		ln = tls.NewListener(ln, tlsConfig)
	}

	s.httpServer = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}
	s.addr = ln.Addr()
	s.isRunning = true
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "address", ln.Addr().String(), "tls", tlsConfig != nil)
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.shutdown()
	case err := <-errChan:
		s.setRunning(false)
		return err
	}
}

func (s *Server) shutdown() error {
	s.logger.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	var shutdownErr error
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("error during server shutdown", "error", err)
		shutdownErr = fmt.Errorf("server shutdown error: %w", err)
	}

	s.setRunning(false)
	s.logger.Info("server stopped")
	return shutdownErr
}

func (s *Server) setRunning(running bool) {
	s.mu.Lock()
	s.isRunning = running
	s.mu.Unlock()
}

// IsRunning reports whether the server is serving.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Addr returns the bound address once Start is listening, or nil.
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}

// Handler returns the routed handler with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	calc := handlers.NewCalculatorHandler(s.deps.Engine, s.config.MaxBodyBytes, s.logger)
	hist := handlers.NewHistoryHandler(s.deps.Store, s.logger)

	s.route(mux, "POST /v1/calculate", "calculate", http.HandlerFunc(calc.Calculate))
	s.route(mux, "POST /v1/convert", "convert", http.HandlerFunc(calc.Convert))
	s.route(mux, "POST /v1/evaluate", "evaluate", http.HandlerFunc(calc.Evaluate))
	s.route(mux, "GET /v1/history", "history", hist)

	mux.Handle("/health", s.deps.Checker.LivenessHandler())
	mux.Handle("/ready", s.deps.Checker.ReadinessHandler())
	mux.Handle("/version", health.VersionHandler(s.deps.Build.Version, s.deps.Build.Commit, s.deps.Build.BuildTime))

	if s.deps.Metrics != nil && s.deps.MetricsPath != "" {
		mux.Handle("GET "+s.deps.MetricsPath, s.deps.Metrics.Handler())
	}

	return middleware.Chain(mux,
		middleware.RequestID,
		middleware.Recovery,
		middleware.Logging(s.logger),
	)
}

// route registers an API handler with authentication, rate limiting,
// tracing and metrics labelled route.
func (s *Server) route(mux *http.ServeMux, pattern, route string, h http.Handler) {
	h = middleware.RateLimit(s.limiter)(h)
	if s.auth != nil {
		h = s.auth.Handle(h)
	}
	h = middleware.Metrics(s.deps.Metrics, route)(h)
	h = s.deps.Tracer.HTTPMiddleware(route, h)
	mux.Handle(pattern, h)
}

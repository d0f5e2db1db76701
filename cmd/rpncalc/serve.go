package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"intlab/rpncalc/pkg/cli"
	"intlab/rpncalc/pkg/config"
	"intlab/rpncalc/pkg/engine"
	"intlab/rpncalc/pkg/history"
	"intlab/rpncalc/pkg/history/recorder"
	"intlab/rpncalc/pkg/history/retention"
	"intlab/rpncalc/pkg/history/storage"
	"intlab/rpncalc/pkg/security/auth"
	"intlab/rpncalc/pkg/server"
	"intlab/rpncalc/pkg/telemetry/health"
	"intlab/rpncalc/pkg/telemetry/logging"
	"intlab/rpncalc/pkg/telemetry/metrics"
	"intlab/rpncalc/pkg/telemetry/tracing"
	"intlab/rpncalc/pkg/watch"
)

var serveFlags struct {
	listenAddress string
	logLevel      string
	watchConfig   bool
	dryRun        bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP calculation service",
	Long: `Start the HTTP service with the specified configuration.

Endpoints:
  POST /v1/calculate   {"expression": "..."}
  POST /v1/convert     {"expression": "..."}
  POST /v1/evaluate    {"postfix": "..."}
  GET  /v1/history     (when history is enabled)
  GET  /health, /ready, /version and the metrics path

The /v1 endpoints honor server.rate_limit (429 when exceeded) and, when
server.auth is enabled, require an API key (401 otherwise). Setting
server.tls.enabled serves HTTPS; renewed certificates are picked up
without a restart.

Examples:
  # Start with default config
  rpncalc serve

  # Override listen address
  rpncalc serve --listen 0.0.0.0:8080

  # Reload calculator settings when the config file changes
  rpncalc serve --config rpncalc.yaml --watch-config

  # Validate config without starting server
  rpncalc serve --dry-run`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
	serveCmd.Flags().StringVar(&serveFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	serveCmd.Flags().BoolVar(&serveFlags.watchConfig, "watch-config", false, "reload calculator settings when the config file changes")
	serveCmd.Flags().BoolVar(&serveFlags.dryRun, "dry-run", false, "validate config without starting server")
}

// engineCanary lets the readiness check follow calculator reloads.
type engineCanary struct{ eng *engine.Engine }

func (c engineCanary) Calculate(expression string) (float64, error) {
	return c.eng.Calculator().Calculate(expression)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := appConfig

	if serveFlags.listenAddress != "" {
		cfg.Server.ListenAddress = serveFlags.listenAddress
	}
	if serveFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = serveFlags.logLevel
		logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging, cmd.ErrOrStderr()))
		if err != nil {
			return cli.NewConfigError("log-level", err.Error())
		}
		logger.SetDefault()
	}
	if err := config.Validate(cfg); err != nil {
		return cli.NewConfigError("", err.Error())
	}

	var keys *auth.APIKeyValidator
	if cfg.Server.Auth.Enabled {
		var err error
		if keys, err = auth.NewAPIKeyValidator(cfg.Server.Auth.Keys); err != nil {
			return cli.NewConfigError("server.auth.keys", err.Error())
		}
	}

	out := cmd.OutOrStdout()
	if serveFlags.dryRun {
		fmt.Fprintln(out, "✓ Configuration valid")
		return nil
	}

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	logger := slog.Default()
	fmt.Fprintf(out, "rpncalc v%s\n", Version)

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)

	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
	if err != nil {
		return cli.NewCommandError("serve", fmt.Errorf("failed to initialize tracing: %w", err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("failed to shut down tracer", "error", err)
		}
	}()

	// History recording (if enabled)
	var store history.Storage
	var rec engine.Recorder
	if cfg.History.Enabled {
		logger.Info("initializing history", "driver", cfg.History.Driver, "path", cfg.History.Path)

		store, err = storage.Open(&cfg.History)
		if err != nil {
			return cli.NewCommandError("serve", err)
		}
		defer store.Close()

		historyRecorder := recorder.NewRecorder(store, recorder.ConfigFrom(&cfg.History), collector)
		defer historyRecorder.Close()
		rec = historyRecorder

		if cfg.History.Retention.PruneSchedule != "" {
			pruner := retention.NewPruner(store, retention.ConfigFrom(&cfg.History.Retention), collector)
			if err := pruner.Start(ctx); err != nil {
				logger.Warn("failed to start retention scheduler", "error", err)
			} else {
				defer pruner.Stop()
				if next := pruner.NextPruning(); next != nil {
					logger.Debug("history retention scheduler started", "next_pruning", next)
				}
			}
		}

		fmt.Fprintln(out, "✓ History store initialized")
	}

	eng := engine.New(engine.Options{
		Calculator: cfg.Calculator,
		Recorder:   rec,
		Metrics:    collector,
		Tracer:     tracer,
		Logger:     logger,
	})

	checker := health.New(2 * time.Second)
	checker.RegisterCheck("calculator", health.CalculatorCheck(engineCanary{eng}))
	if store != nil {
		checker.RegisterCheck("history", health.PingCheck(store))
	}

	if serveFlags.watchConfig {
		if err := watchConfigFile(ctx, cfgFile, cfg.Watch.DebounceInterval, eng, keys, logger); err != nil {
			return cli.NewCommandError("serve", err)
		}
		fmt.Fprintf(out, "✓ Watching %s for changes\n", cfgFile)
	}

	metricsPath := ""
	if cfg.Telemetry.Metrics.Enabled {
		metricsPath = cfg.Telemetry.Metrics.Path
	}

	srv := server.New(&cfg.Server, server.Dependencies{
		Engine:      eng,
		Store:       store,
		Checker:     checker,
		Metrics:     collector,
		Tracer:      tracer,
		Logger:      logger,
		MetricsPath: metricsPath,
		Build:       server.BuildInfo{Version: Version, Commit: GitCommit, BuildTime: BuildDate},
		APIKeys:     keys,
	})

	scheme := "http"
	if cfg.Server.TLS.Enabled {
		scheme = "https"
	}
	fmt.Fprintf(out, "✓ Server listening on %s://%s\n", scheme, cfg.Server.ListenAddress)
	fmt.Fprintln(out, "\nPress Ctrl+C to stop")

	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("serve", err)
	}

	fmt.Fprintln(out, "✓ Server stopped")
	return nil
}

// watchConfigFile reloads the configuration on change and applies the
// calculator section to eng and the API keys to keys, when auth is on.
// Other sections need a restart.
func watchConfigFile(ctx context.Context, path string, debounce time.Duration, eng *engine.Engine, keys *auth.APIKeyValidator, logger *slog.Logger) error {
	watcher, err := watch.NewFileWatcher(&watch.Config{Path: path, DebounceInterval: debounce}, logger)
	if err != nil {
		return fmt.Errorf("failed to watch config: %w", err)
	}

	go func() {
		err := watcher.Watch(ctx, func(changed string) error {
			cfg, prev, err := config.ReloadConfig(path)
			if err != nil {
				return err
			}
			if sections := config.RestartRequired(prev, cfg); len(sections) > 0 {
				logger.Warn("configuration changes require a restart", "sections", sections)
			}
			if keys != nil {
				next, err := auth.NewAPIKeyValidator(cfg.Server.Auth.Keys)
				if err != nil {
					return err
				}
				keys.Replace(next)
			}
			eng.Apply(cfg.Calculator)
			logger.Info("configuration reloaded",
				"path", path,
				"lenient_operands", cfg.Calculator.LenientOperands,
				"max_expression_length", cfg.Calculator.MaxExpressionLength,
			)
			return nil
		})
		if err != nil {
			logger.Error("config watcher stopped", "error", err)
		}
	}()
	return nil
}

package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/navshell/internal/app"
	"github.com/vango-dev/navshell/internal/config"
	"github.com/vango-dev/navshell/pkg/bridge"
	"github.com/vango-dev/navshell/pkg/metrics"
	"github.com/vango-dev/navshell/pkg/storage"
)

type serveOptions struct {
	dir     string
	envFile string
	addr    string
	backend string
}

func serveCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the shell server",
		Long: `Start the HTTP and WebSocket server.

Configuration is read from navshell.json in --dir (defaults apply when the
file is missing), then from NAVSHELL_* environment variables. Variables in
--env-file are loaded first and never override the real environment.

Examples:
  navshell serve
  navshell serve --addr=:3000
  NAVSHELL_STORAGE_BACKEND=redis NAVSHELL_REDIS_ADDR=localhost:6379 navshell serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.dir, "dir", "d", ".", "Directory containing navshell.json")
	cmd.Flags().StringVar(&opts.envFile, "env-file", ".env", "Environment file to load")
	cmd.Flags().StringVarP(&opts.addr, "addr", "a", "", "Listen address (default from config)")
	cmd.Flags().StringVar(&opts.backend, "storage", "", "Storage backend: memory, redis, sql or s3")

	return cmd
}

func loadConfig(opts serveOptions) (*config.Config, error) {
	if err := config.LoadDotEnv(opts.envFile); err != nil {
		return nil, err
	}
	cfg, err := config.LoadOrDefault(opts.dir)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if opts.addr != "" {
		cfg.Server.Address = opts.addr
	}
	if opts.backend != "" {
		cfg.Storage.Backend = opts.backend
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg config.LogConfig, level slog.Level, w io.Writer) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}

// newMetrics builds the process-wide collectors. Routers of every
// connection share them.
func newMetrics(cfg config.MetricsConfig) (*metrics.Metrics, prometheus.Gatherer) {
	if !cfg.Enabled {
		return nil, nil
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(
		metrics.WithNamespace(cfg.Namespace),
		metrics.WithRegistry(reg),
	)
	return m, reg
}

func runServe(ctx context.Context, opts serveOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Log, cfg.SlogLevel(), os.Stderr)
	slog.SetDefault(logger)

	if cfg.Tracing.Enabled {
		shutdown := setupTracing(logger)
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Warn("tracer shutdown failed", "error", err)
			}
		}()
	}

	m, gatherer := newMetrics(cfg.Metrics)

	backend, closer, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer closer.Close()

	srv := bridge.New(&bridge.ServerConfig{
		Address:         cfg.Server.Address,
		ShutdownTimeout: cfg.ShutdownDuration(),
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		Title:           "navshell",
		Backend:         backend,
		StoragePrefix:   cfg.Storage.Prefix,
		Metrics:         m,
		Gatherer:        gatherer,
		Logger:          logger,
	}, app.Factory())

	success("navshell listening on %s", cfg.Server.Address)
	info("storage: %s", cfg.Storage.Backend)
	if gatherer != nil {
		info("metrics: /metrics")
	}
	return srv.ListenAndServe(ctx)
}

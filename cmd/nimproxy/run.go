package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"nimproxy/pkg/cli"
	"nimproxy/pkg/config"
	"nimproxy/pkg/server"
	"nimproxy/pkg/stats"
	"nimproxy/pkg/telemetry/logging"
	"nimproxy/pkg/telemetry/metrics"
	"nimproxy/pkg/telemetry/reporter"
	"nimproxy/pkg/telemetry/tracing"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
	watch         bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the gateway",
	Long: `Start the gateway with the specified configuration.

The server listens on the configured address (PORT, default 3000) and
forwards chat-completion requests to the configured upstream API.

Examples:
  # Start with defaults and environment
  nimproxy run

  # Start with a config file and reload it on change
  nimproxy run --config /etc/nimproxy/nimproxy.yaml --watch

  # Override listen address
  nimproxy run --listen 0.0.0.0:8080

  # Validate config without starting server
  nimproxy run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
	runCmd.Flags().BoolVarP(&runFlags.watch, "watch", "w", false, "reload the config file when it changes")
}

func runServer(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, path, err := loadConfig()
	if err != nil {
		return err
	}

	// Apply flag overrides
	if runFlags.listenAddress != "" {
		cfg.Proxy.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return cli.WrapConfigError(err)
	}

	logger, err := logging.Setup(cfg.Telemetry.Logging, os.Stdout)
	if err != nil {
		return cli.WrapConfigError(err)
	}

	if runFlags.dryRun {
		fmt.Fprintln(out, "✓ Configuration valid")
		return nil
	}

	printBanner(out, cfg, path)

	ctx, stop := cli.SetupSignalHandler(commandContext(cmd))
	defer stop()

	gateway := stats.New()
	live := config.NewLive(cfg, path)

	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
		collector.RegisterGateway(gateway)
	}

	if cfg.Telemetry.Reporter.Enabled {
		rep := reporter.New(cfg.Telemetry.Reporter.Schedule, gateway, logger)
		if err := rep.Start(ctx); err != nil {
			return cli.WrapConfigError(err)
		}
		defer rep.Stop()
	}

	tracer, err := tracing.New(&cfg.Telemetry.Tracing, Version)
	if err != nil {
		return cli.NewCommandError("run", fmt.Errorf("failed to initialize tracing: %w", err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Telemetry.Tracing.Timeout)
		defer cancel()
		if err := tracer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("failed to flush traces", "error", err)
		}
	}()
	if tracer.Enabled() {
		logger.Info("tracing enabled",
			"endpoint", cfg.Telemetry.Tracing.Endpoint,
			"sampler", cfg.Telemetry.Tracing.Sampler,
		)
	}

	if runFlags.watch {
		startWatcher(ctx, live, logger)
	}

	srv := server.NewServer(live, gateway, collector, server.WithTracer(tracer))

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(ctx)
	}()

	select {
	case <-srv.Ready():
	case err := <-errChan:
		return cli.NewCommandError("run", err)
	}

	addr := srv.Addr().String()
	fmt.Fprintln(out)
	fmt.Fprintf(out, "✓ Server listening on %s\n", addr)
	fmt.Fprintf(out, "✓ OpenAI base URL: http://%s/v1\n", addr)
	fmt.Fprintf(out, "✓ Health endpoint: http://%s/health\n", addr)
	if collector != nil {
		fmt.Fprintf(out, "✓ Metrics endpoint: http://%s%s\n", addr, collector.Path())
	}
	fmt.Fprintln(out, "\nPress Ctrl+C to stop")

	if err := <-errChan; err != nil {
		return cli.NewCommandError("run", err)
	}

	fmt.Fprintln(out, "✓ Server stopped")
	return nil
}

// startWatcher reloads the configuration file in the background until ctx
// is cancelled. Without a file there is nothing to watch.
func startWatcher(ctx context.Context, live *config.Live, logger *slog.Logger) {
	if live.Path() == "" {
		logger.Warn("--watch ignored: no configuration file in use")
		return
	}

	watcher, err := config.NewWatcher(live, config.DefaultDebounceInterval, logger)
	if err != nil {
		logger.Error("failed to start configuration watcher", "error", err)
		return
	}
	startup := live.Get()
	watcher.OnReload = func(err error) {
		if err != nil {
			return
		}
		cfg := live.Get()
		if cfg.Proxy.ListenAddress != startup.Proxy.ListenAddress ||
			cfg.Telemetry.Logging != startup.Telemetry.Logging ||
			cfg.Telemetry.Tracing != startup.Telemetry.Tracing {
			logger.Warn("listen address, logging and tracing changes take effect after a restart")
		}
	}

	go func() {
		if err := watcher.Watch(ctx); err != nil {
			logger.Error("configuration watcher exited", "error", err)
		}
	}()
}

func printBanner(out io.Writer, cfg *config.Config, path string) {
	fmt.Fprintf(out, "nimproxy v%s\n", Version)
	if path != "" {
		fmt.Fprintf(out, "Loading configuration from: %s\n", path)
	} else {
		fmt.Fprintln(out, "No configuration file, using defaults and environment")
	}
	fmt.Fprintln(out, "✓ Configuration loaded")
	fmt.Fprintf(out, "✓ Upstream: %s\n", cfg.Upstream.BaseURL)
	fmt.Fprintf(out, "✓ Default model: %s\n", cfg.Upstream.DefaultModel)
	if cfg.Upstream.APIKey == "" {
		fmt.Fprintln(out, "! No default API key; callers must send Authorization: Bearer <key>")
	}
}

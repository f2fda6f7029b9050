package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/statekit-dev/statekit/pkg/counter"
	"github.com/statekit-dev/statekit/pkg/middleware"
	"github.com/statekit-dev/statekit/pkg/persist"
	"github.com/statekit-dev/statekit/pkg/server"
	"github.com/statekit-dev/statekit/pkg/store"
)

func serveCmd() *cobra.Command {
	var (
		configFile string
		address    string
		logLevel   string
		logFormat  string
		noMetrics  bool
		snapshot   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the sync server",
		Long: `Run the sync server exposing the counter store over WebSocket.

Configuration is read from statekit.yaml (or the file given with
--config), overridable per key via flags and STATEKIT_* environment
variables. Recognized keys:

  server.address   listen address           (default ":8420")
  server.metrics   expose /metrics          (default true)
  log.level        debug|info|warn|error    (default "info")
  log.format       text|json                (default "text")
  snapshot.dir     optional directory for counter snapshots

Examples:
  statekit serve
  statekit serve --address=:9000 --log-level=debug
  statekit serve --snapshot-dir=./data`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFile)
			if err != nil {
				return err
			}

			if address != "" {
				cfg.Set("server.address", address)
			}
			if logLevel != "" {
				cfg.Set("log.level", logLevel)
			}
			if logFormat != "" {
				cfg.Set("log.format", logFormat)
			}
			if noMetrics {
				cfg.Set("server.metrics", false)
			}
			if snapshot != "" {
				cfg.Set("snapshot.dir", snapshot)
			}

			return runServe(cfg)
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "Config file (default statekit.yaml)")
	cmd.Flags().StringVarP(&address, "address", "a", "", "Listen address")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&logFormat, "log-format", "", "Log format (text, json)")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "Disable the /metrics endpoint")
	cmd.Flags().StringVar(&snapshot, "snapshot-dir", "", "Directory for counter snapshots")

	return cmd
}

func loadConfig(configFile string) (*viper.Viper, error) {
	v := viper.New()

	v.SetDefault("server.address", ":8420")
	v.SetDefault("server.metrics", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("snapshot.dir", "")

	v.SetEnvPrefix("STATEKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	} else {
		v.SetConfigName("statekit")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			// A missing default config file is fine.
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	return v, nil
}

func newLogger(cfg *viper.Viper) (*slog.Logger, error) {
	var level slog.Level
	switch cfg.GetString("log.level") {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level %q", cfg.GetString("log.level"))
	}

	opts := &slog.HandlerOptions{Level: level}
	switch cfg.GetString("log.format") {
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.GetString("log.format"))
	}
}

func runServe(cfg *viper.Viper) error {
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	storeOpts := []store.Option[counter.State]{
		store.WithMiddleware[counter.State](
			middleware.Logging(logger.With("store", "counter")),
			middleware.Prometheus(middleware.WithStoreLabel("counter")),
		),
	}
	counterStore := counter.NewStore(storeOpts...)

	if dir := cfg.GetString("snapshot.dir"); dir != "" {
		restored, cleanup, err := restoreCounter(dir, counterStore, storeOpts)
		if err != nil {
			return err
		}
		counterStore = restored
		defer cleanup()
	}

	srv := server.New(&server.Config{
		Address:       cfg.GetString("server.address"),
		EnableMetrics: cfg.GetBool("server.metrics"),
	})
	srv.SetLogger(logger.With("component", "server"))
	srv.Register(server.Target(counterStore, counter.DecodeAction))

	printBanner()
	success("serving counter store on %s", cfg.GetString("server.address"))
	if cfg.GetBool("server.metrics") {
		info("metrics at /metrics")
	}
	info("sync endpoint at /sync/counter")

	return srv.Run()
}

// restoreCounter seeds the counter store from the latest snapshot and keeps
// the snapshot current while the server runs.
func restoreCounter(dir string, base *store.Store[counter.State], opts []store.Option[counter.State]) (*store.Store[counter.State], func(), error) {
	backend, err := persist.NewFileStore(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening snapshot dir: %w", err)
	}

	ctx := context.Background()
	snap := persist.NewSnapshotter(base, backend, "counter")
	state, err := snap.Restore(ctx)
	switch {
	case err == nil:
		base = counter.NewStoreFrom(state, opts...)
		info("restored counter snapshot: count=%d", state.Count)
	case persist.IsNotFound(err):
		// First run, start from zero.
	default:
		backend.Close()
		return nil, nil, fmt.Errorf("restoring snapshot: %w", err)
	}

	watch := persist.NewSnapshotter(base, backend, "counter")
	cancel := watch.Watch()

	cleanup := func() {
		cancel()
		backend.Close()
	}
	return base, cleanup, nil
}

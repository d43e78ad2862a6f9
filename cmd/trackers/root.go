package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/teviroff/trackers/internal/config"
	"github.com/teviroff/trackers/internal/logging"
	"github.com/teviroff/trackers/progress"
	"github.com/teviroff/trackers/progress/sinks"
)

var cfgFile string

// appKeyType is the key for storing the app in the command context.
type appKeyType string

const appKey appKeyType = "app"

// app holds the long-lived services shared by the demo subcommands: loaded
// configuration, the zap logger, the progress hub, and (optionally) the
// Prometheus registry backing the metrics sink.
type app struct {
	cfg      config.Config
	logger   *zap.Logger
	hub      *progress.Hub
	registry *prometheus.Registry
}

// newApp is the application factory. It is a variable so tests can replace it
// with a mock factory.
var newApp = func() (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	sinkList := []progress.Sink{sinks.NewLogSink(logger)}
	var registry *prometheus.Registry
	if cfg.Metrics.Enabled {
		registry = prometheus.NewRegistry()
		promSink, err := sinks.NewPrometheusSink(registry)
		if err != nil {
			return nil, fmt.Errorf("init prometheus sink: %w", err)
		}
		sinkList = append(sinkList, promSink)
	}

	hub := progress.NewHub(progress.Config{
		BufferSize:     cfg.Progress.BufferSize,
		MaxBatchEvents: cfg.Progress.MaxBatchEvents,
		MaxBatchWait:   cfg.Progress.MaxBatchWait,
		SinkTimeout:    cfg.Progress.SinkTimeout,
		Logger:         logger,
	}, sinkList...)

	return &app{cfg: cfg, logger: logger, hub: hub, registry: registry}, nil
}

func (a *app) close(ctx context.Context) {
	if err := a.hub.Close(ctx); err != nil {
		a.logger.Warn("progress hub close failed", zap.Error(err))
	}
	if a.registry != nil {
		a.reportMetrics()
	}
	_ = a.logger.Sync() // best-effort flush
}

// reportMetrics logs the gathered collector state after a demo run. There is
// no HTTP listener to scrape, so this is how the sink's output surfaces.
func (a *app) reportMetrics() {
	families, err := a.registry.Gather()
	if err != nil {
		a.logger.Warn("gather metrics failed", zap.Error(err))
		return
	}
	for _, mf := range families {
		a.logger.Info("metric family",
			zap.String("name", mf.GetName()),
			zap.Int("series", len(mf.GetMetric())),
		)
	}
}

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trackers",
		Short: "Demos for the trackers progress-reporting library.",
		Long: `trackers demonstrates loop progress reporting: wrap a loop and each
iteration prints a line like "(1/10) lazy loop - 1.08s". The for, while, and
task subcommands exercise the three tracker flavors.`,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := newApp()
			if err != nil {
				return fmt.Errorf("failed to initialize services: %w", err)
			}
			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			cmd.SetContext(ctx)
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if appInstance, ok := cmd.Context().Value(appKey).(*app); ok && appInstance != nil {
				appInstance.close(cmd.Context())
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	cmd.AddCommand(newForCmd())
	cmd.AddCommand(newWhileCmd())
	cmd.AddCommand(newTaskCmd())

	return cmd
}

func resolveApp(ctx context.Context) (*app, error) {
	appInstance, ok := ctx.Value(appKey).(*app)
	if !ok || appInstance == nil {
		return nil, errors.New("services not initialized")
	}
	return appInstance, nil
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/aretw0/roomtag"
	"github.com/aretw0/roomtag/internal/config"
	labelsource "github.com/aretw0/roomtag/pkg/adapters/lifecycle"
	"github.com/aretw0/roomtag/pkg/core"
)

var (
	runTicks     uint64
	runInterval  time.Duration
	runMetrics   string
	runReconcile uint64
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Tick every saved map until interrupted",
	Long: `Load every save and advance the world on a fixed interval, running periodic
reconciliation. Directory events are logged, the settings file is watched for changes
and every map is saved on exit.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger := slog.Default()
		events := make(chan core.Event, 64)
		opts := []roomtag.Option{roomtag.WithEvents(events)}
		if runReconcile > 0 {
			opts = append(opts, roomtag.WithReconcileEvery(runReconcile))
		}

		var registry *prometheus.Registry
		if runMetrics != "" {
			registry = prometheus.NewRegistry()
			registry.MustRegister(collectors.NewGoCollector())
			opts = append(opts, roomtag.WithMetrics(registry))
		}

		svc, dir := openService(opts...)
		defer svc.Close()

		summaries, err := svc.Summaries(ctx, "")
		if err != nil {
			fatal("Failed to list saves", err)
		}
		if len(summaries) == 0 {
			fatal("Nothing to run", errors.New("no saves found, try 'roomtag init'"))
		}
		for _, s := range summaries {
			if _, err := svc.Load(ctx, s.ID); err != nil {
				fatal("Failed to load "+s.ID, err)
			}
		}
		logger.Info("maps loaded", "count", len(summaries), "dir", dir)

		source := labelsource.NewSource(events)
		if err := source.Start(ctx); err != nil {
			fatal("Failed to start event source", err)
		}
		lifecycle.Go(ctx, func(ctx context.Context) error {
			for e := range source.Events() {
				logger.Info("directory event", "event", e.String())
			}
			return nil
		})

		watcher, err := config.Watch(ctx, settingsPath(dir), func(s core.Settings) {
			if err := svc.SetSettings(s); err != nil {
				logger.Warn("settings rejected", "error", err)
			}
		}, config.WithLogger(logger))
		if err != nil {
			logger.Warn("settings will not be reloaded", "error", err)
		} else {
			defer watcher.Stop(context.Background())
		}

		if registry != nil {
			server := &http.Server{
				Addr:              runMetrics,
				Handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
				ReadHeaderTimeout: 5 * time.Second,
			}
			lifecycle.Go(ctx, func(ctx context.Context) error {
				logger.Info("serving metrics", "addr", runMetrics)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("metrics server failed", "error", err)
					return err
				}
				return nil
			})
			defer server.Shutdown(context.Background())
		}

		if err := svc.Run(ctx, runTicks, runInterval); err != nil && !errors.Is(err, context.Canceled) {
			fatal("World stopped", err)
		}
		logger.Info("world stopped, maps saved")
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Uint64Var(&runTicks, "ticks", 0, "Stop after this many ticks (0 runs until interrupted)")
	runCmd.Flags().DurationVar(&runInterval, "interval", 100*time.Millisecond, "Time between ticks")
	runCmd.Flags().StringVar(&runMetrics, "metrics", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	runCmd.Flags().Uint64Var(&runReconcile, "reconcile-every", 0, "Ticks between reconciliation passes (default from settings)")
}

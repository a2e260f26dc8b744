// regmon monitors the push registers of a simulated device.
//
// It waits for updates on all watched registers at once, reports each
// generation that every register received with the same version number and
// writes the mean of that set to the control registers.
//
// Usage:
//
//	regmon --map board.yaml [--watch adc/ch0,adc/ch1] [--controls ctrl/setpoint]
//	regmon --config regmon.yaml --trace run.xtrace --metrics-addr :9102
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/devaccess/devaccess-go/pkg/dummy"
	"github.com/devaccess/devaccess-go/pkg/metrics"
	"github.com/devaccess/devaccess-go/pkg/trace"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "regmon",
		Short:         "Monitor consistent register sets of a simulated device",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg, cmd.ErrOrStderr())
		},
	}
	addFlags(cmd.Flags())
	return cmd
}

func run(ctx context.Context, cfg *Config, out io.Writer) error {
	level, err := cfg.level()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))

	var loggers []trace.Logger
	if level <= slog.LevelDebug {
		loggers = append(loggers, trace.NewSlogAdapter(logger))
	}
	if cfg.Trace != "" {
		fl, err := trace.NewFileLogger(cfg.Trace)
		if err != nil {
			return fmt.Errorf("open trace file: %w", err)
		}
		defer fl.Close()
		loggers = append(loggers, fl)
	}

	var reg *prometheus.Registry
	if cfg.MetricsAddr != "" {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector())
		m, err := metrics.New(reg)
		if err != nil {
			return err
		}
		loggers = append(loggers, m)
	}

	var tl trace.Logger
	if len(loggers) > 0 {
		tl = trace.NewMultiLogger(loggers...)
	}

	dev, err := dummy.Open(cfg.Map,
		dummy.WithLogger(logger),
		dummy.WithTrace(tl),
		dummy.WithQueueLength(cfg.QueueLength),
	)
	if err != nil {
		return err
	}
	defer dev.Close()

	mon, err := NewMonitor(dev, cfg, logger, tl)
	if err != nil {
		return err
	}

	if cfg.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Duration)
		defer cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	if cfg.Interval > 0 {
		sim := newSimulator(dev, watchedNames(mon), cfg, logger)
		g.Go(func() error { return sim.run(gctx) })
	}
	if reg != nil {
		srv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			logger.Info("serving metrics", "addr", cfg.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			return srv.Shutdown(shutdownCtx)
		})
	}
	g.Go(func() error {
		defer cancel()
		return mon.Run(gctx)
	})

	err = g.Wait()
	s := mon.Stats()
	logger.Info("stopped", "updates", s.Updates, "consistent_sets", s.ConsistentSets, "writes", s.Writes)
	return err
}

func watchedNames(m *Monitor) []string {
	names := make([]string, 0, len(m.watched))
	for _, a := range m.watched {
		names = append(names, a.TransferElement().Name())
	}
	return names
}

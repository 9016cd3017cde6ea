package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/roach88/sotastats/internal/feed"
	"github.com/roach88/sotastats/internal/ingest"
	"github.com/roach88/sotastats/internal/metrics"
	"github.com/roach88/sotastats/internal/normalize"
	"github.com/roach88/sotastats/internal/scheduler"
	"github.com/roach88/sotastats/internal/server"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions

	// IDs overrides the run id generator (for testing).
	// If nil, the scheduler uses UUIDv7.
	IDs scheduler.IDGenerator
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Poll the SOTA API and write reports",
		Long: `Start the unattended poller.

Every clock hour the recent spots are fetched and stored. When the UTC
date changes the previous day's summary is appended to the report file;
when the month changes the monthly spot summary is written, the summit
catalog is refreshed and the summit activation report follows.

Example:
  sotastats run --config ./sotastats.yaml
  SOTASTATS_ASSOCIATION=W7A sotastats run --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPoller(opts, cmd)
		},
	}

	return cmd
}

func runPoller(opts *RunOptions, cmd *cobra.Command) error {
	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}

	dp, err := normalize.ParseLocale(cfg.Locale)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid locale", err)
	}
	slog.Debug("frequency locale", "tag", dp.Tag())

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore(st)
	slog.Info("database ready", "spots_table", cfg.SpotsTable, "summits_table", cfg.SummitsTable)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	rep, err := newReporter(cfg, st, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	client := feed.NewClient(feed.Config{
		Server:        cfg.Server,
		Association:   cfg.Association,
		LookbackHours: cfg.LookbackHours,
		UserAgent:     cfg.UserAgent,
		Timeout:       cfg.RequestTimeout,
		MaxRetries:    cfg.MaxRetries,
		Backoff:       cfg.Backoff,
	}, m)

	pipeline := ingest.New(normalize.New(dp), ingest.FromStore(st), ingest.Config{
		Association: cfg.Association,
		StoreAll:    cfg.StoreAll,
	}, m)

	deps := scheduler.Deps{
		Feed:     client,
		Ingester: pipeline,
		Reporter: rep,
		Refresh:  st,
		Metrics:  m,
	}
	if cfg.Stats != "" {
		deps.Stats = metrics.NewStatsLog(cfg.Stats)
	}

	schedOpts := []scheduler.Option{scheduler.WithInterval(cfg.PollInterval)}
	if opts.IDs != nil {
		schedOpts = append(schedOpts, scheduler.WithIDGenerator(opts.IDs))
	}
	sched := scheduler.New(deps, schedOpts...)

	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	srvDone := make(chan struct{})
	if cfg.MetricsAddr != "" {
		srv := server.New(cfg.MetricsAddr, cfg.Association, st, reg)
		go func() {
			defer close(srvDone)
			slog.Info("status server listening", "addr", cfg.MetricsAddr)
			if err := srv.Run(ctx); err != nil {
				slog.Error("status server stopped", "error", err)
			}
		}()
	} else {
		close(srvDone)
	}

	slog.Info("poller starting", "server", cfg.Server, "association", cfg.Association, "interval", cfg.PollInterval)
	fmt.Fprintf(cmd.OutOrStdout(), "Polling %s for %s.\n", cfg.Server, cfg.Association)
	fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl-C to stop.")

	runErr := sched.Run(ctx)
	cancel()

	select {
	case <-srvDone:
	case <-time.After(10 * time.Second):
		slog.Warn("status server did not stop in time")
	}

	if runErr != nil {
		return WrapExitError(ExitFailure, "poller error", runErr)
	}
	slog.Info("poller stopped gracefully")
	return nil
}

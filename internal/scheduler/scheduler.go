package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/roach88/sotastats/internal/ingest"
	"github.com/roach88/sotastats/internal/metrics"
	"github.com/roach88/sotastats/internal/model"
)

// DefaultInterval is the sleep between ticks.
const DefaultInterval = time.Second

// Feed fetches raw records from the SOTA API.
type Feed interface {
	FetchSpots(ctx context.Context) ([]model.RawRecord, error)
	FetchSummits(ctx context.Context) ([]model.RawRecord, error)
}

// Ingester writes normalized records to the store.
type Ingester interface {
	Spots(ctx context.Context, raws []model.RawRecord) (ingest.Summary, error)
	Summits(ctx context.Context, raws []model.RawRecord, refreshed time.Time) (ingest.Summary, error)
}

// Reporter renders report sections.
type Reporter interface {
	Daily(ctx context.Context, day time.Time) error
	MonthlySpots(ctx context.Context, year int, month time.Month) error
	MonthlySummits(ctx context.Context, year int, month time.Month) error
	CatalogUnavailable(ctx context.Context, year int, month time.Month, reason error) error
}

// RefreshSource reports the newest stored snapshot time.
type RefreshSource interface {
	LatestRefresh(ctx context.Context) (time.Time, bool, error)
}

// StatsRecorder logs the size of each spot query.
type StatsRecorder interface {
	Record(t time.Time, count int) error
}

// Deps are the collaborators the scheduler drives.
type Deps struct {
	Feed     Feed
	Ingester Ingester
	Reporter Reporter
	Refresh  RefreshSource
	Stats    StatsRecorder       // optional
	Metrics  *metrics.Collectors // optional
}

// Firing records which triggers a tick fired.
type Firing struct {
	RunID string
	At    time.Time

	Ingest  bool
	Daily   bool
	Monthly bool

	// CatalogRefreshed is set when the monthly catalog refresh committed.
	CatalogRefreshed bool

	// Refreshed is the snapshot time used for the catalog refresh.
	Refreshed time.Time
}

// Fired reports whether any trigger fired.
func (f Firing) Fired() bool {
	return f.Ingest || f.Daily || f.Monthly
}

// Scheduler is the boundary-crossing control loop.
type Scheduler struct {
	deps     Deps
	clock    Clock
	interval time.Duration
	ids      IDGenerator
	log      *slog.Logger

	previous    time.Time
	hasPrevious bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

// WithInterval sets the sleep between ticks.
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithPrevious seeds the previous-tick time, as if a tick had run at t.
func WithPrevious(t time.Time) Option {
	return func(s *Scheduler) {
		s.previous = t.UTC()
		s.hasPrevious = true
	}
}

// WithIDGenerator replaces the run id generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Scheduler) { s.ids = g }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) { s.log = l }
}

// New creates a scheduler.
func New(deps Deps, opts ...Option) *Scheduler {
	s := &Scheduler{
		deps:     deps,
		clock:    SystemClock{},
		interval: DefaultInterval,
		ids:      UUIDv7Generator{},
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Previous returns the previous tick time, if any tick has run.
func (s *Scheduler) Previous() (time.Time, bool) {
	return s.previous, s.hasPrevious
}

// Run ticks until ctx is cancelled. Cancellation is only observed between
// ticks.
func (s *Scheduler) Run(ctx context.Context) error {
	s.log.Info("scheduler started", "interval", s.interval)
	for {
		if err := ctx.Err(); err != nil {
			s.log.Info("scheduler stopped", "reason", err)
			return nil
		}
		s.Tick(ctx, s.clock.Now())

		select {
		case <-ctx.Done():
		case <-s.clock.After(s.interval):
		}
	}
}

// Tick evaluates every trigger against now and then records now as the
// previous tick.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) Firing {
	now = now.UTC()
	prev, has := s.previous, s.hasPrevious

	f := Firing{
		At:      now,
		Ingest:  !has || now.Hour() != prev.Hour(),
		Daily:   has && now.Day() != prev.Day(),
		Monthly: has && now.Month() != prev.Month(),
	}
	if f.Fired() {
		f.RunID = s.ids.Generate()
		log := s.log.With("run_id", f.RunID)
		log.Debug("triggers fired", "ingest", f.Ingest, "daily", f.Daily, "monthly", f.Monthly, "previous", prev)

		if f.Ingest {
			s.timed("ingest", func() error { return s.ingest(ctx, log, now) })
		}
		if f.Daily {
			s.timed("daily", func() error { return s.daily(ctx, log, prev) })
		}
		if f.Monthly {
			s.timed("monthly", func() error { return s.monthly(ctx, log, now, prev, &f) })
		}
	}

	s.previous, s.hasPrevious = now, true
	return f
}

func (s *Scheduler) timed(trigger string, fn func() error) {
	start := time.Now()
	err := fn()
	s.deps.Metrics.ObserveFiring(trigger, time.Since(start), err)
}

func (s *Scheduler) ingest(ctx context.Context, log *slog.Logger, now time.Time) error {
	raws, err := s.deps.Feed.FetchSpots(ctx)
	if err != nil {
		log.Warn("spot fetch failed, skipping cycle", "error", err)
		return err
	}
	if s.deps.Stats != nil {
		if err := s.deps.Stats.Record(now, len(raws)); err != nil {
			log.Warn("query stats not recorded", "error", err)
		}
	}

	sum, err := s.deps.Ingester.Spots(ctx, raws)
	if err != nil {
		log.Error("spot ingestion failed", "error", err)
		return err
	}
	s.deps.Metrics.Ingested(now, sum.Fetched)
	log.Info("ingestion complete", "fetched", sum.Fetched, "stored", sum.Stored)
	return nil
}

func (s *Scheduler) daily(ctx context.Context, log *slog.Logger, day time.Time) error {
	if err := s.deps.Reporter.Daily(ctx, day); err != nil {
		log.Error("daily report failed", "day", day.Format(model.DateLayout), "error", err)
		return err
	}
	return nil
}

func (s *Scheduler) monthly(ctx context.Context, log *slog.Logger, now, prev time.Time, f *Firing) error {
	year, month := prev.Year(), prev.Month()
	var firstErr error
	keep := func(err error) {
		if firstErr == nil {
			firstErr = err
		}
	}

	if err := s.deps.Reporter.MonthlySpots(ctx, year, month); err != nil {
		log.Error("monthly spot report failed", "error", err)
		keep(err)
	}

	refreshed, err := s.refreshCatalog(ctx, log, now)
	if err != nil {
		log.Warn("catalog refresh failed, skipping summit report", "error", err)
		keep(err)
		if err := s.deps.Reporter.CatalogUnavailable(ctx, year, month, err); err != nil {
			log.Error("summit report warning not written", "error", err)
		}
		return firstErr
	}
	f.CatalogRefreshed = true
	f.Refreshed = refreshed

	if err := s.deps.Reporter.MonthlySummits(ctx, year, month); err != nil {
		log.Error("summit report failed", "error", err)
		keep(err)
	}
	return firstErr
}

// refreshCatalog fetches the summit catalog and appends it as one snapshot
// batch.
func (s *Scheduler) refreshCatalog(ctx context.Context, log *slog.Logger, now time.Time) (time.Time, error) {
	raws, err := s.deps.Feed.FetchSummits(ctx)
	if err != nil {
		return time.Time{}, err
	}

	refreshed, err := s.refreshTime(ctx, now)
	if err != nil {
		return time.Time{}, err
	}
	sum, err := s.deps.Ingester.Summits(ctx, raws, refreshed)
	if err != nil {
		return time.Time{}, err
	}
	log.Info("catalog refreshed", "refreshed", refreshed, "summits", sum.Stored)
	return refreshed, nil
}

// refreshTime returns the snapshot time for a new batch: now, truncated to
// the second, moved past the newest stored snapshot if the clock is behind.
func (s *Scheduler) refreshTime(ctx context.Context, now time.Time) (time.Time, error) {
	t := now.UTC().Truncate(time.Second)
	if s.deps.Refresh == nil {
		return t, nil
	}
	latest, ok, err := s.deps.Refresh.LatestRefresh(ctx)
	if err != nil {
		return time.Time{}, err
	}
	if ok && !t.After(latest) {
		t = latest.Add(time.Second)
	}
	return t, nil
}

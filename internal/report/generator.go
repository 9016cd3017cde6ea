package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/roach88/sotastats/internal/diff"
	"github.com/roach88/sotastats/internal/model"
)

// Querier is the read side of the store the generator depends on.
type Querier interface {
	SpotActivity(ctx context.Context, association string, w model.Window) ([]model.SpotActivity, error)
}

// Evaluator produces the summit deltas for a month.
type Evaluator interface {
	Evaluate(ctx context.Context, w model.Window) (diff.Evaluation, error)
}

// Generator writes report sections for one association.
type Generator struct {
	q           Querier
	eval        Evaluator
	association string
	path        string
	console     io.Writer
	now         func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithConsole mirrors every section to w. Defaults to os.Stdout.
func WithConsole(w io.Writer) Option {
	return func(g *Generator) { g.console = w }
}

// WithClock sets the source of the "Report generated" stamp.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// New creates a generator appending to the report file at path.
func New(q Querier, eval Evaluator, association, path string, opts ...Option) *Generator {
	g := &Generator{
		q:           q,
		eval:        eval,
		association: association,
		path:        path,
		console:     os.Stdout,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Daily writes the spot summary for the UTC calendar date of day.
func (g *Generator) Daily(ctx context.Context, day time.Time) error {
	w := model.DayWindow(day)
	header := dailyHeader(g.association, w)
	return g.spots(ctx, "daily", dailyDivider, header, w)
}

// MonthlySpots writes the spot summary for a calendar month.
func (g *Generator) MonthlySpots(ctx context.Context, year int, month time.Month) error {
	w := model.MonthWindow(year, month)
	header := monthlyHeader(g.association, w)
	return g.spots(ctx, "monthly_spots", monthlyDivider, header, w)
}

// MonthlySummits writes the summit delta report for a calendar month.
// It expects the catalog to have been refreshed just before.
func (g *Generator) MonthlySummits(ctx context.Context, year int, month time.Month) error {
	w := model.MonthWindow(year, month)
	ev, err := g.eval.Evaluate(ctx, w)
	if err != nil {
		return g.queryFailed(ctx, "monthly_summits", monthlyDivider, summitHeader(g.association, w), err)
	}
	slog.InfoContext(ctx, "summit report", "month", w.Begin.Format("2006-01"), "entries", len(ev.Entries))
	return g.append(renderSummits(g.association, ev, g.now()))
}

// CatalogUnavailable writes the summit section with a warning in place of
// the delta table, for months whose catalog refresh failed.
func (g *Generator) CatalogUnavailable(ctx context.Context, year int, month time.Month, reason error) error {
	w := model.MonthWindow(year, month)
	slog.WarnContext(ctx, "summit report skipped", "month", w.Begin.Format("2006-01"), "error", reason)
	warning := fmt.Sprintf("Warning: unable to refresh summit catalog. Reason given: %v", reason)
	return g.append(renderWarning(monthlyDivider, summitHeader(g.association, w), warning, g.now()))
}

func (g *Generator) spots(ctx context.Context, kind, divider, header string, w model.Window) error {
	activity, err := g.q.SpotActivity(ctx, g.association, w)
	if err != nil {
		return g.queryFailed(ctx, kind, divider, header, err)
	}
	slog.InfoContext(ctx, "spot report", "kind", kind, "rows", len(activity), "begin", w.Begin)
	return g.append(renderSpots(divider, header, activity, g.now()))
}

func (g *Generator) queryFailed(ctx context.Context, kind, divider, header string, err error) error {
	slog.WarnContext(ctx, "report query failed", "kind", kind, "error", err)
	warning := fmt.Sprintf("Warning: unable to retrieve results. Reason given: %v", err)
	return g.append(renderWarning(divider, header, warning, g.now()))
}

// append adds text to the report file and mirrors it to the console.
func (g *Generator) append(text string) error {
	f, err := os.OpenFile(g.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open report file: %w", err)
	}
	if _, err := io.WriteString(f, text); err != nil {
		f.Close()
		return fmt.Errorf("write report file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close report file: %w", err)
	}

	if g.console != nil {
		if _, err := io.WriteString(g.console, text); err != nil {
			slog.Debug("console mirror failed", "error", err)
		}
	}
	return nil
}

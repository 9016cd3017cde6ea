package diff

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/sotastats/internal/model"
)

// historyDepth is how many snapshots a delta needs.
const historyDepth = 2

// Querier is the read side of the store the engine depends on.
type Querier interface {
	SummitsActivated(ctx context.Context, w model.Window) ([]model.Summit, error)
	SummitHistory(ctx context.Context, code string, limit int) ([]model.Summit, error)
}

// Entry is one line of the summit report: a Delta, or a marker that the
// summit lacks history.
type Entry struct {
	SummitCode string

	// Delta is nil when the summit has fewer than two snapshots.
	Delta *Delta

	// Cadence is set on the first entry with history when its snapshot
	// spacing is off.
	Cadence *CadenceWarning
}

// Insufficient reports whether the summit lacked history.
func (e Entry) Insufficient() bool {
	return e.Delta == nil
}

// Evaluation is the result of one monthly diff run.
type Evaluation struct {
	Window  model.Window
	Entries []Entry
}

// CadenceWarning returns the run's cadence warning, if any.
func (ev Evaluation) CadenceWarning() *CadenceWarning {
	for _, e := range ev.Entries {
		if e.Cadence != nil {
			return e.Cadence
		}
	}
	return nil
}

// Badges returns the distinct badges that appeared, initial first.
func (ev Evaluation) Badges() []Badge {
	var initial, rare bool
	for _, e := range ev.Entries {
		if e.Delta == nil {
			continue
		}
		switch e.Delta.Badge {
		case BadgeInitial:
			initial = true
		case BadgeRare:
			rare = true
		}
	}
	var out []Badge
	if initial {
		out = append(out, BadgeInitial)
	}
	if rare {
		out = append(out, BadgeRare)
	}
	return out
}

// Engine evaluates summit deltas against a store.
type Engine struct {
	q    Querier
	mode DedupMode
}

// NewEngine creates an engine. An empty mode selects DedupFirst.
func NewEngine(q Querier, mode DedupMode) *Engine {
	if mode == "" {
		mode = DedupFirst
	}
	return &Engine{q: q, mode: mode}
}

// Mode returns the dedup mode in use.
func (e *Engine) Mode() DedupMode {
	return e.mode
}

// Evaluate computes an entry for every candidate summit activated in w.
// Any query error aborts the whole evaluation.
func (e *Engine) Evaluate(ctx context.Context, w model.Window) (Evaluation, error) {
	rows, err := e.q.SummitsActivated(ctx, w)
	if err != nil {
		return Evaluation{}, fmt.Errorf("select candidates: %w", err)
	}
	candidates := Candidates(rows, e.mode)
	slog.Debug("summit candidates",
		"window_begin", w.Begin,
		"rows", len(rows),
		"candidates", len(candidates),
		"dedup", e.mode)

	ev := Evaluation{Window: w, Entries: make([]Entry, 0, len(candidates))}
	checked := false
	for _, c := range candidates {
		history, err := e.q.SummitHistory(ctx, c.SummitCode, historyDepth)
		if err != nil {
			return Evaluation{}, fmt.Errorf("summit history %s: %w", c.SummitCode, err)
		}

		entry := Entry{SummitCode: c.SummitCode}
		d, err := Compute(history)
		switch {
		case errors.Is(err, ErrInsufficientHistory):
			ev.Entries = append(ev.Entries, entry)
			continue
		case err != nil:
			return Evaluation{}, err
		}
		entry.Delta = &d

		if !checked {
			entry.Cadence = CheckCadence(d.ElapsedDays())
			checked = true
		}
		ev.Entries = append(ev.Entries, entry)
	}
	return ev, nil
}

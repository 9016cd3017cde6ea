// Package ingest folds normalized feed records into the store.
//
// Every record is handled on its own: one that fails normalization or its
// store write is logged with the raw feed record and dropped, and the rest of
// the batch continues. All surviving writes of one call are committed
// together.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/sotastats/internal/metrics"
	"github.com/roach88/sotastats/internal/model"
	"github.com/roach88/sotastats/internal/normalize"
	"github.com/roach88/sotastats/internal/store"
)

// Batch is the write side of one store transaction.
type Batch interface {
	UpsertSpot(ctx context.Context, s model.Spot) error
	AppendSnapshot(ctx context.Context, s model.Summit) error
	Commit() error
	Rollback() error
}

// Opener starts a new Batch.
type Opener func(ctx context.Context) (Batch, error)

// FromStore opens batches as transactions on s.
func FromStore(s *store.Store) Opener {
	return func(ctx context.Context) (Batch, error) {
		tx, err := s.Begin(ctx)
		if err != nil {
			return nil, err
		}
		return tx, nil
	}
}

// Summary counts what happened to the records of one call.
type Summary struct {
	Fetched  int
	Stored   int
	Rejected int // failed normalization
	Skipped  int // other associations, when not storing all
	Failed   int // store write failed
}

// Config holds the pipeline settings.
type Config struct {
	// Association is the code reports are produced for.
	Association string

	// StoreAll keeps spots for every association, not just Association.
	StoreAll bool
}

// Pipeline normalizes feed records and writes them to the store.
type Pipeline struct {
	norm    *normalize.Normalizer
	open    Opener
	cfg     Config
	metrics *metrics.Collectors
	log     *slog.Logger
}

// New creates a pipeline. m may be nil.
func New(norm *normalize.Normalizer, open Opener, cfg Config, m *metrics.Collectors) *Pipeline {
	return &Pipeline{
		norm:    norm,
		open:    open,
		cfg:     cfg,
		metrics: m,
		log:     slog.Default(),
	}
}

// WithLogger returns a copy of p that logs to l.
func (p *Pipeline) WithLogger(l *slog.Logger) *Pipeline {
	cp := *p
	cp.log = l
	return &cp
}

// Spots normalizes and upserts a batch of raw spots.
func (p *Pipeline) Spots(ctx context.Context, raws []model.RawRecord) (Summary, error) {
	sum := Summary{Fetched: len(raws)}
	batch, err := p.open(ctx)
	if err != nil {
		return sum, fmt.Errorf("open spot batch: %w", err)
	}
	defer batch.Rollback()

	for _, r := range p.norm.Spots(raws) {
		if !r.OK() {
			sum.Rejected++
			p.log.WarnContext(ctx, "spot rejected", "error", r.Err, "raw", r.Raw.String())
			continue
		}
		spot := r.Value
		if !p.cfg.StoreAll && spot.AssociationCode != p.cfg.Association {
			sum.Skipped++
			p.log.DebugContext(ctx, "spot skipped", "id", spot.ID, "association", spot.AssociationCode)
			continue
		}
		if err := batch.UpsertSpot(ctx, spot); err != nil {
			sum.Failed++
			p.log.WarnContext(ctx, "spot not stored", "id", spot.ID, "error", err, "raw", r.Raw.String())
			continue
		}
		sum.Stored++
	}

	if err := batch.Commit(); err != nil {
		return sum, fmt.Errorf("commit spots: %w", err)
	}
	p.record("spot", sum)
	p.log.InfoContext(ctx, "spots ingested",
		"fetched", sum.Fetched,
		"stored", sum.Stored,
		"rejected", sum.Rejected,
		"skipped", sum.Skipped,
		"failed", sum.Failed)
	return sum, nil
}

// Summits normalizes a catalog batch and appends one snapshot per summit,
// all stamped with refreshed.
func (p *Pipeline) Summits(ctx context.Context, raws []model.RawRecord, refreshed time.Time) (Summary, error) {
	sum := Summary{Fetched: len(raws)}
	batch, err := p.open(ctx)
	if err != nil {
		return sum, fmt.Errorf("open summit batch: %w", err)
	}
	defer batch.Rollback()

	for _, r := range p.norm.Summits(raws, refreshed) {
		if !r.OK() {
			sum.Rejected++
			p.log.WarnContext(ctx, "summit rejected", "error", r.Err, "raw", r.Raw.String())
			continue
		}
		if err := batch.AppendSnapshot(ctx, r.Value); err != nil {
			sum.Failed++
			p.log.WarnContext(ctx, "summit not stored", "summit", r.Value.SummitCode, "error", err)
			continue
		}
		sum.Stored++
	}

	if err := batch.Commit(); err != nil {
		return sum, fmt.Errorf("commit summits: %w", err)
	}
	p.record("summit", sum)
	p.log.InfoContext(ctx, "summits refreshed",
		"refreshed", refreshed,
		"fetched", sum.Fetched,
		"stored", sum.Stored,
		"rejected", sum.Rejected,
		"failed", sum.Failed)
	return sum, nil
}

func (p *Pipeline) record(kind string, sum Summary) {
	p.metrics.AddRecords(kind, metrics.OutcomeStored, sum.Stored)
	p.metrics.AddRecords(kind, metrics.OutcomeRejected, sum.Rejected)
	p.metrics.AddRecords(kind, metrics.OutcomeSkipped, sum.Skipped)
	p.metrics.AddRecords(kind, metrics.OutcomeFailed, sum.Failed)
}

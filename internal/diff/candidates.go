package diff

import (
	"fmt"

	"github.com/roach88/sotastats/internal/model"
)

// DedupMode selects how repeated summit codes in the candidate rows are handled.
type DedupMode string

const (
	// DedupFirst keeps the first row per summit code.
	DedupFirst DedupMode = "first"

	// DedupNone keeps every row, so a summit with two snapshots inside the
	// month is reported twice. Matches the output of the legacy poller.
	DedupNone DedupMode = "none"
)

// ParseDedupMode validates a configured mode. Empty selects DedupFirst.
func ParseDedupMode(s string) (DedupMode, error) {
	switch DedupMode(s) {
	case "", DedupFirst:
		return DedupFirst, nil
	case DedupNone:
		return DedupNone, nil
	default:
		return "", fmt.Errorf("unknown dedup mode %q (want %q or %q)", s, DedupFirst, DedupNone)
	}
}

// Candidates filters activated-summit rows according to mode.
// Row order is preserved.
func Candidates(rows []model.Summit, mode DedupMode) []model.Summit {
	if mode == DedupNone {
		out := make([]model.Summit, len(rows))
		copy(out, rows)
		return out
	}

	seen := make(map[string]bool, len(rows))
	out := make([]model.Summit, 0, len(rows))
	for _, r := range rows {
		if seen[r.SummitCode] {
			continue
		}
		seen[r.SummitCode] = true
		out = append(out, r)
	}
	return out
}

package diff

import (
	"errors"
	"fmt"
	"time"

	"github.com/roach88/sotastats/internal/model"
)

// ErrInsufficientHistory is returned by Compute when a summit has fewer than
// two snapshots. It is a reportable condition, not an engine failure.
var ErrInsufficientHistory = errors.New("not enough data")

// Delta is the change in one summit between its two newest snapshots.
// Descriptive fields come from the current snapshot.
type Delta struct {
	SummitCode string
	Name       string

	// Count is the number of activations since the previous snapshot.
	Count int

	// Total is the all-time activation count.
	Total  int
	Points int

	LastActivated *time.Time
	LastActivator string

	Badge Badge

	Current  time.Time
	Previous time.Time
}

// Compute builds a Delta from a summit's history, most recent first.
// Entries past the second are ignored.
func Compute(history []model.Summit) (Delta, error) {
	if len(history) < 2 {
		return Delta{}, ErrInsufficientHistory
	}
	cur, prev := history[0], history[1]
	if cur.SummitCode != prev.SummitCode {
		return Delta{}, fmt.Errorf("compute delta: history mixes %s and %s", cur.SummitCode, prev.SummitCode)
	}

	d := Delta{
		SummitCode:    cur.SummitCode,
		Name:          cur.Name,
		Count:         cur.ActivationCount - prev.ActivationCount,
		Total:         cur.ActivationCount,
		Points:        cur.Points,
		LastActivated: cur.ActivationDate,
		Badge:         Classify(cur.ActivationCount),
		Current:       cur.Refreshed,
		Previous:      prev.Refreshed,
	}
	if cur.ActivationCall != nil {
		d.LastActivator = *cur.ActivationCall
	}
	return d, nil
}

// ElapsedDays returns the whole days between the two snapshots.
func (d Delta) ElapsedDays() int {
	return int(d.Current.Sub(d.Previous) / (24 * time.Hour))
}

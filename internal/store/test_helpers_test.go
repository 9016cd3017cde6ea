package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/sotastats/internal/model"
)

// createTestStore creates a new file-backed store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, DefaultTables())
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestSpot creates a spot with minimal required fields.
func createTestSpot(id int64, ts time.Time, activator, summit string) model.Spot {
	return model.Spot{
		ID:                id,
		TimeStamp:         ts,
		ActivatorCallsign: activator,
		AssociationCode:   "W5N",
		SummitCode:        summit,
		Frequency:         14.062,
		Mode:              "cw",
		SummitDetails:     "details",
		HighlightColor:    "green",
		Callsign:          "K5ABC",
		ActivatorName:     "Op",
	}
}

// createTestSummit creates a summit snapshot. A zero count leaves the
// activation fields nil.
func createTestSummit(code string, count int, activated time.Time, refreshed time.Time) model.Summit {
	s := model.Summit{
		SummitCode:      code,
		Name:            "Summit " + code,
		Points:          4,
		ActivationCount: count,
		Refreshed:       refreshed,
	}
	if count > 0 {
		call := "N5XR"
		s.ActivationDate = &activated
		s.ActivationCall = &call
	}
	return s
}

// writeInTx applies fn inside a committed transaction.
func writeInTx(t *testing.T, s *Store, fn func(tx *Tx)) {
	t.Helper()
	tx, err := s.Begin(context.Background())
	if err != nil {
		t.Fatalf("Begin() failed: %v", err)
	}
	fn(tx)
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit() failed: %v", err)
	}
}

func utc(year int, month time.Month, day, hour, min, sec int) time.Time {
	return time.Date(year, month, day, hour, min, sec, 0, time.UTC)
}

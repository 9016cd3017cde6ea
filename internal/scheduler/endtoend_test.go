package scheduler

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sotastats/internal/diff"
	"github.com/roach88/sotastats/internal/ingest"
	"github.com/roach88/sotastats/internal/model"
	"github.com/roach88/sotastats/internal/normalize"
	"github.com/roach88/sotastats/internal/report"
	"github.com/roach88/sotastats/internal/store"
	"github.com/roach88/sotastats/internal/testutil"
)

// scriptedFeed serves whatever the test currently assigns.
type scriptedFeed struct {
	spots   []model.RawRecord
	summits []model.RawRecord
}

func (f *scriptedFeed) FetchSpots(ctx context.Context) ([]model.RawRecord, error) {
	return f.spots, nil
}

func (f *scriptedFeed) FetchSummits(ctx context.Context) ([]model.RawRecord, error) {
	return f.summits, nil
}

func catalog(count int, activated string) []model.RawRecord {
	return []model.RawRecord{{
		"summitCode":      "W5N/SM-001",
		"name":            "Sandia Crest",
		"points":          json.Number("8"),
		"activationCount": json.Number(strconv.Itoa(count)),
		"activationDate":  activated,
		"activationCall":  "n5xr",
	}}
}

func TestEndToEnd_TwoMonthlyRefreshes(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	st, err := store.Open(filepath.Join(dir, "sotastats.db"), store.DefaultTables())
	require.NoError(t, err)
	defer st.Close()

	dp, err := normalize.ParseLocale("en-US")
	require.NoError(t, err)
	pipeline := ingest.New(normalize.New(dp), ingest.FromStore(st), ingest.Config{Association: "W5N", StoreAll: true}, nil)

	reportPath := filepath.Join(dir, "w5n_spot_summary.txt")
	gen := report.New(st, diff.NewEngine(st, diff.DedupFirst), "W5N", reportPath,
		report.WithConsole(io.Discard),
		report.WithClock(func() time.Time { return at(2024, 2, 1, 0, 0, 0) }))

	feed := &scriptedFeed{summits: catalog(3, "2023-12-20T00:00:00")}
	s := New(Deps{Feed: feed, Ingester: pipeline, Reporter: gen, Refresh: st},
		WithIDGenerator(testutil.NewSequentialIDs("")),
		WithPrevious(at(2023, 12, 31, 23, 59, 59)))

	// First refresh: only one snapshot exists.
	f := s.Tick(ctx, at(2024, 1, 1, 0, 0, 0))
	require.True(t, f.CatalogRefreshed)

	feed.spots = []model.RawRecord{{
		"id":                json.Number("9001"),
		"timeStamp":         "2024-01-15T09:30:00",
		"activatorCallsign": "n5xr",
		"associationCode":   "W5N",
		"summitCode":        "W5N/SM-001",
		"frequency":         "14.062",
		"mode":              "cw",
		"summitDetails":     "Sandia Crest, 3255m, 8 pts",
		"comments":          nil,
		"highlightColor":    "green",
		"callsign":          "k5abc",
		"activatorName":     "Op",
		"userID":            json.Number("1"),
	}}
	s.Tick(ctx, at(2024, 1, 15, 10, 0, 0))

	feed.summits = catalog(5, "2024-01-21T00:00:00")
	f = s.Tick(ctx, at(2024, 2, 1, 0, 0, 0))
	require.True(t, f.CatalogRefreshed)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "Error: not enough data for summit W5N/SM-001\n")
	assert.Contains(t, text, "2024-01-15    N5XR          W5N/SM-001\n")
	assert.Contains(t, text, "W5N/SM-001  Sandia Crest              2   5     8    2024-01-21 N5XR ☆\n")
	assert.Contains(t, text, "☆: Rare summit, five or fewer activations\n")
	assert.NotContains(t, text, "Warning: data")

	spots, snapshots, err := st.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, spots)
	assert.Equal(t, 2, snapshots)
}

package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sotastats/internal/model"
)

func candidateRows() []model.Summit {
	return []model.Summit{
		snapshot("A1", 2, day(2024, 1, 1)),
		snapshot("A1", 3, day(2024, 2, 1)),
		snapshot("B2", 7, day(2024, 2, 1)),
	}
}

func codes(rows []model.Summit) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.SummitCode
	}
	return out
}

func TestCandidates_DedupFirstKeepsFirstOccurrence(t *testing.T) {
	got := Candidates(candidateRows(), DedupFirst)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"A1", "B2"}, codes(got))
	assert.Equal(t, day(2024, 1, 1), got[0].Refreshed)
}

// The legacy report never removed anything; DedupNone keeps that output.
func TestCandidates_DedupNoneKeepsDuplicates(t *testing.T) {
	got := Candidates(candidateRows(), DedupNone)
	assert.Equal(t, []string{"A1", "A1", "B2"}, codes(got))
}

func TestCandidates_Empty(t *testing.T) {
	assert.Empty(t, Candidates(nil, DedupFirst))
	assert.Empty(t, Candidates(nil, DedupNone))
}

func TestParseDedupMode(t *testing.T) {
	m, err := ParseDedupMode("")
	require.NoError(t, err)
	assert.Equal(t, DedupFirst, m)

	m, err = ParseDedupMode("none")
	require.NoError(t, err)
	assert.Equal(t, DedupNone, m)

	_, err = ParseDedupMode("last")
	assert.Error(t, err)
}

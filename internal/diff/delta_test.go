package diff

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sotastats/internal/model"
)

func snapshot(code string, count int, refreshed time.Time) model.Summit {
	s := model.Summit{
		SummitCode:      code,
		Name:            "Summit " + code,
		Points:          8,
		ActivationCount: count,
		Refreshed:       refreshed,
	}
	if count > 0 {
		date := refreshed.AddDate(0, 0, -3)
		call := "N5XR"
		s.ActivationDate = &date
		s.ActivationCall = &call
	}
	return s
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 1, 0, time.UTC)
}

func TestCompute_RareDelta(t *testing.T) {
	history := []model.Summit{
		snapshot("W5N/SM-001", 5, day(2024, 2, 1)),
		snapshot("W5N/SM-001", 3, day(2024, 1, 1)),
	}

	d, err := Compute(history)
	require.NoError(t, err)

	assert.Equal(t, 2, d.Count)
	assert.Equal(t, 5, d.Total)
	assert.Equal(t, BadgeRare, d.Badge)
	assert.Equal(t, "N5XR", d.LastActivator)
	require.NotNil(t, d.LastActivated)
	assert.Equal(t, time.Date(2024, 1, 29, 0, 0, 1, 0, time.UTC), *d.LastActivated)
	assert.Equal(t, 31, d.ElapsedDays())
}

func TestCompute_InitialActivation(t *testing.T) {
	history := []model.Summit{
		snapshot("W5N/SM-002", 1, day(2024, 2, 1)),
		snapshot("W5N/SM-002", 0, day(2024, 1, 1)),
	}

	d, err := Compute(history)
	require.NoError(t, err)
	assert.Equal(t, 1, d.Count)
	assert.Equal(t, BadgeInitial, d.Badge)
}

func TestCompute_UsesCurrentSnapshotFields(t *testing.T) {
	cur := snapshot("X1", 9, day(2024, 2, 1))
	cur.Name = "Renamed Peak"
	cur.Points = 10
	prev := snapshot("X1", 7, day(2024, 1, 1))

	d, err := Compute([]model.Summit{cur, prev})
	require.NoError(t, err)
	assert.Equal(t, "Renamed Peak", d.Name)
	assert.Equal(t, 10, d.Points)
	assert.Equal(t, BadgeNone, d.Badge)
}

func TestCompute_IgnoresOlderEntries(t *testing.T) {
	d, err := Compute([]model.Summit{
		snapshot("X1", 10, day(2024, 3, 1)),
		snapshot("X1", 8, day(2024, 2, 1)),
		snapshot("X1", 1, day(2024, 1, 1)),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, d.Count)
}

func TestCompute_InsufficientHistory(t *testing.T) {
	_, err := Compute(nil)
	assert.ErrorIs(t, err, ErrInsufficientHistory)

	_, err = Compute([]model.Summit{snapshot("X1", 1, day(2024, 2, 1))})
	assert.ErrorIs(t, err, ErrInsufficientHistory)
}

func TestCompute_MixedCodes(t *testing.T) {
	_, err := Compute([]model.Summit{
		snapshot("X1", 2, day(2024, 2, 1)),
		snapshot("X2", 1, day(2024, 1, 1)),
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInsufficientHistory)
}

func TestCompute_NeverActivatedCurrent(t *testing.T) {
	d, err := Compute([]model.Summit{
		snapshot("X1", 0, day(2024, 2, 1)),
		snapshot("X1", 0, day(2024, 1, 1)),
	})
	require.NoError(t, err)
	assert.Nil(t, d.LastActivated)
	assert.Empty(t, d.LastActivator)
}

func TestElapsedDays_WholeDaysOnly(t *testing.T) {
	d := Delta{
		Current:  time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Previous: time.Date(2024, 1, 2, 0, 0, 1, 0, time.UTC),
	}
	assert.Equal(t, 28, d.ElapsedDays())
}

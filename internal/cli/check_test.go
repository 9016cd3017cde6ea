package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sotastats/internal/config"
	"github.com/roach88/sotastats/internal/model"
	"github.com/roach88/sotastats/internal/store"
)

func TestCheck_CreatesDatabaseAndReportsJSON(t *testing.T) {
	cfgPath, dir := writeTestConfig(t, nil)

	out, err := execute(t, "check", "--config", cfgPath, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   CheckStatus `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "W5N", resp.Data.Association)
	assert.Equal(t, 0, resp.Data.Spots)
	assert.Equal(t, 0, resp.Data.Snapshots)
	assert.Empty(t, resp.Data.LatestRefresh)

	_, err = os.Stat(filepath.Join(dir, "sotastats.db"))
	assert.NoError(t, err, "database should be created")
}

func TestCheck_ReportsStoredData(t *testing.T) {
	cfgPath, dir := writeTestConfig(t, nil)
	refreshed := time.Date(2024, 2, 1, 0, 0, 1, 0, time.UTC)
	seedStore(t, filepath.Join(dir, "sotastats.db"), refreshed)

	out, err := execute(t, "check", "--config", cfgPath, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Data CheckStatus `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 2, resp.Data.Spots)
	assert.Equal(t, 1, resp.Data.Snapshots)
	assert.Equal(t, "2024-02-01 00:00:01", resp.Data.LatestRefresh)
}

func TestCheck_TextOutput(t *testing.T) {
	color.NoColor = true
	cfgPath, _ := writeTestConfig(t, nil)

	out, err := execute(t, "check", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "OK W5N via https://api2.sota.org.uk")
	assert.Contains(t, out, "spots     0")
	assert.Contains(t, out, "refreshed never")
}

func TestCheck_InvalidConfig(t *testing.T) {
	cfgPath, _ := writeTestConfig(t, map[string]any{"summit_dedup": "latest"})

	out, err := execute(t, "check", "--config", cfgPath, "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeConfigInvalid, resp.Error.Code)
}

func TestCheck_MissingConfigFile(t *testing.T) {
	_, err := execute(t, "check", "--config", filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestCheck_DatabaseUnavailable(t *testing.T) {
	cfgPath, _ := writeTestConfig(t, map[string]any{
		"dbname": filepath.Join(t.TempDir(), "missing", "dir", "x.db"),
	})

	_, err := execute(t, "check", "--config", cfgPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to open database")
}

// seedStore writes two W5N spots on 2024-01-02 and one activated summit
// snapshot.
func seedStore(t *testing.T, path string, refreshed time.Time) {
	t.Helper()
	st, err := store.Open(path, config.Default().Tables())
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	tx, err := st.Begin(ctx)
	require.NoError(t, err)

	for i, s := range []struct {
		activator, summit string
		at                time.Time
	}{
		{"N5XR", "W5N/SM-001", time.Date(2024, 1, 2, 14, 0, 0, 0, time.UTC)},
		{"K5ABC", "W5N/PW-012", time.Date(2024, 1, 2, 16, 30, 0, 0, time.UTC)},
	} {
		require.NoError(t, tx.UpsertSpot(ctx, model.Spot{
			ID:                int64(i + 1),
			TimeStamp:         s.at,
			ActivatorCallsign: s.activator,
			AssociationCode:   "W5N",
			SummitCode:        s.summit,
			Frequency:         14.062,
			Mode:              "cw",
			SummitDetails:     "details",
			HighlightColor:    "green",
			Callsign:          "K5ABC",
			ActivatorName:     "Op",
		}))
	}

	activated := time.Date(2024, 1, 21, 0, 0, 0, 0, time.UTC)
	call := "N5XR"
	require.NoError(t, tx.AppendSnapshot(ctx, model.Summit{
		SummitCode:      "W5N/SM-001",
		Name:            "Sandia Crest",
		Points:          8,
		ActivationCount: 5,
		ActivationDate:  &activated,
		ActivationCall:  &call,
		Refreshed:       refreshed,
	}))
	require.NoError(t, tx.Commit())
}

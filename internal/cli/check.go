package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/roach88/sotastats/internal/model"
)

// CheckStatus is the payload of the check command.
type CheckStatus struct {
	Association   string `json:"association"`
	Server        string `json:"server"`
	Database      string `json:"database"`
	ReportFile    string `json:"report_file"`
	Spots         int    `json:"spots"`
	Snapshots     int    `json:"snapshots"`
	LatestRefresh string `json:"latest_refresh,omitempty"`
}

// WriteText prints the status with a colored verdict line.
func (s CheckStatus) WriteText(w io.Writer) error {
	ok := color.New(color.FgGreen, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	refresh := s.LatestRefresh
	if refresh == "" {
		refresh = color.YellowString("never")
	}
	_, err := fmt.Fprintf(w, "%s %s via %s\n  database  %s %s\n  report    %s\n  spots     %d\n  snapshots %d\n  refreshed %s\n",
		ok("OK"), s.Association, s.Server,
		s.Database, dim("(schema current)"),
		s.ReportFile,
		s.Spots, s.Snapshots, refresh)
	return err
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration and database",
		Long: `Load and validate the configuration, open (and if needed create or
migrate) the database, and print what it holds.

Example:
  sotastats check --config ./sotastats.yaml
  sotastats check --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, cmd)
		},
	}
	return cmd
}

func runCheck(opts *RootOptions, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	cfg, err := loadConfig(opts)
	if err != nil {
		_ = out.Error(CodeConfigInvalid, "invalid configuration", err.Error())
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		_ = out.Error(CodeStoreUnavailable, "database unavailable", err.Error())
		return err
	}
	defer closeStore(st)

	ctx := cmd.Context()
	spots, snapshots, err := st.Counts(ctx)
	if err != nil {
		_ = out.Error(CodeStoreQuery, "database query failed", err.Error())
		return WrapExitError(ExitFailure, "failed to count rows", err)
	}
	latest, ok, err := st.LatestRefresh(ctx)
	if err != nil {
		_ = out.Error(CodeStoreQuery, "database query failed", err.Error())
		return WrapExitError(ExitFailure, "failed to read latest refresh", err)
	}

	status := CheckStatus{
		Association: cfg.Association,
		Server:      cfg.Server,
		Database:    cfg.DBName,
		ReportFile:  cfg.ReportFile,
		Spots:       spots,
		Snapshots:   snapshots,
	}
	if ok {
		status.LatestRefresh = latest.UTC().Format(model.TimestampLayout)
	}
	return out.Success(status)
}

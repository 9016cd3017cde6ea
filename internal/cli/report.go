package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/sotastats/internal/model"
)

// MonthLayout is the --month flag format.
const MonthLayout = "2006-01"

// ReportOptions holds flags for the report subcommands.
type ReportOptions struct {
	*RootOptions
	Date  string
	Month string

	// Now overrides the clock used for flag defaults (for testing).
	Now func() time.Time
}

func (o *ReportOptions) now() time.Time {
	if o.Now != nil {
		return o.Now().UTC()
	}
	return time.Now().UTC()
}

// NewReportCommand creates the report command group.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a report section from the stored data",
		Long: `Append a report section to the report file without polling.

The summit catalog is not refreshed; the monthly summit report uses the
snapshots already in the database.`,
	}

	cmd.AddCommand(newReportDailyCommand(opts))
	cmd.AddCommand(newReportMonthlyCommand(opts))
	return cmd
}

func newReportDailyCommand(opts *ReportOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Write the spot summary for one UTC day",
		Example: `  sotastats report daily
  sotastats report daily --date 2024-05-04`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return reportDaily(opts, cmd)
		},
	}
	cmd.Flags().StringVar(&opts.Date, "date", "", "UTC date as YYYY-MM-DD (default yesterday)")
	return cmd
}

func newReportMonthlyCommand(opts *ReportOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Write the spot and summit summaries for one month",
		Example: `  sotastats report monthly
  sotastats report monthly --month 2024-01`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return reportMonthly(opts, cmd)
		},
	}
	cmd.Flags().StringVar(&opts.Month, "month", "", "month as YYYY-MM (default last month)")
	return cmd
}

func reportDaily(opts *ReportOptions, cmd *cobra.Command) error {
	day := opts.now().AddDate(0, 0, -1)
	if opts.Date != "" {
		d, err := time.Parse(model.DateLayout, opts.Date)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("invalid --date %q", opts.Date), err)
		}
		day = d
	}

	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	rep, err := newReporter(cfg, st, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if err := rep.Daily(cmd.Context(), day); err != nil {
		return WrapExitError(ExitFailure, "failed to write daily report", err)
	}
	return nil
}

func reportMonthly(opts *ReportOptions, cmd *cobra.Command) error {
	now := opts.now()
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	if opts.Month != "" {
		m, err := time.Parse(MonthLayout, opts.Month)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("invalid --month %q", opts.Month), err)
		}
		month = m
	}

	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	rep, err := newReporter(cfg, st, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if err := rep.MonthlySpots(cmd.Context(), month.Year(), month.Month()); err != nil {
		return WrapExitError(ExitFailure, "failed to write monthly spot report", err)
	}
	if err := rep.MonthlySummits(cmd.Context(), month.Year(), month.Month()); err != nil {
		return WrapExitError(ExitFailure, "failed to write monthly summit report", err)
	}
	return nil
}

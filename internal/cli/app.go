package cli

import (
	"io"
	"log/slog"

	"github.com/roach88/sotastats/internal/config"
	"github.com/roach88/sotastats/internal/diff"
	"github.com/roach88/sotastats/internal/report"
	"github.com/roach88/sotastats/internal/store"
)

func loadConfig(opts *RootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	slog.Debug("config loaded", "association", cfg.Association, "db", cfg.DBName, "report", cfg.ReportFile)
	return cfg, nil
}

func openStore(cfg config.Config) (*store.Store, error) {
	slog.Info("opening database", "path", cfg.DBName)
	st, err := store.Open(cfg.DBName, cfg.Tables())
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}

// newReporter wires the diff engine and report generator over st. Sections
// are mirrored to console.
func newReporter(cfg config.Config, st *store.Store, console io.Writer) (*report.Generator, error) {
	mode, err := diff.ParseDedupMode(cfg.SummitDedup)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid summit_dedup", err)
	}
	engine := diff.NewEngine(st, mode)
	return report.New(st, engine, cfg.Association, cfg.ReportFile, report.WithConsole(console)), nil
}

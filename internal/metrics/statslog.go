package metrics

import (
	"fmt"
	"os"
	"time"
)

// StatsLog appends one "<time> <count>" line per spot query to a text file.
type StatsLog struct {
	path string
}

// NewStatsLog returns a log writing to path. An empty path disables it.
func NewStatsLog(path string) *StatsLog {
	return &StatsLog{path: path}
}

// Record appends a line for a query made at t that returned count spots.
func (l *StatsLog) Record(t time.Time, count int) error {
	if l == nil || l.path == "" {
		return nil
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open stats log: %w", err)
	}
	if _, err := fmt.Fprintf(f, "%s %d\n", t.UTC().Format(time.RFC3339), count); err != nil {
		f.Close()
		return fmt.Errorf("write stats log: %w", err)
	}
	return f.Close()
}

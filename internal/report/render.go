package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/roach88/sotastats/internal/diff"
	"github.com/roach88/sotastats/internal/model"
)

const (
	dailyDivider   = "--------------------------------------------------------------------"
	monthlyDivider = "===================================================================="

	noSpots        = "No spots were captured for the association during this period."
	noSummits      = "No summits were activated during this period."
	summitColumns  = "Ref         Name                      Ct. Tot.  Pts. Most Recently By"
	generatedStamp = "2006-01-02 15:04"
)

// section accumulates the lines of one report section.
type section struct {
	b strings.Builder
}

func newSection(divider, header string) *section {
	s := &section{}
	s.b.WriteString("\n")
	s.line(divider)
	s.line(header)
	return s
}

func (s *section) line(text string) {
	s.b.WriteString(text)
	s.b.WriteByte('\n')
}

func (s *section) linef(format string, args ...any) {
	fmt.Fprintf(&s.b, format, args...)
	s.b.WriteByte('\n')
}

func (s *section) finish(generated time.Time) string {
	s.linef("Report generated %s", generated.UTC().Format(generatedStamp))
	return s.b.String()
}

func dailyHeader(association string, w model.Window) string {
	return fmt.Sprintf("Daily summary of SOTA spots for %s from %s to %s UTC",
		association,
		w.Begin.Format(model.TimestampLayout),
		w.LastSecond().Format(model.TimestampLayout))
}

func monthlyHeader(association string, w model.Window) string {
	return fmt.Sprintf("Monthly summary of SOTA spots for %s from %s to %s UTC",
		association,
		w.Begin.Format(model.DateLayout),
		w.End.Format(model.DateLayout))
}

func summitHeader(association string, w model.Window) string {
	return fmt.Sprintf("Monthly summary of SOTA summit activations for %s from %s to %s UTC",
		association,
		w.Begin.Format(model.DateLayout),
		w.End.Format(model.DateLayout))
}

// Distinct collapses repeated (date, activator, summit) triples, keeping
// first-seen order.
func Distinct(activity []model.SpotActivity) []model.SpotActivity {
	seen := make(map[model.SpotActivity]bool, len(activity))
	out := make([]model.SpotActivity, 0, len(activity))
	for _, a := range activity {
		if seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	return out
}

// renderSpots renders a spot activity section body under the given header.
func renderSpots(divider, header string, activity []model.SpotActivity, generated time.Time) string {
	s := newSection(divider, header)
	rows := Distinct(activity)
	if len(rows) == 0 {
		s.line(noSpots)
	}
	for _, a := range rows {
		s.linef("%-14s%-14s%s", a.Date, a.Activator, a.SummitCode)
	}
	return s.finish(generated)
}

// renderSummits renders the monthly summit delta section.
func renderSummits(association string, ev diff.Evaluation, generated time.Time) string {
	s := newSection(monthlyDivider, summitHeader(association, ev.Window))
	if len(ev.Entries) == 0 {
		s.line(noSummits)
		return s.finish(generated)
	}

	s.line(summitColumns)
	for _, e := range ev.Entries {
		if e.Insufficient() {
			s.linef("Error: not enough data for summit %s", e.SummitCode)
			continue
		}
		if e.Cadence != nil {
			s.line(e.Cadence.String())
		}
		d := e.Delta
		s.linef("%-12s%-24s  %-2d  %-4d  %-2d   %s %s %s",
			d.SummitCode, d.Name, d.Count, d.Total, d.Points,
			activationDate(d.LastActivated), d.LastActivator, d.Badge.Marker())
	}
	for _, b := range ev.Badges() {
		s.line(b.Footnote())
	}
	return s.finish(generated)
}

// renderWarning renders a section whose body could not be produced.
func renderWarning(divider, header, warning string, generated time.Time) string {
	s := newSection(divider, header)
	s.line(warning)
	return s.finish(generated)
}

// activationDate drops the time of day.
func activationDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(model.DateLayout)
}

package model

import "time"

// TimestampLayout is the text form timestamps take in the store and in reports.
const TimestampLayout = "2006-01-02 15:04:05"

// DateLayout is the date-only text form.
const DateLayout = "2006-01-02"

// Window is a half-open UTC interval [Begin, End).
type Window struct {
	Begin time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Begin) && t.Before(w.End)
}

// LastSecond is the final whole second inside the window.
func (w Window) LastSecond() time.Time {
	return w.End.Add(-time.Second)
}

// DayWindow covers the UTC calendar date of t.
func DayWindow(t time.Time) Window {
	t = t.UTC()
	begin := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return Window{Begin: begin, End: begin.AddDate(0, 0, 1)}
}

// MonthWindow covers a calendar month. December spans into January of the
// following year.
func MonthWindow(year int, month time.Month) Window {
	begin := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	var end time.Time
	if month == time.December {
		end = time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	} else {
		end = time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC)
	}
	return Window{Begin: begin, End: end}
}

package normalize

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// fraction matches a fractional-seconds suffix; a zone that follows it is kept.
var fraction = regexp.MustCompile(`\.\d*`)

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses an API timestamp into UTC with second precision.
// Fractional seconds are dropped, not rounded. A zone offset after the
// fraction still applies.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if loc := fraction.FindStringIndex(s); loc != nil {
		s = s[:loc[0]] + s[loc[1]:]
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("parse timestamp %q: unrecognized layout", s)
}

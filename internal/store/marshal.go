package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/sotastats/internal/model"
)

// formatTime converts a timestamp to its stored TEXT form.
func formatTime(t time.Time) string {
	return t.UTC().Format(model.TimestampLayout)
}

// nullTime converts an optional timestamp to a nullable TEXT value.
func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

// nullString converts an optional string to a nullable TEXT value.
func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// parseTime reads a stored timestamp. Rows written by the legacy poller
// carry microseconds and sometimes a 'T' separator; both are accepted.
func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	s = strings.Replace(s, "T", " ", 1)
	for _, layout := range []string{model.TimestampLayout, model.DateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unmarshal time %q: unrecognized layout", s)
}

// parseNullTime reads a nullable stored timestamp.
func parseNullTime(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := parseTime(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// stringPtr converts a nullable TEXT value to an optional string.
func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

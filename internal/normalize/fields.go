package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/sotastats/internal/model"
)

// rawString returns the untrimmed string value of a required text field.
func rawString(raw model.RawRecord, field string) (string, error) {
	v, ok := raw[field]
	if !ok || v == nil {
		return "", missing(field)
	}
	s, ok := v.(string)
	if !ok {
		return "", wrongType(field, v)
	}
	return s, nil
}

// callsign reads an identifier-like field: trimmed and upper-cased.
func callsign(raw model.RawRecord, field string) (string, error) {
	s, err := rawString(raw, field)
	if err != nil {
		return "", err
	}
	return strings.ToUpper(strings.TrimSpace(s)), nil
}

// text reads a free-text field: trimmed and NFC-normalized.
func text(raw model.RawRecord, field string) (string, error) {
	s, err := rawString(raw, field)
	if err != nil {
		return "", err
	}
	return cleanText(s), nil
}

// optionalText reads a nullable free-text field. Non-strings become nil.
func optionalText(raw model.RawRecord, field string) *string {
	s, ok := raw[field].(string)
	if !ok {
		return nil
	}
	s = cleanText(s)
	return &s
}

func cleanText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// integer coerces a JSON number or numeric string to int64.
// Floats are accepted only when they carry no fractional part.
func integer(raw model.RawRecord, field string) (int64, error) {
	v, ok := raw[field]
	if !ok || v == nil {
		return 0, missing(field)
	}
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		f, err := n.Float64()
		if err != nil {
			return 0, unparseable(field, v, err)
		}
		return integralFloat(field, f)
	case float64:
		return integralFloat(field, n)
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, unparseable(field, v, err)
		}
		return i, nil
	default:
		return 0, wrongType(field, v)
	}
}

// integralFloat accepts whole numbers in int64 range. float64(math.MaxInt64)
// rounds up to 2^63, so the upper bound is exclusive.
func integralFloat(field string, f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, unparseable(field, f, nil)
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, unparseable(field, f, strconv.ErrRange)
	}
	return int64(f), nil
}

// timestamp reads a required timestamp field.
func timestamp(raw model.RawRecord, field string) (time.Time, error) {
	s, err := rawString(raw, field)
	if err != nil {
		return time.Time{}, err
	}
	t, err := ParseTimestamp(s)
	if err != nil {
		return time.Time{}, unparseable(field, s, nil)
	}
	return t, nil
}

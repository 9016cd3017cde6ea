package normalize

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/roach88/sotastats/internal/model"
)

// Normalizer applies the spot and summit rule sets.
type Normalizer struct {
	decimal DecimalParser
}

// New creates a Normalizer that parses frequencies in the given locale.
func New(decimal DecimalParser) *Normalizer {
	return &Normalizer{decimal: decimal}
}

// Spot normalizes one raw spot.
func (n *Normalizer) Spot(raw model.RawRecord) (model.Spot, error) {
	var s model.Spot
	var err error

	if s.ID, err = integer(raw, "id"); err != nil {
		return model.Spot{}, err
	}
	if s.TimeStamp, err = timestamp(raw, "timeStamp"); err != nil {
		return model.Spot{}, err
	}
	if s.ActivatorCallsign, err = callsign(raw, "activatorCallsign"); err != nil {
		return model.Spot{}, err
	}
	if s.AssociationCode, err = callsign(raw, "associationCode"); err != nil {
		return model.Spot{}, err
	}
	if s.SummitCode, err = callsign(raw, "summitCode"); err != nil {
		return model.Spot{}, err
	}
	if s.Mode, err = text(raw, "mode"); err != nil {
		return model.Spot{}, err
	}
	if s.SummitDetails, err = text(raw, "summitDetails"); err != nil {
		return model.Spot{}, err
	}
	s.Comments = optionalText(raw, "comments")
	if s.HighlightColor, err = text(raw, "highlightColor"); err != nil {
		return model.Spot{}, err
	}
	if s.Callsign, err = callsign(raw, "callsign"); err != nil {
		return model.Spot{}, err
	}
	if s.ActivatorName, err = text(raw, "activatorName"); err != nil {
		return model.Spot{}, err
	}
	if s.Frequency, err = n.frequency(raw, "frequency"); err != nil {
		return model.Spot{}, err
	}

	// userID is always zero upstream today; tolerate anything.
	if id, err := integer(raw, "userID"); err == nil {
		s.UserID = id
	}

	return s, nil
}

// Spots normalizes a batch. One result is returned per input record, in order.
func (n *Normalizer) Spots(raws []model.RawRecord) []model.Result[model.Spot] {
	results := make([]model.Result[model.Spot], 0, len(raws))
	for _, raw := range raws {
		s, err := n.Spot(raw)
		if err != nil {
			results = append(results, model.Failed[model.Spot](raw, err))
			continue
		}
		results = append(results, model.Succeeded(raw, s))
	}
	return results
}

// Summit normalizes one raw summit, stamping it with the batch refresh time.
//
// A zero activation count clears the most-recent activation fields; the feed
// sometimes attributes activations to summits that were never activated.
func (n *Normalizer) Summit(raw model.RawRecord, refreshed time.Time) (model.Summit, error) {
	var s model.Summit
	var err error

	if s.SummitCode, err = callsign(raw, "summitCode"); err != nil {
		return model.Summit{}, err
	}
	if s.Name, err = text(raw, "name"); err != nil {
		return model.Summit{}, err
	}
	points, err := integer(raw, "points")
	if err != nil {
		return model.Summit{}, err
	}
	s.Points = int(points)
	count, err := integer(raw, "activationCount")
	if err != nil {
		return model.Summit{}, err
	}
	s.ActivationCount = int(count)

	if s.ActivationCount != 0 {
		date, err := timestamp(raw, "activationDate")
		if err != nil {
			return model.Summit{}, err
		}
		call, err := callsign(raw, "activationCall")
		if err != nil {
			return model.Summit{}, err
		}
		s.ActivationDate = &date
		s.ActivationCall = &call
	}

	s.Refreshed = refreshed.UTC().Truncate(time.Second)
	return s, nil
}

// Summits normalizes a catalog batch sharing one refresh timestamp.
func (n *Normalizer) Summits(raws []model.RawRecord, refreshed time.Time) []model.Result[model.Summit] {
	results := make([]model.Result[model.Summit], 0, len(raws))
	for _, raw := range raws {
		s, err := n.Summit(raw, refreshed)
		if err != nil {
			results = append(results, model.Failed[model.Summit](raw, err))
			continue
		}
		results = append(results, model.Succeeded(raw, s))
	}
	return results
}

func (n *Normalizer) frequency(raw model.RawRecord, field string) (float64, error) {
	v, ok := raw[field]
	if !ok || v == nil {
		return 0, missing(field)
	}
	var s string
	switch f := v.(type) {
	case string:
		s = f
	case json.Number:
		freq, err := f.Float64()
		if err != nil {
			return 0, unparseable(field, f, err)
		}
		return freq, nil
	case float64:
		return f, nil
	default:
		return 0, wrongType(field, v)
	}
	if strings.TrimSpace(s) == "" {
		return 0, unparseable(field, s, nil)
	}
	freq, err := n.decimal.Parse(s)
	if err != nil {
		return 0, unparseable(field, s, err)
	}
	return freq, nil
}

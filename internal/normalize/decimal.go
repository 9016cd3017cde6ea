package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

// commaDecimal lists base languages that write 1.234,5 or 1 234,5.
var commaDecimal = map[string]bool{
	"cs": true, "da": true, "de": true, "es": true, "fi": true, "fr": true,
	"hu": true, "it": true, "nb": true, "nl": true, "pl": true, "pt": true,
	"ro": true, "ru": true, "sk": true, "sl": true, "sv": true, "tr": true,
	"uk": true,
}

// DecimalParser parses numbers written with a locale's separators.
type DecimalParser struct {
	tag     language.Tag
	decimal string
	groups  []string
}

// NewDecimalParser returns a parser for the given locale tag.
func NewDecimalParser(tag language.Tag) DecimalParser {
	base, _ := tag.Base()
	if commaDecimal[base.String()] {
		return DecimalParser{
			tag:     tag,
			decimal: ",",
			groups:  []string{".", " ", "\u00a0", "\u202f", "'"},
		}
	}
	return DecimalParser{tag: tag, decimal: ".", groups: []string{","}}
}

// ParseLocale builds a DecimalParser from a BCP 47 name such as "en-US".
func ParseLocale(name string) (DecimalParser, error) {
	tag, err := language.Parse(name)
	if err != nil {
		return DecimalParser{}, fmt.Errorf("parse locale %q: %w", name, err)
	}
	return NewDecimalParser(tag), nil
}

// Tag returns the locale the parser was built for.
func (p DecimalParser) Tag() language.Tag {
	return p.tag
}

// Parse converts a localized decimal string to a finite float64.
func (p DecimalParser) Parse(s string) (float64, error) {
	s = strings.TrimSpace(s)
	for _, g := range p.groups {
		s = strings.ReplaceAll(s, g, "")
	}
	if p.decimal != "." {
		s = strings.Replace(s, p.decimal, ".", 1)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}
	return f, nil
}

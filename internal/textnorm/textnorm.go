// Package textnorm holds the small text and number helpers shared by the
// statement parsers.
package textnorm

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ISODate is the output layout for normalized dates.
const ISODate = "2006-01-02"

var spaceRE = regexp.MustCompile(`\s+`)

// Collapse replaces runs of whitespace (including NBSP) with one space and trims.
func Collapse(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.TrimSpace(spaceRE.ReplaceAllString(s, " "))
}

// CleanNumber strips thousands separators, currency marks and spaces.
func CleanNumber(s string) string {
	r := strings.NewReplacer(",", "", " ", "", "₹", "", "\u00a0", "")
	return r.Replace(strings.TrimSpace(s))
}

// Amount parses a number that may carry commas. An empty string is an error.
func Amount(s string) (decimal.Decimal, error) {
	clean := CleanNumber(s)
	if clean == "" {
		return decimal.Decimal{}, fmt.Errorf("empty amount")
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return d, nil
}

// OptionalAmount parses s, returning an invalid NullDecimal for blanks or junk.
func OptionalAmount(s string) decimal.NullDecimal {
	d, err := Amount(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// FormatOptional renders a NullDecimal, blank when unset.
func FormatOptional(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

// ParseDate tries each layout in order.
func ParseDate(s string, layouts ...string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// statementLayouts are the date shapes seen across provider statements.
var statementLayouts = []string{
	"02/01/2006",
	"02-01-2006",
	"02-Jan-2006",
	"02-January-2006",
	"20060102",
	"02.01.2006",
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2 Jan 2006",
	"02 Jan 2006",
	"2/1/2006",
}

// NormDate converts any known statement date to YYYY-MM-DD. Unknown input
// is returned trimmed and unchanged.
func NormDate(s string) string {
	t, err := ParseDate(s, statementLayouts...)
	if err != nil {
		return strings.TrimSpace(s)
	}
	return t.Format(ISODate)
}

// AnyDate parses s with the statement layouts.
func AnyDate(s string) (time.Time, bool) {
	t, err := ParseDate(s, statementLayouts...)
	return t, err == nil
}

// TitleCase upper-cases the first letter of every word and lower-cases the rest.
func TitleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

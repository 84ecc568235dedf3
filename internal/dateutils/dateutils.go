// Package dateutils converts the date shapes found on Argentine statements
// into ISO calendar dates.
package dateutils

import (
	"strconv"
	"strings"
	"time"

	"fjacquet/statement-ingest/internal/textutils"
)

// DateLayoutISO is the canonical output layout.
const DateLayoutISO = "2006-01-02"

// Two-digit years below PivotYear belong to the 2000s, the rest to the 1900s.
const PivotYear = 70

var spanishMonths = map[string]time.Month{
	"enero":      time.January,
	"febrero":    time.February,
	"marzo":      time.March,
	"abril":      time.April,
	"mayo":       time.May,
	"junio":      time.June,
	"julio":      time.July,
	"agosto":     time.August,
	"septiembre": time.September,
	"setiembre":  time.September,
	"octubre":    time.October,
	"noviembre":  time.November,
	"diciembre":  time.December,

	"ene": time.January,
	"feb": time.February,
	"mar": time.March,
	"abr": time.April,
	"may": time.May,
	"jun": time.June,
	"jul": time.July,
	"ago": time.August,
	"sep": time.September,
	"set": time.September,
	"oct": time.October,
	"nov": time.November,
	"dic": time.December,
}

// SpanishMonth resolves a Spanish month name or its three-letter abbreviation,
// ignoring case, accents and a trailing '.'.
func SpanishMonth(name string) (time.Month, bool) {
	key := strings.ToLower(textutils.StripAccents(strings.TrimSpace(name)))
	key = strings.TrimSuffix(key, ".")
	m, ok := spanishMonths[key]
	return m, ok
}

// ExpandYear turns a two-digit year into a full year using PivotYear; a
// four-digit year is returned unchanged.
func ExpandYear(year string) (int, bool) {
	year = strings.TrimSpace(year)
	if len(year) != 2 && len(year) != 4 {
		return 0, false
	}
	y, err := strconv.Atoi(year)
	if err != nil || y < 0 {
		return 0, false
	}
	if len(year) == 4 {
		return y, true
	}
	if y < PivotYear {
		return 2000 + y, true
	}
	return 1900 + y, true
}

// ToISODateFromSpanish builds an ISO date from day, Spanish month name and
// year. It returns false when the day is outside [1,31], the month is unknown
// or the date does not exist (31 Febrero).
func ToISODateFromSpanish(day, monthName, year string) (string, bool) {
	month, ok := SpanishMonth(monthName)
	if !ok {
		return "", false
	}
	return build(day, month, year)
}

// ShortDateToISO converts the numeric components of DD.MM.YY(YY).
func ShortDateToISO(day, month, year string) (string, bool) {
	m, err := strconv.Atoi(strings.TrimSpace(month))
	if err != nil || m < 1 || m > 12 {
		return "", false
	}
	return build(day, time.Month(m), year)
}

func build(day string, month time.Month, year string) (string, bool) {
	d, err := strconv.Atoi(strings.TrimSpace(day))
	if err != nil || d < 1 || d > 31 {
		return "", false
	}
	y, ok := ExpandYear(year)
	if !ok {
		return "", false
	}
	t := time.Date(y, month, d, 0, 0, 0, 0, time.UTC)
	if t.Day() != d || t.Month() != month || t.Year() != y {
		return "", false
	}
	return t.Format(DateLayoutISO), true
}

// ParseISO parses a YYYY-MM-DD string.
func ParseISO(s string) (time.Time, error) {
	return time.Parse(DateLayoutISO, s)
}

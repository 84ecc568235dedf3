// Package textutils holds the locale-aware text normalisation shared by the
// statement parsers and the merchant rule engine.
package textutils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// nonDescriptionChars matches everything NormalizeDescription discards:
// digits, '*', punctuation and any letter outside the Spanish alphabet.
var nonDescriptionChars = regexp.MustCompile(`[^A-Za-zÁÉÍÓÚÜÑáéíóúüñ&\s]+`)

// StripAccents removes diacritics using NFD decomposition, dropping the
// combining marks. Idempotent.
func StripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// CollapseSpaces trims s and reduces every whitespace run to one space.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeDescription turns a raw bank description into a presentable
// merchant-like string: only Spanish letters, spaces and '&' survive.
func NormalizeDescription(s string) string {
	return CollapseSpaces(nonDescriptionChars.ReplaceAllString(s, " "))
}

// NormalizeForCompare is the matching key used by type inference and rule
// matching: accent-stripped, upper-cased, whitespace-collapsed. Idempotent.
func NormalizeForCompare(s string) string {
	upper := cases.Upper(language.Spanish).String(StripAccents(s))
	return CollapseSpaces(upper)
}

// HasLetter reports whether s contains at least one alphabetic rune.
func HasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

package ocrparser

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

type decimalNull = decimal.NullDecimal

func itoa(n int) string { return strconv.Itoa(n) }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func nullDecimal(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: dec(s), Valid: true}
}

// lineOf lays the tokens of text out left to right on one visual line.
func lineOf(text string) Line {
	var words []Word
	left := 0
	for _, tok := range strings.Fields(text) {
		words = append(words, Word{Text: tok, Box: Box{Left: left, Top: 100, Width: 10 * len(tok), Height: 20}, Confidence: 90})
		left += 10*len(tok) + 8
	}
	return Line{Words: words}
}

// Package currencyutils parses and formats Argentine-locale money amounts.
package currencyutils

import (
	"regexp"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// MoneyPattern matches a single Argentine-format amount token: '.' groups
// thousands, ',' introduces the decimals, and a trailing '-' marks a debit
// reversal.
var MoneyPattern = regexp.MustCompile(`-?\d{1,3}(?:\.\d{3})+,\d{2}-?|-?\d+,\d{2}-?`)

var (
	validAmount      = regexp.MustCompile(`^\d+(?:\.\d{3})*(?:,\d+)?$`)
	currencyPrefixes = []string{"U$S", "USD", "ARS", "US$", "$", "€"}
)

// ParseMoneyAR parses "141.241,29", "1.234,56-" or "-12,00". It returns false
// for empty or malformed input and never panics.
func ParseMoneyAR(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}

	s, negative := splitSign(s)
	if !validAmount.MatchString(s) {
		return decimal.Zero, false
	}

	s = strings.ReplaceAll(s, ".", "")
	s = strings.Replace(s, ",", ".", 1)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if negative {
		d = d.Neg()
	}
	return d, true
}

// splitSign peels currency symbols and leading/trailing '-' markers off s in
// any order, e.g. "-$ 12,00" or "$12,00-".
func splitSign(s string) (string, bool) {
	negative := false
	for {
		switch {
		case strings.HasSuffix(s, "-"):
			negative = true
			s = strings.TrimSpace(strings.TrimSuffix(s, "-"))
		case strings.HasPrefix(s, "-"):
			negative = true
			s = strings.TrimSpace(strings.TrimPrefix(s, "-"))
		default:
			stripped := stripCurrency(s)
			if stripped == s {
				return s, negative
			}
			s = stripped
		}
	}
}

func stripCurrency(s string) string {
	for {
		trimmed := false
		for _, p := range currencyPrefixes {
			if strings.HasPrefix(strings.ToUpper(s), p) {
				s = strings.TrimSpace(s[len(p):])
				trimmed = true
			}
		}
		if !trimmed {
			return strings.ReplaceAll(s, " ", "")
		}
	}
}

// FormatMoneyAR renders d with two decimals in Argentine notation.
func FormatMoneyAR(d decimal.Decimal) string {
	neg := d.IsNegative()
	fixed := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	out := b.String() + "," + frac
	if neg {
		out = "-" + out
	}
	return out
}

// Display formats amount for humans in the given ISO currency code using
// that currency's own separators and symbol.
func Display(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(strings.ToUpper(currency))
	if cur == nil {
		return FormatMoneyAR(amount) + " " + currency
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}

package currencyutils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoneyAR(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{name: "thousands and decimals", input: "141.241,29", expected: "141241.29", ok: true},
		{name: "trailing minus", input: "1.234,56-", expected: "-1234.56", ok: true},
		{name: "leading minus", input: "-1.234,56", expected: "-1234.56", ok: true},
		{name: "small amount", input: "5,00", expected: "5", ok: true},
		{name: "no decimals", input: "1.500", expected: "1500", ok: true},
		{name: "peso symbol", input: "$ 2.000,10", expected: "2000.1", ok: true},
		{name: "dollar prefix", input: "U$S 12,50", expected: "12.5", ok: true},
		{name: "usd prefix with minus", input: "-USD 3,00", expected: "-3", ok: true},
		{name: "surrounding spaces", input: "  99,99  ", expected: "99.99", ok: true},
		{name: "empty", input: "", ok: false},
		{name: "blank", input: "   ", ok: false},
		{name: "letters", input: "abc", ok: false},
		{name: "dot decimals are not AR format", input: "12.34", ok: false},
		{name: "double comma", input: "1,2,3", ok: false},
		{name: "lone minus", input: "-", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseMoneyAR(tt.input)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, decimal.RequireFromString(tt.expected).Equal(got), "got %s", got)
			} else {
				assert.True(t, got.IsZero())
			}
		})
	}
}

func TestFormatMoneyAR_RoundTrip(t *testing.T) {
	tests := []struct {
		value    string
		expected string
	}{
		{value: "141241.29", expected: "141.241,29"},
		{value: "-1234.56", expected: "-1.234,56"},
		{value: "0.5", expected: "0,50"},
		{value: "999", expected: "999,00"},
		{value: "1000000", expected: "1.000.000,00"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			d := decimal.RequireFromString(tt.value)
			formatted := FormatMoneyAR(d)
			assert.Equal(t, tt.expected, formatted)

			back, ok := ParseMoneyAR(formatted)
			require.True(t, ok)
			assert.True(t, d.Equal(back))
		})
	}
}

func TestMoneyPattern(t *testing.T) {
	found := MoneyPattern.FindAllString("C.05/12 007451 1.333,33 $ 45,00- 12/18", -1)
	assert.Equal(t, []string{"1.333,33", "45,00-"}, found)
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, "$1,234.56", Display(decimal.RequireFromString("1234.56"), "usd"))
	assert.Equal(t, "1.234,56 XYZ", Display(decimal.RequireFromString("1234.56"), "XYZ"))
}

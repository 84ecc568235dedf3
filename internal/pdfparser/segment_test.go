package pdfparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSegmentLines(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "empty",
			text:     "",
			expected: nil,
		},
		{
			name:     "no dates",
			text:     "BANCO EJEMPLO\nRESUMEN DE CUENTA\n",
			expected: nil,
		},
		{
			name: "header discarded and continuation joined",
			text: "BANCO EJEMPLO S.A.\nRESUMEN\n12-10-24 * COTO\n   SUC 45   1.234,56\n\n13/10/24 * DIA 10,00\r\n",
			expected: []string{
				"12-10-24 * COTO SUC 45 1.234,56",
				"13/10/24 * DIA 10,00",
			},
		},
		{
			name: "four digit year and tabs",
			text: "01.02.2024\tNETFLIX\t3.500,00\nUSD 3,99",
			expected: []string{
				"01.02.2024 NETFLIX 3.500,00 USD 3,99",
			},
		},
		{
			name: "installment fraction is not a date",
			text: "12-10-24 * GRAELLS NELSON\n14/18 007451 1.333,33",
			expected: []string{
				"12-10-24 * GRAELLS NELSON 14/18 007451 1.333,33",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SegmentLines(tt.text))
		})
	}
}

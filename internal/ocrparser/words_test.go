package ocrparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func word(text string, left, top int) Word {
	return Word{Text: text, Box: Box{Left: left, Top: top, Width: 40, Height: 20}, Confidence: 90}
}

func TestGroupWords(t *testing.T) {
	words := []Word{
		word("1.200,00", 600, 52),
		word("12", 10, 50),
		word("FARMACIA", 200, 49),
		word("Octubre", 60, 51),
		word("05", 10, 100),
		word("Nov", 60, 98),
		word("24", 120, 50),
		word("24", 120, 102),
		word("CAFE", 200, 101),
	}

	lines := GroupWords(words)
	require.Len(t, lines, 2)
	assert.Equal(t, "12 Octubre 24 FARMACIA 1.200,00", lines[0].Text())
	assert.Equal(t, "05 Nov 24 CAFE", lines[1].Text())
}

func TestGroupWords_Empty(t *testing.T) {
	assert.Nil(t, GroupWords(nil))
}

func TestLine_TokensSplitsMultiWordBoxes(t *testing.T) {
	line := Line{Words: []Word{{Text: "12 Octubre"}, {Text: "  "}, {Text: "24"}}}
	assert.Equal(t, []string{"12", "Octubre", "24"}, line.Tokens())
	assert.Equal(t, "12 Octubre 24", line.Text())
}

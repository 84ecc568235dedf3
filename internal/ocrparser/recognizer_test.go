package ocrparser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tesseractTSV = "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n" +
	"1\t1\t0\t0\t0\t0\t0\t0\t2480\t3508\t-1\t\n" +
	"4\t1\t1\t1\t1\t0\t100\t200\t900\t40\t-1\t\n" +
	"5\t1\t1\t1\t1\t1\t100\t200\t40\t40\t95.5\t12\n" +
	"5\t1\t1\t1\t1\t2\t150\t200\t140\t40\t91.2\tOctubre\n" +
	"5\t1\t1\t1\t1\t3\t300\t200\t40\t40\t12.0\t~~\n" +
	"5\t1\t1\t1\t1\t4\t350\t200\t40\t40\t88\t \n" +
	"5\t1\t1\t1\t1\t5\t400\t201\t120\t40\t89.9\tCOTO\n"

func TestDecodeTSV(t *testing.T) {
	words, err := DecodeTSV([]byte(tesseractTSV), 50)
	require.NoError(t, err)
	require.Len(t, words, 3)

	assert.Equal(t, "12", words[0].Text)
	assert.Equal(t, Box{Left: 100, Top: 200, Width: 40, Height: 40}, words[0].Box)
	assert.InDelta(t, 95.5, words[0].Confidence, 0.001)
	assert.Equal(t, "Octubre", words[1].Text)
	assert.Equal(t, "COTO", words[2].Text)
}

func TestDecodeTSV_NoConfidenceFloor(t *testing.T) {
	words, err := DecodeTSV([]byte(tesseractTSV), 0)
	require.NoError(t, err)
	assert.Len(t, words, 4)
}

func TestDecodeTSV_Malformed(t *testing.T) {
	_, err := DecodeTSV([]byte("level\tconf\ntext\tnot-a-number\n"), 0)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "tesseract TSV"))
}

func TestNewTesseractRecognizer_Defaults(t *testing.T) {
	r := NewTesseractRecognizer("", "", 0, 40)
	assert.Equal(t, "tesseract", r.Path)
	assert.Equal(t, "spa", r.Language)
	assert.Equal(t, 6, r.PSM)
	assert.Equal(t, 40.0, r.MinConfidence)
	assert.Equal(t, "tesseract", r.Name())
}

package ocrparser

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
)

// Recognizer is the OCR engine: it turns a page image into words.
type Recognizer interface {
	Name() string
	Recognize(ctx context.Context, imagePath string) ([]Word, error)
}

// TesseractRecognizer runs the tesseract CLI in TSV mode.
type TesseractRecognizer struct {
	Path     string
	Language string
	PSM      int
	// MinConfidence drops words the engine is less sure about (0-100).
	MinConfidence float64
}

// NewTesseractRecognizer fills in defaults for empty settings.
func NewTesseractRecognizer(path, language string, psm int, minConfidence float64) *TesseractRecognizer {
	if path == "" {
		path = "tesseract"
	}
	if language == "" {
		language = "spa"
	}
	if psm == 0 {
		psm = 6
	}
	return &TesseractRecognizer{Path: path, Language: language, PSM: psm, MinConfidence: minConfidence}
}

func (t *TesseractRecognizer) Name() string { return "tesseract" }

// Recognize runs `tesseract <image> stdout -l <lang> --psm <n> tsv`.
func (t *TesseractRecognizer) Recognize(ctx context.Context, imagePath string) ([]Word, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, t.Path, imagePath, "stdout", "-l", t.Language, "--psm", strconv.Itoa(t.PSM), "tsv")
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("tesseract failed: %w (%s)", err, strings.TrimSpace(stderr.String()))
	}
	return DecodeTSV(out, t.MinConfidence)
}

// tsvRow is one row of tesseract's TSV output.
type tsvRow struct {
	Level      int     `csv:"level"`
	Page       int     `csv:"page_num"`
	Block      int     `csv:"block_num"`
	Paragraph  int     `csv:"par_num"`
	Line       int     `csv:"line_num"`
	WordNum    int     `csv:"word_num"`
	Left       int     `csv:"left"`
	Top        int     `csv:"top"`
	Width      int     `csv:"width"`
	Height     int     `csv:"height"`
	Confidence float64 `csv:"conf"`
	Text       string  `csv:"text"`
}

// wordLevel is the TSV level of individual words.
const wordLevel = 5

// DecodeTSV turns tesseract TSV output into words, skipping structural rows,
// blank words and words below minConfidence.
func DecodeTSV(data []byte, minConfidence float64) ([]Word, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	var rows []tsvRow
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		return nil, fmt.Errorf("decoding tesseract TSV: %w", err)
	}

	words := make([]Word, 0, len(rows))
	for _, row := range rows {
		text := strings.TrimSpace(row.Text)
		if row.Level != wordLevel || text == "" || row.Confidence < minConfidence {
			continue
		}
		words = append(words, Word{
			Text:       text,
			Box:        Box{Left: row.Left, Top: row.Top, Width: row.Width, Height: row.Height},
			Confidence: row.Confidence,
		})
	}
	return words, nil
}

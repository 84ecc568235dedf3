package pdfparser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"fjacquet/statement-ingest/internal/logging"
	"fjacquet/statement-ingest/internal/parsererror"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor pulls the text layer out of a PDF document.
type PDFExtractor interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}

// LibraryExtractor reads the text layer with github.com/ledongthuc/pdf and
// falls back to poppler's pdftotext when the library fails or finds nothing.
type LibraryExtractor struct {
	logger        logging.Logger
	pdftotextPath string
}

// NewLibraryExtractor returns an extractor. An empty pdftotextPath disables
// the fallback.
func NewLibraryExtractor(logger logging.Logger, pdftotextPath string) *LibraryExtractor {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &LibraryExtractor{logger: logger, pdftotextPath: pdftotextPath}
}

// ExtractText returns the document text, one row per line, pages separated
// by a blank line.
func (e *LibraryExtractor) ExtractText(ctx context.Context, data []byte) (string, error) {
	text, libErr := extractWithLibrary(data)
	if libErr == nil && strings.TrimSpace(text) != "" {
		return text, nil
	}
	if libErr != nil {
		e.logger.WithError(libErr).Debug("PDF library extraction failed")
	}

	if e.pdftotextPath == "" {
		if libErr != nil {
			return "", &parsererror.ExtractionError{Extractor: "ledongthuc/pdf", Err: libErr}
		}
		return text, nil
	}

	fallback, err := e.extractWithPdftotext(ctx, data)
	if err != nil {
		if libErr != nil {
			return "", &parsererror.ExtractionError{Extractor: "pdftotext", Err: errors.Join(libErr, err)}
		}
		e.logger.WithError(err).Warn("pdftotext fallback failed")
		return text, nil
	}
	return fallback, nil
}

func extractWithLibrary(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PDF library crashed: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	numPages := r.NumPage()
	if numPages == 0 {
		return "", errors.New("PDF has no pages")
	}

	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		var lines []string
		for _, row := range rows {
			parts := make([]string, 0, len(row.Content))
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			if line := strings.TrimSpace(strings.Join(parts, " ")); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return strings.Join(pages, "\n\n"), nil
}

func (e *LibraryExtractor) extractWithPdftotext(ctx context.Context, data []byte) (string, error) {
	if _, err := exec.LookPath(e.pdftotextPath); err != nil {
		return "", fmt.Errorf("pdftotext not available: %w", err)
	}

	tmp, err := os.CreateTemp("", "statement-*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary PDF file: %w", err)
	}
	defer func() {
		if err := os.Remove(tmp.Name()); err != nil {
			e.logger.WithError(err).Warn("Failed to remove temporary file", logging.F(logging.FieldFile, tmp.Name()))
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("failed to write temporary PDF file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close temporary PDF file: %w", err)
	}

	out, err := exec.CommandContext(ctx, e.pdftotextPath, "-layout", tmp.Name(), "-").Output()
	if err != nil {
		return "", fmt.Errorf("error running pdftotext: %w", err)
	}
	return string(out), nil
}

// MockExtractor returns canned text, for tests.
type MockExtractor struct {
	Text string
	Err  error
}

// NewMockExtractor creates a MockExtractor.
func NewMockExtractor(text string, err error) *MockExtractor {
	return &MockExtractor{Text: text, Err: err}
}

func (m *MockExtractor) ExtractText(_ context.Context, _ []byte) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.Text, nil
}

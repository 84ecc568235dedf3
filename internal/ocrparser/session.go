// Package ocrparser is the OCR ingestion pipeline for scanned statements: it
// renders PDF pages to images, runs a recognition engine over them and
// parses the recognised lines, correcting the engine's usual misreads.
package ocrparser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"fjacquet/statement-ingest/internal/logging"
	"fjacquet/statement-ingest/internal/models"
	"fjacquet/statement-ingest/internal/parser"
	"fjacquet/statement-ingest/internal/parsererror"
	"fjacquet/statement-ingest/internal/textutils"
)

// ErrSessionClosed is returned by a Session used after Close.
var ErrSessionClosed = errors.New("ocr session is closed")

const snippetLength = 16

// Session owns the renderer, the recognition engine and a scratch directory
// for the lifetime of a batch of imports. The caller creates it, reuses it
// for as many documents as it likes and closes it.
type Session struct {
	parser.BaseParser
	renderer   PageRenderer
	recognizer Recognizer

	mu      sync.Mutex
	workDir string
	closed  bool
	docs    int
}

// NewSession acquires a scratch directory. renderer may be nil when only
// ParseImages is used.
func NewSession(renderer PageRenderer, recognizer Recognizer, logger logging.Logger) (*Session, error) {
	if recognizer == nil {
		return nil, errors.New("ocr session requires a recognizer")
	}
	dir, err := os.MkdirTemp("", "statement-ocr-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create OCR work directory: %w", err)
	}
	return &Session{
		BaseParser: parser.NewBaseParser(logger),
		renderer:   renderer,
		recognizer: recognizer,
		workDir:    dir,
	}, nil
}

// Parse renders the PDF in r and parses every page. Rows come back
// deduplicated and sorted by date.
func (s *Session) Parse(ctx context.Context, r io.Reader) ([]models.ParsedTransaction, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &parsererror.InvalidFormatError{ExpectedFormat: "PDF", Msg: "cannot read document", Err: err}
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, &parsererror.InvalidFormatError{ExpectedFormat: "PDF", Msg: "empty document", Err: parsererror.ErrEmptyDocument}
	}
	if !bytes.HasPrefix(trimmed, []byte("%PDF-")) {
		return nil, &parsererror.InvalidFormatError{
			ExpectedFormat:       "PDF",
			Msg:                  "missing PDF header",
			ActualContentSnippet: textutils.Truncate(string(data), snippetLength),
		}
	}
	if s.renderer == nil {
		return nil, errors.New("ocr session has no page renderer")
	}

	docDir, err := s.documentDir()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := os.RemoveAll(docDir); err != nil {
			s.GetLogger().WithError(err).Warn("Failed to remove OCR scratch files", logging.F(logging.FieldFile, docDir))
		}
	}()

	pdfPath := filepath.Join(docDir, "statement.pdf")
	if err := os.WriteFile(pdfPath, data, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write PDF for rendering: %w", err)
	}

	pages, err := s.renderer.Render(ctx, pdfPath, docDir)
	if err != nil {
		return nil, &parsererror.InvalidFormatError{
			ExpectedFormat: "PDF",
			Msg:            "pages could not be rendered",
			Err:            &parsererror.ExtractionError{Extractor: "renderer", Err: err},
		}
	}
	return s.ParseImages(ctx, pages)
}

// ParseImages recognises already rendered page images, in order.
func (s *Session) ParseImages(ctx context.Context, paths []string) ([]models.ParsedTransaction, error) {
	if s.isClosed() {
		return nil, ErrSessionClosed
	}
	logger := s.GetLogger().WithField(logging.FieldParser, "ocr:"+s.recognizer.Name())

	start := time.Now()
	var lines []Line
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		words, err := s.recognizer.Recognize(ctx, path)
		if err != nil {
			return nil, &parsererror.OCRError{Engine: s.recognizer.Name(), Page: i + 1, Err: err}
		}
		pageLines := GroupWords(words)
		logger.Debug("Recognised page",
			logging.F(logging.FieldPage, i+1),
			logging.F(logging.FieldCount, len(pageLines)))
		lines = append(lines, pageLines...)
	}

	transactions := ParseLines(lines)
	logger.Info("Parsed scanned statement",
		logging.F(logging.FieldCount, len(transactions)),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
	return transactions, nil
}

// Close releases the scratch directory. Closing twice is a no-op.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if err := os.RemoveAll(s.workDir); err != nil {
		return fmt.Errorf("failed to remove OCR work directory: %w", err)
	}
	return nil
}

// WorkDir is the scratch directory, for diagnostics.
func (s *Session) WorkDir() string {
	return s.workDir
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// documentDir gives each document its own directory so concurrent Parse
// calls on one session never see each other's page images.
func (s *Session) documentDir() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", ErrSessionClosed
	}
	s.docs++
	dir := filepath.Join(s.workDir, fmt.Sprintf("doc-%d", s.docs))
	if err := os.Mkdir(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create document directory: %w", err)
	}
	return dir, nil
}

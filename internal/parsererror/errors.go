// Package parsererror holds the document-level error taxonomy of the
// ingestion pipeline. Line-level non-matches are never errors.
package parsererror

import (
	"errors"
	"fmt"
)

// ErrEmptyDocument is returned when a document yields no text at all.
var ErrEmptyDocument = errors.New("document contains no extractable text")

// InvalidFormatError reports an input that is not a readable statement.
type InvalidFormatError struct {
	FilePath             string
	ExpectedFormat       string
	ActualContentSnippet string
	Msg                  string
	Err                  error
}

func (e *InvalidFormatError) Error() string {
	where := e.FilePath
	if where == "" {
		where = "<stream>"
	}
	msg := fmt.Sprintf("invalid format in '%s': %s. Expected: %s", where, e.Msg, e.ExpectedFormat)
	if e.ActualContentSnippet != "" {
		msg += fmt.Sprintf(". Content snippet: '%s'", e.ActualContentSnippet)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InvalidFormatError) Unwrap() error {
	return e.Err
}

// ExtractionError wraps a failure of the PDF text extractor or page renderer.
type ExtractionError struct {
	Extractor string
	Err       error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s: text extraction failed: %v", e.Extractor, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// OCRError wraps a recognition failure on a given page.
type OCRError struct {
	Engine string
	Page   int
	Err    error
}

func (e *OCRError) Error() string {
	return fmt.Sprintf("%s: recognition failed on page %d: %v", e.Engine, e.Page, e.Err)
}

func (e *OCRError) Unwrap() error {
	return e.Err
}

// RuleSourceError reports a merchant rule set that could not be loaded.
type RuleSourceError struct {
	Source string
	Err    error
}

func (e *RuleSourceError) Error() string {
	return fmt.Sprintf("loading merchant rules from %s: %v", e.Source, e.Err)
}

func (e *RuleSourceError) Unwrap() error {
	return e.Err
}

// ValidationError reports an invalid configuration or rule value.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s '%s': %s", e.Field, e.Value, e.Reason)
}

// Package pdfparser reads Argentine bank and credit card statements from the
// PDF text layer: it segments the text into logical lines and parses each one
// with a LineParser configured for the statement sub-format.
package pdfparser

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"fjacquet/statement-ingest/internal/logging"
	"fjacquet/statement-ingest/internal/models"
	"fjacquet/statement-ingest/internal/parser"
	"fjacquet/statement-ingest/internal/parsererror"
	"fjacquet/statement-ingest/internal/textutils"
)

const snippetLength = 16

// Parser is the text pipeline. The zero profile means "detect per document".
type Parser struct {
	parser.BaseParser
	extractor PDFExtractor
	profile   *Profile
	policy    AmountPolicy
}

// Option configures a Parser.
type Option func(*Parser)

// WithProfile pins the statement sub-format instead of detecting it.
func WithProfile(profile Profile) Option {
	return func(p *Parser) {
		p.profile = &profile
	}
}

// WithAmountPolicy replaces the amount policy of whichever profile is used.
func WithAmountPolicy(policy AmountPolicy) Option {
	return func(p *Parser) {
		p.policy = policy
	}
}

// NewParser builds the text pipeline around extractor.
func NewParser(extractor PDFExtractor, logger logging.Logger, opts ...Option) *Parser {
	p := &Parser{
		BaseParser: parser.NewBaseParser(logger),
		extractor:  extractor,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse reads a PDF document and returns its transactions in source order.
// Unreadable or empty documents fail with *parsererror.InvalidFormatError; a
// readable document with no recognisable line yields an empty slice.
func (p *Parser) Parse(ctx context.Context, r io.Reader) ([]models.ParsedTransaction, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &parsererror.InvalidFormatError{ExpectedFormat: "PDF", Msg: "cannot read document", Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &parsererror.InvalidFormatError{ExpectedFormat: "PDF", Msg: "empty document", Err: parsererror.ErrEmptyDocument}
	}
	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("%PDF-")) {
		return nil, &parsererror.InvalidFormatError{
			ExpectedFormat:       "PDF",
			Msg:                  "missing PDF header",
			ActualContentSnippet: textutils.Truncate(string(data), snippetLength),
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text, err := p.extractor.ExtractText(ctx, data)
	if err != nil {
		return nil, &parsererror.InvalidFormatError{ExpectedFormat: "PDF", Msg: "unreadable document", Err: err}
	}
	if len(textutils.CollapseSpaces(text)) == 0 {
		p.GetLogger().Warn("No text layer found, the document may be a scan")
		return []models.ParsedTransaction{}, nil
	}

	return p.ParseText(text), nil
}

// ParseText runs segmentation and line parsing over already extracted text.
func (p *Parser) ParseText(text string) []models.ParsedTransaction {
	profile := DetectFormat(text)
	if p.profile != nil {
		profile = *p.profile
	}
	if p.policy != nil {
		profile.Policy = p.policy
	}
	lp := NewLineParser(profile)
	logger := p.GetLogger().WithFields(
		logging.F(logging.FieldParser, "pdf"),
		logging.F(logging.FieldPolicy, lp.Profile().Policy.Name()),
	)

	lines := SegmentLines(text)
	transactions := make([]models.ParsedTransaction, 0, len(lines))
	for _, line := range lines {
		tx, reason := lp.parse(line)
		if reason != "" {
			logger.Debug("Dropped line", logging.F(logging.FieldReason, reason), logging.F(logging.FieldLine, line))
			continue
		}
		transactions = append(transactions, tx)
	}

	logger.Info(fmt.Sprintf("Parsed %s statement", profile.Name),
		logging.F(logging.FieldCount, len(transactions)))
	return transactions
}

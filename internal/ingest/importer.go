// Package ingest runs a statement import end to end: parse, classify every
// row against the account's merchant rules and hand one batch of records to
// the persistence collaborator.
package ingest

import (
	"context"
	"errors"
	"io"
	"time"

	"fjacquet/statement-ingest/internal/categorizer"
	"fjacquet/statement-ingest/internal/logging"
	"fjacquet/statement-ingest/internal/models"
	"fjacquet/statement-ingest/internal/parser"
	"fjacquet/statement-ingest/internal/parsererror"

	"github.com/google/uuid"
)

// ErrOCRUnavailable is returned by ImportOCR when no OCR pipeline is wired.
var ErrOCRUnavailable = errors.New("ocr pipeline is not configured")

// Sink persists a batch of records and reports how many were stored.
type Sink interface {
	Insert(ctx context.Context, records []models.InsertRecord) (int, error)
}

// RuleSource provides the merchant rules of the account being imported.
type RuleSource interface {
	LoadRules(ctx context.Context) ([]models.MerchantRule, error)
}

// TextParser parses already extracted statement text.
type TextParser interface {
	parser.Parser
	ParseText(text string) []models.ParsedTransaction
}

// Result describes one import. Parsed == 0 with a nil error means the
// document was read but no transaction was recognised.
type Result struct {
	BatchID    string
	Parsed     int
	Classified int
	Inserted   int
}

// Importer wires parsers, rules and a sink together.
type Importer struct {
	text   TextParser
	ocr    parser.Parser
	rules  RuleSource
	sink   Sink
	engine *categorizer.Engine
	logger logging.Logger

	importOrdering  categorizer.Ordering
	suggestOrdering categorizer.Ordering
	newBatchID      func() string
}

// Option configures an Importer.
type Option func(*Importer)

// WithOCR enables ImportOCR.
func WithOCR(p parser.Parser) Option {
	return func(im *Importer) {
		im.ocr = p
	}
}

// WithImportOrdering overrides the rule ordering of the import path.
func WithImportOrdering(o categorizer.Ordering) Option {
	return func(im *Importer) {
		im.importOrdering = o
	}
}

// WithSuggestOrdering overrides the rule ordering of Suggest.
func WithSuggestOrdering(o categorizer.Ordering) Option {
	return func(im *Importer) {
		im.suggestOrdering = o
	}
}

// WithBatchIDGenerator replaces the UUID batch ids, for tests.
func WithBatchIDGenerator(gen func() string) Option {
	return func(im *Importer) {
		im.newBatchID = gen
	}
}

// NewImporter builds an Importer. Imports classify with
// categorizer.OrderBulkImport and Suggest with
// categorizer.OrderLiveSuggestion unless overridden.
func NewImporter(text TextParser, rules RuleSource, sink Sink, logger logging.Logger, opts ...Option) *Importer {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	im := &Importer{
		text:            text,
		rules:           rules,
		sink:            sink,
		engine:          categorizer.NewEngine(logger),
		logger:          logger,
		importOrdering:  categorizer.OrderBulkImport,
		suggestOrdering: categorizer.OrderLiveSuggestion,
		newBatchID:      func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// ImportText imports a statement whose text was extracted elsewhere.
func (im *Importer) ImportText(ctx context.Context, accountID, text string) (Result, error) {
	if err := checkAccount(accountID); err != nil {
		return Result{}, err
	}
	return im.store(ctx, accountID, im.text.ParseText(text))
}

// ImportPDF imports a PDF statement through its text layer.
func (im *Importer) ImportPDF(ctx context.Context, accountID string, r io.Reader) (Result, error) {
	return im.importDocument(ctx, accountID, im.text, r)
}

// ImportOCR imports a scanned PDF statement.
func (im *Importer) ImportOCR(ctx context.Context, accountID string, r io.Reader) (Result, error) {
	if im.ocr == nil {
		return Result{}, ErrOCRUnavailable
	}
	return im.importDocument(ctx, accountID, im.ocr, r)
}

// Suggest classifies a single description the way the live edit form does.
func (im *Importer) Suggest(ctx context.Context, description string) (models.Classification, error) {
	rules, err := im.rules.LoadRules(ctx)
	if err != nil {
		return models.Classification{}, err
	}
	return im.engine.Classify(description, rules, im.suggestOrdering), nil
}

// Closest lists the rules whose pattern almost matches description.
func (im *Importer) Closest(ctx context.Context, description string, limit int) ([]categorizer.NearMiss, error) {
	rules, err := im.rules.LoadRules(ctx)
	if err != nil {
		return nil, err
	}
	return categorizer.Closest(description, rules, limit), nil
}

func (im *Importer) importDocument(ctx context.Context, accountID string, p parser.Parser, r io.Reader) (Result, error) {
	if err := checkAccount(accountID); err != nil {
		return Result{}, err
	}
	txs, err := p.Parse(ctx, r)
	if err != nil {
		return Result{}, err
	}
	return im.store(ctx, accountID, txs)
}

// store classifies txs and inserts them as one batch. Either every row of
// the batch reaches the sink or the import fails.
func (im *Importer) store(ctx context.Context, accountID string, txs []models.ParsedTransaction) (Result, error) {
	start := time.Now()
	result := Result{BatchID: im.newBatchID(), Parsed: len(txs)}
	logger := im.logger.WithFields(
		logging.F(logging.FieldBatchID, result.BatchID),
		logging.F(logging.FieldAccountID, accountID),
	)

	if len(txs) == 0 {
		logger.Warn("No transactions recognised in statement")
		return result, nil
	}

	rules, err := im.rules.LoadRules(ctx)
	if err != nil {
		return Result{}, err
	}
	index := im.engine.Bind(rules, im.importOrdering)

	records := make([]models.InsertRecord, 0, len(txs))
	for _, tx := range txs {
		if c := index.Classify(tx.Description); c.Matched() {
			tx.Classify(c)
			result.Classified++
		}
		records = append(records, models.NewInsertRecord(accountID, result.BatchID, tx))
	}

	inserted, err := im.sink.Insert(ctx, records)
	if err != nil {
		return Result{}, err
	}
	result.Inserted = inserted

	logger.Info("Imported statement",
		logging.F(logging.FieldCount, result.Inserted),
		logging.F("classified", result.Classified),
		logging.F(logging.FieldOrdering, string(im.importOrdering)),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
	return result, nil
}

func checkAccount(accountID string) error {
	if accountID == "" {
		return &parsererror.ValidationError{Field: "account_id", Value: accountID, Reason: "must not be empty"}
	}
	return nil
}

// Package container provides dependency injection for the statement-ingest
// application. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"fjacquet/statement-ingest/internal/categorizer"
	"fjacquet/statement-ingest/internal/config"
	"fjacquet/statement-ingest/internal/ingest"
	"fjacquet/statement-ingest/internal/logging"
	"fjacquet/statement-ingest/internal/ocrparser"
	"fjacquet/statement-ingest/internal/pdfparser"
	"fjacquet/statement-ingest/internal/store"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNoDatabase is returned when a database is needed but no DSN is set.
var ErrNoDatabase = errors.New("database.dsn is not configured")

// Container holds all application dependencies and provides methods to access them.
//
// The text pipeline, the YAML rule store and the orderings are built eagerly.
// The database pool and the OCR session hold external resources and are
// created on first use; Close releases them.
type Container struct {
	logger    logging.Logger
	config    *config.Config
	ruleStore *store.RuleStore
	parser    *pdfparser.Parser

	importOrdering  categorizer.Ordering
	suggestOrdering categorizer.Ordering

	mu       sync.Mutex
	pool     *pgxpool.Pool
	postgres *store.PostgresStore
	ocr      *ocrparser.Session
	closed   bool
}

// NewContainer creates and wires all application dependencies.
// This is the main entry point for dependency injection in the application.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	// Create logger first as it's needed by other components
	logger := logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg))

	importOrdering, err := categorizer.ParseOrdering(cfg.Rules.ImportOrdering)
	if err != nil {
		return nil, fmt.Errorf("rules.import_ordering: %w", err)
	}
	suggestOrdering, err := categorizer.ParseOrdering(cfg.Rules.SuggestOrdering)
	if err != nil {
		return nil, fmt.Errorf("rules.suggest_ordering: %w", err)
	}

	textParser, err := newTextParser(cfg, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("Container initialized successfully",
		logging.F("rules_source", cfg.Rules.Source),
		logging.F("profile", cfg.Parser.Profile),
		logging.F("import_ordering", string(importOrdering)),
		logging.F("suggest_ordering", string(suggestOrdering)))

	return &Container{
		logger:          logger,
		config:          cfg,
		ruleStore:       store.NewRuleStore(cfg.Rules.File, logger),
		parser:          textParser,
		importOrdering:  importOrdering,
		suggestOrdering: suggestOrdering,
	}, nil
}

func newTextParser(cfg *config.Config, logger logging.Logger) (*pdfparser.Parser, error) {
	var opts []pdfparser.Option
	if cfg.Parser.Profile != "" && cfg.Parser.Profile != config.ProfileAuto {
		profile, ok := pdfparser.ProfileByName(cfg.Parser.Profile)
		if !ok {
			return nil, fmt.Errorf("unknown parser profile: %s", cfg.Parser.Profile)
		}
		opts = append(opts, pdfparser.WithProfile(profile))
	}
	if cfg.Parser.AmountPolicy != "" {
		policy, ok := pdfparser.PolicyByName(cfg.Parser.AmountPolicy)
		if !ok {
			return nil, fmt.Errorf("unknown amount policy: %s", cfg.Parser.AmountPolicy)
		}
		opts = append(opts, pdfparser.WithAmountPolicy(policy))
	}
	extractor := pdfparser.NewLibraryExtractor(logger, cfg.Parser.PdftotextPath)
	return pdfparser.NewParser(extractor, logger, opts...), nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetParser returns the text pipeline.
func (c *Container) GetParser() *pdfparser.Parser {
	return c.parser
}

// GetRuleStore returns the YAML rule store, whatever the configured source.
func (c *Container) GetRuleStore() *store.RuleStore {
	return c.ruleStore
}

// ImportOrdering returns the rule ordering of the import path.
func (c *Container) ImportOrdering() categorizer.Ordering {
	return c.importOrdering
}

// SuggestOrdering returns the rule ordering of single-description lookups.
func (c *Container) SuggestOrdering() categorizer.Ordering {
	return c.suggestOrdering
}

// Database returns the PostgreSQL store scoped to the configured account,
// connecting on first use.
func (c *Container) Database(ctx context.Context) (*store.PostgresStore, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, errors.New("container is closed")
	}
	if c.postgres != nil {
		return c.postgres, nil
	}
	if c.config.Database.DSN == "" {
		return nil, ErrNoDatabase
	}

	pool, err := store.OpenPool(ctx, c.config.Database.DSN)
	if err != nil {
		return nil, err
	}
	c.pool = pool
	c.postgres = store.NewPostgresStore(pool, c.config.Import.AccountID, c.logger)
	c.logger.Debug("Connected to database")
	return c.postgres, nil
}

// RuleSource returns the configured merchant rule source.
func (c *Container) RuleSource(ctx context.Context) (ingest.RuleSource, error) {
	if c.config.Rules.Source == config.RuleSourcePostgres {
		db, err := c.Database(ctx)
		if err != nil {
			return nil, err
		}
		return db, nil
	}
	return c.ruleStore, nil
}

// OCRSession returns the OCR session, creating it on first use. The session
// lives until Close.
func (c *Container) OCRSession() (*ocrparser.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, errors.New("container is closed")
	}
	if c.ocr != nil {
		return c.ocr, nil
	}

	ocrCfg := c.config.OCR
	session, err := ocrparser.NewSession(
		ocrparser.NewPopplerRenderer(ocrCfg.PdftoppmPath, ocrCfg.DPI),
		ocrparser.NewTesseractRecognizer(ocrCfg.TesseractPath, ocrCfg.Language, ocrCfg.PSM, ocrCfg.MinConfidence),
		c.logger,
	)
	if err != nil {
		return nil, err
	}
	c.ocr = session
	c.logger.Debug("OCR session started", logging.F("work_dir", session.WorkDir()))
	return c.ocr, nil
}

// CSVSink returns a sink writing to w with the configured delimiter.
func (c *Container) CSVSink(w io.Writer) *store.CSVSink {
	return store.NewCSVSink(w, c.config.Delimiter(), c.logger)
}

// Importer builds an importer for the text pipeline writing to sink.
func (c *Container) Importer(ctx context.Context, sink ingest.Sink) (*ingest.Importer, error) {
	rules, err := c.RuleSource(ctx)
	if err != nil {
		return nil, err
	}
	return ingest.NewImporter(c.parser, rules, sink, c.logger,
		ingest.WithImportOrdering(c.importOrdering),
		ingest.WithSuggestOrdering(c.suggestOrdering)), nil
}

// OCRImporter builds an importer that can also run ImportOCR.
func (c *Container) OCRImporter(ctx context.Context, sink ingest.Sink) (*ingest.Importer, error) {
	rules, err := c.RuleSource(ctx)
	if err != nil {
		return nil, err
	}
	session, err := c.OCRSession()
	if err != nil {
		return nil, err
	}
	return ingest.NewImporter(c.parser, rules, sink, c.logger,
		ingest.WithOCR(session),
		ingest.WithImportOrdering(c.importOrdering),
		ingest.WithSuggestOrdering(c.suggestOrdering)), nil
}

// Close releases the OCR session and the database pool. It is safe to call
// more than once.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	var err error
	if c.ocr != nil {
		err = c.ocr.Close()
		c.ocr = nil
	}
	if c.pool != nil {
		c.pool.Close()
		c.pool = nil
		c.postgres = nil
	}
	c.logger.Info("Container closed")
	return err
}

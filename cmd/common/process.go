// Package common contains shared functionality for command handlers
package common

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"fjacquet/statement-ingest/internal/container"
	"fjacquet/statement-ingest/internal/currencyutils"
	"fjacquet/statement-ingest/internal/fileutils"
	"fjacquet/statement-ingest/internal/ingest"
	"fjacquet/statement-ingest/internal/models"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// Sink names accepted by --sink.
const (
	SinkCSV      = "csv"
	SinkPostgres = "postgres"
)

// ImportFunc runs one import of r.
type ImportFunc func(ctx context.Context, im *ingest.Importer, accountID string, r io.Reader) (ingest.Result, error)

// Totals sums what went through a sink, per transaction type.
type Totals struct {
	mu      sync.Mutex
	ARS     map[models.TransactionType]decimal.Decimal
	USD     decimal.Decimal
	Records int
}

// TallySink forwards records to Next and keeps Totals of what it accepted.
type TallySink struct {
	Next   ingest.Sink
	Totals Totals
}

// Insert implements ingest.Sink.
func (s *TallySink) Insert(ctx context.Context, records []models.InsertRecord) (int, error) {
	n, err := s.Next.Insert(ctx, records)
	if err != nil {
		return n, err
	}

	s.Totals.mu.Lock()
	defer s.Totals.mu.Unlock()
	if s.Totals.ARS == nil {
		s.Totals.ARS = make(map[models.TransactionType]decimal.Decimal)
	}
	for _, rec := range records {
		s.Totals.ARS[rec.Type] = s.Totals.ARS[rec.Type].Add(rec.Amount)
		if rec.AmountUSD.Valid {
			s.Totals.USD = s.Totals.USD.Add(rec.AmountUSD.Decimal)
		}
		s.Totals.Records++
	}
	return n, nil
}

// ProcessFile imports inputFile through run and writes records to the sink
// named sinkName. CSV goes to outputFile, or to stdout when it is empty. A
// summary is printed to summary.
func ProcessFile(ctx context.Context, c *container.Container, run ImportFunc, ocr bool, inputFile, outputFile, sinkName string, summary io.Writer) (ingest.Result, error) {
	if inputFile == "" {
		return ingest.Result{}, fmt.Errorf("an input file is required (--input)")
	}
	in, err := fileutils.OpenFile(inputFile)
	if err != nil {
		return ingest.Result{}, fmt.Errorf("error opening input file: %w", err)
	}
	defer in.Close()

	sink, closeSink, err := OpenSink(ctx, c, sinkName, outputFile)
	if err != nil {
		return ingest.Result{}, err
	}
	tally := &TallySink{Next: sink}

	var im *ingest.Importer
	if ocr {
		im, err = c.OCRImporter(ctx, tally)
	} else {
		im, err = c.Importer(ctx, tally)
	}
	if err != nil {
		_ = closeSink()
		return ingest.Result{}, err
	}

	res, err := run(ctx, im, c.GetConfig().Import.AccountID, in)
	if closeErr := closeSink(); err == nil && closeErr != nil {
		err = fmt.Errorf("error closing output file: %w", closeErr)
	}
	if err != nil {
		return res, err
	}

	PrintSummary(summary, res, &tally.Totals)
	return res, nil
}

// OpenSink resolves a --sink name. The returned func releases the sink.
func OpenSink(ctx context.Context, c *container.Container, sinkName, outputFile string) (ingest.Sink, func() error, error) {
	switch sinkName {
	case "", SinkCSV:
		if outputFile == "" {
			return c.CSVSink(os.Stdout), func() error { return nil }, nil
		}
		out, err := fileutils.CreateFile(outputFile)
		if err != nil {
			return nil, nil, fmt.Errorf("error creating output file: %w", err)
		}
		return c.CSVSink(out), sync.OnceValue(out.Close), nil
	case SinkPostgres:
		db, err := c.Database(ctx)
		if err != nil {
			return nil, nil, err
		}
		return db, func() error { return nil }, nil
	}
	return nil, nil, fmt.Errorf("unknown sink %q (must be %q or %q)", sinkName, SinkCSV, SinkPostgres)
}

// PrintSummary writes a short human report of an import.
func PrintSummary(w io.Writer, res ingest.Result, totals *Totals) {
	if w == nil {
		return
	}
	if res.Parsed == 0 {
		fmt.Fprintln(w, "No transactions recognised.")
		return
	}
	fmt.Fprintf(w, "Batch %s: %d parsed, %d classified, %d stored\n", res.BatchID, res.Parsed, res.Classified, res.Inserted)

	totals.mu.Lock()
	defer totals.mu.Unlock()
	for _, t := range []models.TransactionType{
		models.TypeExpense, models.TypeIncome, models.TypeTransfer,
		models.TypePayment, models.TypeFee, models.TypeOther,
	} {
		if amount, ok := totals.ARS[t]; ok {
			fmt.Fprintf(w, "  %-9s %s\n", t, currencyutils.Display(amount, "ARS"))
		}
	}
	if !totals.USD.IsZero() {
		fmt.Fprintf(w, "  %-9s %s\n", "usd", currencyutils.Display(totals.USD, "USD"))
	}
}

// Context returns the command's context, or a background one when the
// command runs outside Execute.
func Context(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

package common

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/statement-ingest/internal/config"
	"fjacquet/statement-ingest/internal/container"
	"fjacquet/statement-ingest/internal/ingest"
	"fjacquet/statement-ingest/internal/models"
	"fjacquet/statement-ingest/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statementText = `RESUMEN DE TARJETA VISA
14-10-24 * COTO SUC 45 2.500,00
20-10-24 SU PAGO EN PESOS 150.000,00-
`

// importExtracted treats the input file as already extracted text.
func importExtracted(ctx context.Context, im *ingest.Importer, accountID string, r io.Reader) (ingest.Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return ingest.Result{}, err
	}
	return im.ImportText(ctx, accountID, string(data))
}

func newContainer(t *testing.T) *container.Container {
	t.Helper()
	cfg := &config.Config{
		Log:    config.LogConfig{Level: "error", Format: "text"},
		CSV:    config.CSVConfig{Delimiter: ","},
		Parser: config.ParserConfig{Profile: config.ProfileAuto},
		OCR:    config.OCRConfig{DPI: 300, PSM: 6, MinConfidence: 30},
		Rules: config.RulesConfig{
			Source:          config.RuleSourceYAML,
			File:            filepath.Join(t.TempDir(), "missing.yaml"),
			ImportOrdering:  "bulk_import",
			SuggestOrdering: "live_suggestion",
		},
		Import: config.ImportConfig{AccountID: "visa"},
	}
	c, err := container.NewContainer(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestProcessFile_CSV(t *testing.T) {
	c := newContainer(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "statement.txt")
	output := filepath.Join(dir, "out.csv")
	require.NoError(t, os.WriteFile(input, []byte(statementText), 0600))

	var summary bytes.Buffer
	res, err := ProcessFile(context.Background(), c, importExtracted, false, input, output, SinkCSV, &summary)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Inserted)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], ",visa,2024-10-14,COTO SUC 45,")

	assert.Contains(t, summary.String(), "2 parsed, 0 classified, 2 stored")
	assert.Contains(t, summary.String(), "$2.500,00")
	assert.Contains(t, summary.String(), "$150.000,00")
}

func TestProcessFile_Errors(t *testing.T) {
	c := newContainer(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "statement.txt")
	require.NoError(t, os.WriteFile(input, []byte(statementText), 0600))

	_, err := ProcessFile(context.Background(), c, importExtracted, false, "", "", SinkCSV, nil)
	assert.ErrorContains(t, err, "input file is required")

	_, err = ProcessFile(context.Background(), c, importExtracted, false, filepath.Join(dir, "nope.pdf"), "", SinkCSV, nil)
	assert.ErrorContains(t, err, "error opening input file")

	_, err = ProcessFile(context.Background(), c, importExtracted, false, input, "", "kafka", nil)
	assert.ErrorContains(t, err, "unknown sink")

	_, err = ProcessFile(context.Background(), c, importExtracted, false, input, "", SinkPostgres, nil)
	assert.ErrorIs(t, err, container.ErrNoDatabase)

	failing := func(context.Context, *ingest.Importer, string, io.Reader) (ingest.Result, error) {
		return ingest.Result{}, errors.New("boom")
	}
	_, err = ProcessFile(context.Background(), c, failing, false, input, filepath.Join(dir, "out.csv"), SinkCSV, nil)
	assert.EqualError(t, err, "boom")
}

func TestTallySink(t *testing.T) {
	mem := &store.MemorySink{}
	tally := &TallySink{Next: mem}

	records := []models.InsertRecord{
		{Type: models.TypeExpense, Amount: decimal.NewFromInt(100)},
		{Type: models.TypeExpense, Amount: decimal.NewFromInt(50), AmountUSD: decimal.NullDecimal{Decimal: decimal.NewFromInt(3), Valid: true}},
		{Type: models.TypeFee, Amount: decimal.NewFromInt(7)},
	}
	n, err := tally.Insert(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Len(t, mem.Records(), 3)

	assert.Equal(t, 3, tally.Totals.Records)
	assert.True(t, decimal.NewFromInt(150).Equal(tally.Totals.ARS[models.TypeExpense]))
	assert.True(t, decimal.NewFromInt(7).Equal(tally.Totals.ARS[models.TypeFee]))
	assert.True(t, decimal.NewFromInt(3).Equal(tally.Totals.USD))

	mem.InsertErr = errors.New("disk full")
	_, err = tally.Insert(context.Background(), records)
	assert.Error(t, err)
	assert.Equal(t, 3, tally.Totals.Records, "failed batches are not counted")
}

func TestPrintSummary(t *testing.T) {
	var out bytes.Buffer
	PrintSummary(&out, ingest.Result{}, &Totals{})
	assert.Equal(t, "No transactions recognised.\n", out.String())

	out.Reset()
	totals := &Totals{
		ARS: map[models.TransactionType]decimal.Decimal{models.TypeExpense: decimal.RequireFromString("1234.5")},
		USD: decimal.RequireFromString("12.3"),
	}
	PrintSummary(&out, ingest.Result{BatchID: "b-1", Parsed: 1, Classified: 1, Inserted: 1}, totals)
	assert.Contains(t, out.String(), "Batch b-1: 1 parsed, 1 classified, 1 stored")
	assert.Contains(t, out.String(), "expense   $1.234,50")
	assert.Contains(t, out.String(), "usd       $12.30")

	PrintSummary(nil, ingest.Result{}, totals)
}

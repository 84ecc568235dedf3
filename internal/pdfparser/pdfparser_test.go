package pdfparser

import (
	"context"
	"errors"
	"strings"
	"testing"

	"fjacquet/statement-ingest/internal/logging"
	"fjacquet/statement-ingest/internal/models"
	"fjacquet/statement-ingest/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statementText = `BANCO EJEMPLO S.A.
RESUMEN DE TARJETA VISA
CIERRE ACTUAL 24-10-24 VENCIMIENTO 05-11-24
23-09-24 SALDO ANTERIOR 150.000,00
20-10-24 SU PAGO EN PESOS 150.000,00-
12-10-24 * GRAELLS NELSON 14/18 007451 1.333,33
05-10-24 * FRAVEGA C.05/12 123456
   10.000,00 120.000,00
14-10-24 * COTO SUC 45 2.500,00
31-10-24 IMPUESTO DE SELLOS 1.234,56
TOTAL CONSUMOS DEL MES 15.067,89
`

func TestParser_ParseText(t *testing.T) {
	logger := logging.NewMockLogger()
	p := NewParser(NewMockExtractor("", nil), logger)

	txs := p.ParseText(statementText)
	require.Len(t, txs, 5)

	descriptions := make([]string, len(txs))
	for i, tx := range txs {
		descriptions[i] = tx.Description
	}
	assert.Equal(t, []string{"SU PAGO EN PESOS", "GRAELLS NELSON", "FRAVEGA", "COTO SUC 45", "IMPUESTO DE SELLOS"}, descriptions)

	assert.Equal(t, models.TypePayment, txs[0].Type)
	assert.Equal(t, models.TypeFee, txs[4].Type)
	assert.Equal(t, "10000", txs[2].Amount.String())
	assert.True(t, logger.HasEntry("INFO", "Parsed installment_card statement"))
	assert.NotEmpty(t, logger.EntriesByLevel("DEBUG"), "dropped lines are logged at debug")
}

func TestParser_ParseTextDegenerate(t *testing.T) {
	p := NewParser(NewMockExtractor("", nil), logging.NewMockLogger())
	assert.Empty(t, p.ParseText(""))
	assert.Empty(t, p.ParseText("BANCO EJEMPLO\nSIN MOVIMIENTOS\n"))
}

func TestParser_WithProfile(t *testing.T) {
	p := NewParser(NewMockExtractor("", nil), logging.NewMockLogger(), WithProfile(ProfilePlain))

	txs := p.ParseText("05-10-24 * FRAVEGA C.05/12 10.000,00 120.000,00")
	require.Len(t, txs, 1)
	assert.Nil(t, txs[0].Installment)
	assert.Equal(t, "120000", txs[0].Amount.String())
}

func TestParser_WithAmountPolicy(t *testing.T) {
	logger := logging.NewMockLogger()
	p := NewParser(NewMockExtractor("", nil), logger, WithAmountPolicy(LastInLine))

	txs := p.ParseText("05-10-24 * FRAVEGA C.05/12 10.000,00 120.000,00")
	require.Len(t, txs, 1)
	require.NotNil(t, txs[0].Installment, "the detected profile still reads the cuota")
	assert.Equal(t, "120000", txs[0].Amount.String())
	assert.True(t, logger.HasEntry("INFO", "Parsed installment_card statement"))
}

func TestParser_Parse(t *testing.T) {
	pdf := "%PDF-1.4 fake body"

	t.Run("extracted text is parsed", func(t *testing.T) {
		p := NewParser(NewMockExtractor(statementText, nil), logging.NewMockLogger())
		txs, err := p.Parse(context.Background(), strings.NewReader(pdf))
		require.NoError(t, err)
		assert.Len(t, txs, 5)
	})

	t.Run("no text layer yields empty result", func(t *testing.T) {
		logger := logging.NewMockLogger()
		p := NewParser(NewMockExtractor("  \n ", nil), logger)
		txs, err := p.Parse(context.Background(), strings.NewReader(pdf))
		require.NoError(t, err)
		assert.NotNil(t, txs)
		assert.Empty(t, txs)
		assert.Len(t, logger.EntriesByLevel("WARN"), 1)
	})

	t.Run("empty document", func(t *testing.T) {
		p := NewParser(NewMockExtractor(statementText, nil), logging.NewMockLogger())
		_, err := p.Parse(context.Background(), strings.NewReader(""))
		var formatErr *parsererror.InvalidFormatError
		require.ErrorAs(t, err, &formatErr)
		assert.ErrorIs(t, err, parsererror.ErrEmptyDocument)
	})

	t.Run("not a pdf", func(t *testing.T) {
		p := NewParser(NewMockExtractor(statementText, nil), logging.NewMockLogger())
		_, err := p.Parse(context.Background(), strings.NewReader("GIF89a..."))
		var formatErr *parsererror.InvalidFormatError
		require.ErrorAs(t, err, &formatErr)
		assert.Equal(t, "GIF89a...", formatErr.ActualContentSnippet)
	})

	t.Run("extractor failure", func(t *testing.T) {
		cause := &parsererror.ExtractionError{Extractor: "mock", Err: errors.New("xref table broken")}
		p := NewParser(NewMockExtractor("", cause), logging.NewMockLogger())
		_, err := p.Parse(context.Background(), strings.NewReader(pdf))
		var extractionErr *parsererror.ExtractionError
		assert.ErrorAs(t, err, &extractionErr)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		p := NewParser(NewMockExtractor(statementText, nil), logging.NewMockLogger())
		_, err := p.Parse(ctx, strings.NewReader(pdf))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestLibraryExtractor_RejectsGarbage(t *testing.T) {
	e := NewLibraryExtractor(logging.NewMockLogger(), "")
	_, err := e.ExtractText(context.Background(), []byte("%PDF-1.4 not really a pdf"))
	var extractionErr *parsererror.ExtractionError
	assert.ErrorAs(t, err, &extractionErr)
}

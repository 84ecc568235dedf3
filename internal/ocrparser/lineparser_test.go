package ocrparser

import (
	"testing"

	"fjacquet/statement-ingest/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name        string
		line        string
		ok          bool
		date        string
		description string
		amount      string
		usd         string
		receipt     string
		installment *models.Installment
		txType      models.TransactionType
	}{
		{
			name:        "leading star and receipt",
			line:        "* 12 Octubre 24 004512 * FARMACIA CENTRAL 12.345,67",
			ok:          true,
			date:        "2024-10-12",
			description: "FARMACIA CENTRAL",
			amount:      "12345.67",
			receipt:     "004512",
			txType:      models.TypeExpense,
		},
		{
			name:        "misread day and installment marker",
			line:        "85 Nov 24 123456 * TIENDA NORTE C.05/12 8.000,00",
			ok:          true,
			date:        "2024-11-05",
			description: "TIENDA NORTE",
			amount:      "8000",
			receipt:     "123456",
			installment: &models.Installment{Number: 5, Total: 12},
			txType:      models.TypeExpense,
		},
		{
			name:        "letter day and abbreviated month",
			line:        "es Dic. 23 SUPERMERCADO DIA 4.210,90",
			ok:          true,
			date:        "2023-12-05",
			description: "SUPERMERCADO DIA",
			amount:      "4210.9",
			txType:      models.TypeExpense,
		},
		{
			name:        "dollar column with dropped thousands separator",
			line:        "10 Diciembre 24 998877 * AMAZON U$S 15,00 15,00",
			ok:          true,
			date:        "2024-12-10",
			description: "AMAZON",
			amount:      "15000",
			usd:         "15",
			receipt:     "998877",
			txType:      models.TypeExpense,
		},
		{
			name:        "dollar column with a sound peso amount",
			line:        "03 Enero 25 NETFLIX COM USD 18.500,00 12,99",
			ok:          true,
			date:        "2025-01-03",
			description: "NETFLIX COM",
			amount:      "18500",
			usd:         "12.99",
			txType:      models.TypeExpense,
		},
		{
			name:        "dollar hint with a single amount",
			line:        "03 Enero 25 SPOTIFY USD 4,99",
			ok:          true,
			date:        "2025-01-03",
			description: "SPOTIFY",
			amount:      "4.99",
			txType:      models.TypeExpense,
		},
		{
			name:        "negative payment",
			line:        "20 Setiembre 24 SU PAGO EN PESOS 50.000,00-",
			ok:          true,
			date:        "2024-09-20",
			description: "SU PAGO EN PESOS",
			amount:      "50000",
			txType:      models.TypePayment,
		},
		{
			name:        "stamp duty is a fee",
			line:        "30 Sep 24 IMPUESTO DE SELLOS 120,50",
			ok:          true,
			date:        "2024-09-30",
			description: "IMPUESTO DE SELLOS",
			amount:      "120.5",
			txType:      models.TypeFee,
		},
		{
			name:        "stray amount inside the description",
			line:        "12 Octubre 24 PEAJE AUSOL 100,00 AUTOPISTA 2.500,00",
			ok:          true,
			date:        "2024-10-12",
			description: "PEAJE AUSOL AUTOPISTA",
			amount:      "2500",
			txType:      models.TypeExpense,
		},
		{name: "too few tokens", line: "12 Octubre 24"},
		{name: "unknown month", line: "12 Brumario 24 CAFE 1,00"},
		{name: "impossible date", line: "31 Febrero 24 CAFE 1,00"},
		{name: "unusable day", line: "40 Octubre 24 CAFE 1,00"},
		{name: "no amount", line: "12 Octubre 24 CAFE DEL CENTRO"},
		{name: "no letters in description", line: "12 Octubre 24 1.000,00"},
		{name: "header line", line: "FECHA COMPROBANTE DETALLE IMPORTE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, ok := ParseLine(lineOf(tt.line))
			require.Equal(t, tt.ok, ok)
			if !tt.ok {
				return
			}
			assert.Equal(t, tt.date, tx.Date)
			assert.Equal(t, tt.description, tx.Description)
			assert.True(t, dec(tt.amount).Equal(tx.Amount), "amount %s", tx.Amount)
			assert.Equal(t, tt.receipt, tx.Receipt)
			assert.Equal(t, tt.installment, tx.Installment)
			assert.Equal(t, tt.txType, tx.Type)
			assert.Equal(t, models.SourceOCR, tx.Source)
			if tt.usd == "" {
				assert.False(t, tx.AmountUSD.Valid)
			} else {
				require.True(t, tx.AmountUSD.Valid)
				assert.True(t, dec(tt.usd).Equal(tx.AmountUSD.Decimal))
			}
		})
	}
}

func TestDescribe_NormalisesStars(t *testing.T) {
	assert.Equal(t, "MERPAGO * KIOSCO", describe("MERPAGO*KIOSCO "))
	assert.Equal(t, "PEDIDOSYA", describe("* PEDIDOSYA $ "))
}

func TestParseLines_DedupesAndSortsByDate(t *testing.T) {
	lines := []Line{
		lineOf("05 Nov 24 111111 CAFE MARTINEZ 2.500,00"),
		lineOf("12 Octubre 24 222222 FARMACIA CENTRAL 1.200,00"),
		lineOf("05 Nov 24 111111 CAFE MARTINEZ 2.500,00"),
		lineOf("SALDO ANTERIOR 10.000,00"),
		lineOf("12 Octubre 24 333333 KIOSCO 300,00"),
	}

	txs := ParseLines(lines)
	require.Len(t, txs, 3)
	assert.Equal(t, "FARMACIA CENTRAL", txs[0].Description)
	assert.Equal(t, "KIOSCO", txs[1].Description, "same-date rows keep reading order")
	assert.Equal(t, "CAFE MARTINEZ", txs[2].Description)
}

func TestParseLines_KeepsRowsThatDifferInKey(t *testing.T) {
	lines := []Line{
		lineOf("05 Nov 24 111111 CAFE MARTINEZ 2.500,00"),
		lineOf("05 Nov 24 111112 CAFE MARTINEZ 2.500,00"),
		lineOf("05 Nov 24 111111 CAFE MARTINEZ 2.500,01"),
	}
	assert.Len(t, ParseLines(lines), 3)
}

func TestDedupKey(t *testing.T) {
	tx := models.ParsedTransaction{
		Date:        "2024-11-05",
		Receipt:     "111111",
		Amount:      dec("2500"),
		Description: "Café Martínez sucursal con un nombre larguísimo que excede",
	}
	key := DedupKey(tx)
	assert.Equal(t, "2024-11-05|111111|2500.00|CAFE MARTINEZ SUCURSAL CON UN NOMBRE LAR", key)

	tx.Description = "CAFE MARTINEZ SUCURSAL CON UN NOMBRE LARGO DISTINTO"
	assert.Equal(t, key, DedupKey(tx), "only the description prefix counts")
}

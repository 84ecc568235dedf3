package pdfparser

import (
	"testing"

	"fjacquet/statement-ingest/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine_GraellsNelson(t *testing.T) {
	lp := NewLineParser(ProfileInstallmentCard)

	tx, ok := lp.ParseLine("12-10-24 * GRAELLS NELSON 14/18 007451 1.333,33")
	require.True(t, ok)
	assert.Equal(t, "2024-10-12", tx.Date)
	assert.True(t, decimal.RequireFromString("1333.33").Equal(tx.Amount))
	require.NotNil(t, tx.Installment)
	assert.Equal(t, 14, tx.Installment.Number)
	assert.Equal(t, 18, tx.Installment.Total)
	assert.Equal(t, "007451", tx.Receipt)
	assert.Contains(t, tx.Description, "GRAELLS NELSON")
	assert.NotRegexp(t, `[0-9*/]`, tx.Description)
	assert.Equal(t, models.TypeExpense, tx.Type)
	assert.Equal(t, models.SourceText, tx.Source)
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name        string
		profile     Profile
		line        string
		ok          bool
		date        string
		description string
		amount      string
		installment *models.Installment
		receipt     string
		txType      models.TransactionType
	}{
		{
			name:        "prefixed installment takes first amount after marker",
			profile:     ProfileInstallmentCard,
			line:        "05.03.24 * FRAVEGA C.05/12 123456 10.000,00 120.000,00",
			ok:          true,
			date:        "2024-03-05",
			description: "FRAVEGA",
			amount:      "10000",
			installment: &models.Installment{Number: 5, Total: 12},
			receipt:     "123456",
			txType:      models.TypeExpense,
		},
		{
			name:        "spaced installment marker without receipt",
			profile:     ProfileMarkedCard,
			line:        "05/03/2024 K MUSIMUNDO C 02/06 8.500,50 51.003,00",
			ok:          true,
			date:        "2024-03-05",
			description: "MUSIMUNDO",
			amount:      "8500.50",
			installment: &models.Installment{Number: 2, Total: 6},
			txType:      models.TypeExpense,
		},
		{
			name:        "plain line takes last amount",
			profile:     ProfileInstallmentCard,
			line:        "12-10-24 * 004512 NETFLIX.COM USD 10,99 $ 11.540,00",
			ok:          true,
			date:        "2024-10-12",
			description: "NETFLIX.COM",
			amount:      "11540",
			receipt:     "004512",
			txType:      models.TypeExpense,
		},
		{
			name:        "payment keeps absolute amount",
			profile:     ProfileInstallmentCard,
			line:        "20-10-24 SU PAGO EN PESOS 150.000,00-",
			ok:          true,
			date:        "2024-10-20",
			description: "SU PAGO EN PESOS",
			amount:      "150000",
			txType:      models.TypePayment,
		},
		{
			name:        "stamp duty without marker",
			profile:     ProfileMarkedCard,
			line:        "31-10-24 IMPUESTO DE SELLOS 1.234,56",
			ok:          true,
			date:        "2024-10-31",
			description: "IMPUESTO DE SELLOS",
			amount:      "1234.56",
			txType:      models.TypeFee,
		},
		{
			name:        "fee line",
			profile:     ProfilePlain,
			line:        "31.10.24 IVA RG 4240 21% 420,00",
			ok:          true,
			date:        "2024-10-31",
			description: "IVA RG 4240 21%",
			amount:      "420",
			txType:      models.TypeFee,
		},
		{
			name:        "posting date is skipped",
			profile:     ProfilePlain,
			line:        "01/11/24 02/11/24 TRANSFERENCIA RECIBIDA 5.000,00 25.000,00",
			ok:          true,
			date:        "2024-11-01",
			description: "TRANSFERENCIA RECIBIDA",
			amount:      "25000",
			txType:      models.TypeExpense,
		},
		{
			name:        "trailing total is truncated",
			profile:     ProfileInstallmentCard,
			line:        "14-10-24 * COTO SUC 45 2.500,00 TOTAL CONSUMOS 99.999,99",
			ok:          true,
			date:        "2024-10-14",
			description: "COTO SUC 45",
			amount:      "2500",
			txType:      models.TypeExpense,
		},
		{
			name:        "trailing total is truncated in a plain statement",
			profile:     ProfilePlain,
			line:        "14-10-24 COTO SUC 45 2.500,00 TOTAL 99.999,99",
			ok:          true,
			date:        "2024-10-14",
			description: "COTO SUC 45",
			amount:      "2500",
			txType:      models.TypeExpense,
		},
		{
			name:        "saldo inside the description is kept",
			profile:     ProfileInstallmentCard,
			line:        "12-10-24 * CARGA SALDO SUBE 1.000,00",
			ok:          true,
			date:        "2024-10-12",
			description: "CARGA SALDO SUBE",
			amount:      "1000",
			txType:      models.TypeExpense,
		},
		{
			name:        "merchant name starting with total",
			profile:     ProfilePlain,
			line:        "12-10-24 TOTAL PASS GYM 5.000,00",
			ok:          true,
			date:        "2024-10-12",
			description: "TOTAL PASS GYM",
			amount:      "5000",
			txType:      models.TypeExpense,
		},
		{
			name:        "leading K is part of the name outside marked profiles",
			profile:     ProfileInstallmentCard,
			line:        "12-10-24 K MART 1.234,56",
			ok:          true,
			date:        "2024-10-12",
			description: "K MART",
			amount:      "1234.56",
			txType:      models.TypeExpense,
		},
		{
			name:        "K marker is stripped in marked profiles",
			profile:     ProfileMarkedCard,
			line:        "12-10-24 K MART 1.234,56",
			ok:          true,
			date:        "2024-10-12",
			description: "MART",
			amount:      "1234.56",
			txType:      models.TypeExpense,
		},
		{
			name:    "bare total line",
			profile: ProfilePlain,
			line:    "31-10-24 TOTAL 99.999,99",
		},
		{
			name:    "aggregate only",
			profile: ProfilePlain,
			line:    "23-09-24 SALDO ANTERIOR 45.000,00",
		},
		{
			name:    "due date header",
			profile: ProfilePlain,
			line:    "CIERRE 24-10-24 VENCIMIENTO 05-11-24",
		},
		{
			name:    "payment acknowledgement",
			profile: ProfilePlain,
			line:    "21-10-24 GRACIAS POR SU PAGO 150.000,00",
		},
		{
			name:    "no amount",
			profile: ProfilePlain,
			line:    "21-10-24 COTO SUCURSAL",
		},
		{
			name:    "only numbers",
			profile: ProfilePlain,
			line:    "21-10-24 123456 1.000,00 2.000,00",
		},
		{
			name:    "invalid calendar date",
			profile: ProfilePlain,
			line:    "31-02-24 COTO 10,00",
		},
		{
			name:    "no date",
			profile: ProfilePlain,
			line:    "COTO 10,00",
		},
		{
			name:    "date only",
			profile: ProfilePlain,
			line:    "21-10-24",
		},
		{
			name:    "unmarked line in marked profile",
			profile: ProfileMarkedCard,
			line:    "21-10-24 COTO 10,00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, ok := NewLineParser(tt.profile).ParseLine(tt.line)
			require.Equal(t, tt.ok, ok)
			if !tt.ok {
				return
			}
			assert.Equal(t, tt.date, tx.Date)
			assert.Equal(t, tt.description, tx.Description)
			assert.True(t, decimal.RequireFromString(tt.amount).Equal(tx.Amount), "amount %s", tx.Amount)
			assert.Equal(t, tt.installment, tx.Installment)
			assert.Equal(t, tt.receipt, tx.Receipt)
			assert.Equal(t, tt.txType, tx.Type)
		})
	}
}

func TestExtractInstallment(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		installment *models.Installment
		cleaned     string
	}{
		{name: "dotted", input: "FRAVEGA C.05/12", installment: &models.Installment{Number: 5, Total: 12}, cleaned: "FRAVEGA"},
		{name: "spaced", input: "FRAVEGA C 05/12 ONLINE", installment: &models.Installment{Number: 5, Total: 12}, cleaned: "FRAVEGA ONLINE"},
		{name: "lowercase", input: "fravega c.05/12", installment: &models.Installment{Number: 5, Total: 12}, cleaned: "fravega"},
		{name: "cuota word", input: "CUOTA 03/06 GARBARINO", installment: &models.Installment{Number: 3, Total: 6}, cleaned: "GARBARINO"},
		{name: "none", input: "COTO  SUC 45", installment: nil, cleaned: "COTO  SUC 45"},
		{name: "out of range", input: "PROMO 13/12", installment: nil, cleaned: "PROMO 13/12"},
		{name: "date is not a marker", input: "VTO 05/11/24", installment: nil, cleaned: "VTO 05/11/24"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst, cleaned := ExtractInstallment(tt.input)
			assert.Equal(t, tt.installment, inst)
			assert.Equal(t, tt.cleaned, cleaned)
		})
	}
}

package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInstallment(t *testing.T) {
	tests := []struct {
		name   string
		number int
		total  int
		valid  bool
	}{
		{name: "first of twelve", number: 1, total: 12, valid: true},
		{name: "last period", number: 18, total: 18, valid: true},
		{name: "upper bound", number: 99, total: 99, valid: true},
		{name: "zero", number: 0, total: 12, valid: false},
		{name: "number above total", number: 13, total: 12, valid: false},
		{name: "total above bound", number: 1, total: 100, valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewInstallment(tt.number, tt.total)
			if !tt.valid {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, Installment{Number: tt.number, Total: tt.total}, *got)
		})
	}
}

func TestInstallmentString(t *testing.T) {
	assert.Equal(t, "05/12", Installment{Number: 5, Total: 12}.String())
}

func TestTransactionBuilder(t *testing.T) {
	t.Run("complete row", func(t *testing.T) {
		tx, err := NewTransactionBuilder(SourceText).
			WithDate("2024-10-12").
			WithDescription("  GRAELLS   NELSON ").
			WithAmount(decimal.RequireFromString("-1333.33")).
			WithInstallment(14, 18).
			WithReceipt("007451").
			Build()
		require.NoError(t, err)
		assert.Equal(t, "GRAELLS NELSON", tx.Description)
		assert.True(t, decimal.RequireFromString("1333.33").Equal(tx.Amount))
		assert.Equal(t, &Installment{Number: 14, Total: 18}, tx.Installment)
		assert.Equal(t, TypeExpense, tx.Type)
		assert.Equal(t, SourceText, tx.Source)
	})

	tests := []struct {
		name    string
		builder *TransactionBuilder
	}{
		{name: "bad date", builder: NewTransactionBuilder(SourceText).WithDate("2024-02-31").WithDescription("X")},
		{name: "missing date", builder: NewTransactionBuilder(SourceText).WithDescription("X")},
		{name: "numeric description", builder: NewTransactionBuilder(SourceOCR).WithDate("2024-01-01").WithDescription("123 456")},
		{name: "bad installment", builder: NewTransactionBuilder(SourceText).WithDate("2024-01-01").WithDescription("X").WithInstallment(3, 2)},
		{name: "bad type", builder: NewTransactionBuilder(SourceText).WithDate("2024-01-01").WithDescription("X").WithType("refund")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder.Build()
			assert.Error(t, err)
		})
	}
}

func TestNewInsertRecord(t *testing.T) {
	tx := ParsedTransaction{
		Date:         "2024-10-12",
		Description:  "GRAELLS NELSON",
		Amount:       decimal.RequireFromString("1333.33"),
		Installment:  &Installment{Number: 14, Total: 18},
		Receipt:      "007451",
		Type:         TypeExpense,
		Source:       SourceText,
		MerchantName: StringPtr("Graells"),
	}

	rec := NewInsertRecord("acc-1", "batch-1", tx)
	assert.Equal(t, "acc-1", rec.AccountID)
	assert.Equal(t, "batch-1", rec.BatchID)
	require.NotNil(t, rec.InstallmentNumber)
	assert.Equal(t, 14, *rec.InstallmentNumber)
	assert.Equal(t, 18, *rec.InstallmentsTotal)
	assert.Equal(t, "007451", Deref(rec.Receipt))
	assert.Equal(t, "Graells", Deref(rec.MerchantName))
	assert.Nil(t, rec.CategoryID)
	assert.False(t, rec.AmountUSD.Valid)

	bare := NewInsertRecord("acc-1", "batch-1", ParsedTransaction{Date: "2024-01-01", Description: "X"})
	assert.Nil(t, bare.Receipt)
	assert.Nil(t, bare.InstallmentNumber)
	assert.Equal(t, TypeExpense, bare.Type)
}

func TestMatchTypeAndClassification(t *testing.T) {
	assert.True(t, MatchEndsWith.Valid())
	assert.False(t, MatchType("regex").Valid())
	assert.False(t, Classification{}.Matched())
	assert.True(t, Classification{RuleID: StringPtr("r1")}.Matched())
	assert.True(t, TypeFee.Valid())
	assert.False(t, TransactionType("refund").Valid())
}

package models

import "github.com/shopspring/decimal"

// InsertRecord is what the persistence collaborator receives for each row of
// an import batch.
type InsertRecord struct {
	AccountID         string
	BatchID           string
	Date              string
	Description       string
	MerchantName      *string
	CategoryID        *string
	Amount            decimal.Decimal
	Type              TransactionType
	Receipt           *string
	InstallmentNumber *int
	InstallmentsTotal *int
	AmountUSD         decimal.NullDecimal
	Source            Source
}

// NewInsertRecord maps a parsed row onto the storage shape.
func NewInsertRecord(accountID, batchID string, tx ParsedTransaction) InsertRecord {
	rec := InsertRecord{
		AccountID:    accountID,
		BatchID:      batchID,
		Date:         tx.Date,
		Description:  tx.Description,
		MerchantName: tx.MerchantName,
		CategoryID:   tx.CategoryID,
		Amount:       tx.Amount.Abs(),
		Type:         tx.Type,
		Receipt:      StringPtr(tx.Receipt),
		AmountUSD:    tx.AmountUSD,
		Source:       tx.Source,
	}
	if rec.Type == "" {
		rec.Type = TypeExpense
	}
	if tx.HasInstallment() {
		n, total := tx.Installment.Number, tx.Installment.Total
		rec.InstallmentNumber = &n
		rec.InstallmentsTotal = &total
	}
	return rec
}

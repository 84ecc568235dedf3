// Package models provides the data structures shared by the parsers, the
// merchant rule engine and the persistence collaborators.
package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TransactionType is the coarse kind of a statement row.
type TransactionType string

const (
	TypeExpense  TransactionType = "expense"
	TypeIncome   TransactionType = "income"
	TypeTransfer TransactionType = "transfer"
	TypePayment  TransactionType = "payment"
	TypeFee      TransactionType = "fee"
	TypeOther    TransactionType = "other"
)

// Valid reports whether t is one of the known types.
func (t TransactionType) Valid() bool {
	switch t {
	case TypeExpense, TypeIncome, TypeTransfer, TypePayment, TypeFee, TypeOther:
		return true
	}
	return false
}

// Source identifies which pipeline produced a row.
type Source string

const (
	SourceText Source = "text"
	SourceOCR  Source = "ocr"
)

// MaxInstallments bounds both sides of an installment marker.
const MaxInstallments = 99

// Installment is one period of a purchase split in equal payments (cuotas).
type Installment struct {
	Number int
	Total  int
}

// NewInstallment returns nil unless 1 <= number <= total <= MaxInstallments.
func NewInstallment(number, total int) *Installment {
	if number < 1 || total < number || total > MaxInstallments {
		return nil
	}
	return &Installment{Number: number, Total: total}
}

func (i Installment) String() string {
	return fmt.Sprintf("%02d/%02d", i.Number, i.Total)
}

// ParsedTransaction is the one candidate shape every parser variant emits.
// Date, Description and Amount are always set; the rest is optional.
type ParsedTransaction struct {
	Date        string
	Description string
	Amount      decimal.Decimal
	Installment *Installment
	Receipt     string
	Type        TransactionType
	Source      Source

	// AmountUSD is the secondary currency column, only found by OCR.
	AmountUSD decimal.NullDecimal

	// Filled in by the merchant rule engine.
	MerchantName *string
	CategoryID   *string
}

// HasInstallment reports whether the row is one period of a cuota plan.
func (t ParsedTransaction) HasInstallment() bool {
	return t.Installment != nil
}

// Classify copies a rule engine result onto the row.
func (t *ParsedTransaction) Classify(c Classification) {
	t.MerchantName = c.MerchantName
	t.CategoryID = c.CategoryID
}

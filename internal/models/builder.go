package models

import (
	"errors"
	"fmt"
	"time"

	"fjacquet/statement-ingest/internal/textutils"

	"github.com/shopspring/decimal"
)

// TransactionBuilder assembles a ParsedTransaction and checks the row
// invariants in Build. The first failing step sticks.
type TransactionBuilder struct {
	tx  ParsedTransaction
	err error
}

// NewTransactionBuilder starts a row for the given pipeline.
func NewTransactionBuilder(source Source) *TransactionBuilder {
	return &TransactionBuilder{tx: ParsedTransaction{Source: source, Type: TypeExpense}}
}

// WithDate sets the ISO date.
func (b *TransactionBuilder) WithDate(iso string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	if _, err := time.Parse("2006-01-02", iso); err != nil {
		b.err = fmt.Errorf("invalid date %q: %w", iso, err)
		return b
	}
	b.tx.Date = iso
	return b
}

// WithDescription sets the cleaned description.
func (b *TransactionBuilder) WithDescription(desc string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Description = textutils.CollapseSpaces(desc)
	return b
}

// WithAmount stores the absolute value of amount.
func (b *TransactionBuilder) WithAmount(amount decimal.Decimal) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Amount = amount.Abs()
	return b
}

// WithInstallment sets the cuota; an out-of-range pair is an error.
func (b *TransactionBuilder) WithInstallment(number, total int) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	inst := NewInstallment(number, total)
	if inst == nil {
		b.err = fmt.Errorf("invalid installment %d/%d", number, total)
		return b
	}
	b.tx.Installment = inst
	return b
}

// WithReceipt sets the voucher number.
func (b *TransactionBuilder) WithReceipt(receipt string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Receipt = receipt
	return b
}

// WithAmountUSD sets the secondary currency column.
func (b *TransactionBuilder) WithAmountUSD(amount decimal.Decimal) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.AmountUSD = decimal.NullDecimal{Decimal: amount.Abs(), Valid: true}
	return b
}

// WithType overrides the default expense type.
func (b *TransactionBuilder) WithType(t TransactionType) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	if !t.Valid() {
		b.err = fmt.Errorf("invalid transaction type %q", t)
		return b
	}
	b.tx.Type = t
	return b
}

// Build returns the row or the first error met. A row needs a date and a
// description containing a letter.
func (b *TransactionBuilder) Build() (ParsedTransaction, error) {
	if b.err != nil {
		return ParsedTransaction{}, b.err
	}
	switch {
	case b.tx.Date == "":
		return ParsedTransaction{}, errors.New("date is required")
	case !textutils.HasLetter(b.tx.Description):
		return ParsedTransaction{}, errors.New("description must contain a letter")
	}
	return b.tx, nil
}

package categorizer

import (
	"strings"

	"fjacquet/statement-ingest/internal/models"
)

const paymentKeyword = "SU PAGO"

// feeKeywords flag taxes, perceptions and bank charges.
var feeKeywords = []string{"IMPUEST", "PERCEPC", "IVA", "SELLO", "COMISION", "CARGO", "INTERES"}

// InferType derives the coarse type from a description already passed
// through textutils.NormalizeForCompare. Payments win over fees; anything
// unrecognised is an expense. It never returns income, transfer or other.
func InferType(key string) models.TransactionType {
	if strings.Contains(key, paymentKeyword) {
		return models.TypePayment
	}
	for _, kw := range feeKeywords {
		if strings.Contains(key, kw) {
			return models.TypeFee
		}
	}
	return models.TypeExpense
}

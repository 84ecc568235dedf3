package categorizer

import (
	"fmt"
	"sort"

	"fjacquet/statement-ingest/internal/models"
	"fjacquet/statement-ingest/internal/parsererror"
	"fjacquet/statement-ingest/internal/textutils"
)

// Ordering decides which rule is tried first when several could match.
//
// The live suggestion path and the bulk import path have always disagreed
// on the direction of priority; both are kept, named, and pinned by tests
// until one is retired.
type Ordering string

const (
	// OrderLiveSuggestion: lower priority value first, ties in declaration order.
	OrderLiveSuggestion Ordering = "live_suggestion"
	// OrderBulkImport: higher priority value first, ties by longer pattern,
	// then declaration order.
	OrderBulkImport Ordering = "bulk_import"
)

// ParseOrdering validates a configured ordering name.
func ParseOrdering(s string) (Ordering, error) {
	switch Ordering(s) {
	case OrderLiveSuggestion, OrderBulkImport:
		return Ordering(s), nil
	}
	return "", &parsererror.ValidationError{
		Field:  "ordering",
		Value:  s,
		Reason: fmt.Sprintf("must be %q or %q", OrderLiveSuggestion, OrderBulkImport),
	}
}

// Sort returns a copy of rules in evaluation order. The input is not
// modified.
func (o Ordering) Sort(rules []models.MerchantRule) []models.MerchantRule {
	sorted := make([]models.MerchantRule, len(rules))
	copy(sorted, rules)

	switch o {
	case OrderBulkImport:
		sort.SliceStable(sorted, func(i, j int) bool {
			if sorted[i].Priority != sorted[j].Priority {
				return sorted[i].Priority > sorted[j].Priority
			}
			return patternLength(sorted[i]) > patternLength(sorted[j])
		})
	default:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Priority < sorted[j].Priority
		})
	}
	return sorted
}

func patternLength(r models.MerchantRule) int {
	return len([]rune(textutils.NormalizeForCompare(r.Pattern)))
}

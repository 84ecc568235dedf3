// Package categorizer assigns a transaction type and a merchant
// classification to statement descriptions using deterministic rules.
package categorizer

import (
	"strings"

	"fjacquet/statement-ingest/internal/logging"
	"fjacquet/statement-ingest/internal/models"
	"fjacquet/statement-ingest/internal/textutils"
)

// Classifier is a rule set bound to an ordering.
type Classifier interface {
	Classify(description string) models.Classification
}

// Engine evaluates merchant rules: first match wins, no match is the
// all-nil Classification. It never fails and never mutates the rules.
type Engine struct {
	logger logging.Logger
}

// NewEngine creates an Engine.
func NewEngine(logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Engine{logger: logger}
}

// Classify matches description against rules in the given ordering.
func (e *Engine) Classify(description string, rules []models.MerchantRule, ordering Ordering) models.Classification {
	key := textutils.NormalizeForCompare(description)
	if key == "" || len(rules) == 0 {
		return models.Classification{}
	}

	for _, rule := range ordering.Sort(rules) {
		pattern := textutils.NormalizeForCompare(rule.Pattern)
		if pattern == "" {
			continue
		}
		if matches(key, pattern, rule.MatchType) {
			e.logger.Debug("Merchant rule matched",
				logging.F(logging.FieldRuleID, rule.ID),
				logging.F(logging.FieldPattern, rule.Pattern),
				logging.F(logging.FieldOrdering, string(ordering)))
			return classificationOf(rule)
		}
	}
	return models.Classification{}
}

// Bind compiles rules and ordering into an Index for repeated use.
func (e *Engine) Bind(rules []models.MerchantRule, ordering Ordering) Classifier {
	idx := NewIndex(rules, ordering)
	e.logger.Debug("Compiled rule index",
		logging.F(logging.FieldCount, idx.Len()),
		logging.F(logging.FieldOrdering, string(ordering)))
	return idx
}

// matches compares an already normalised key and pattern. Unknown match
// types never match.
func matches(key, pattern string, matchType models.MatchType) bool {
	switch matchType {
	case models.MatchContains:
		return strings.Contains(key, pattern)
	case models.MatchStartsWith:
		return strings.HasPrefix(key, pattern)
	case models.MatchEndsWith:
		return strings.HasSuffix(key, pattern)
	case models.MatchEquals:
		return key == pattern
	}
	return false
}

func classificationOf(rule models.MerchantRule) models.Classification {
	id := rule.ID
	return models.Classification{
		MerchantName: rule.MerchantName,
		CategoryID:   rule.CategoryID,
		RuleID:       &id,
	}
}

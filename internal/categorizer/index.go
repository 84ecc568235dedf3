package categorizer

import (
	"fjacquet/statement-ingest/internal/models"
	"fjacquet/statement-ingest/internal/textutils"

	"github.com/cloudflare/ahocorasick"
)

// Index is a rule set compiled for the bulk import path: rules are sorted
// and normalised once, and every 'contains' pattern is found in a single
// Aho-Corasick pass over the description. It returns exactly what
// Engine.Classify returns for the same rules and ordering, and is safe for
// concurrent use.
type Index struct {
	ordering Ordering
	rules    []compiledRule
	matcher  *ahocorasick.Matcher
}

type compiledRule struct {
	rule    models.MerchantRule
	pattern string
	// dict is the position of pattern in the matcher dictionary, or -1.
	dict int
}

// NewIndex compiles rules under ordering.
func NewIndex(rules []models.MerchantRule, ordering Ordering) *Index {
	idx := &Index{ordering: ordering}

	dictPos := make(map[string]int)
	var dictionary [][]byte
	for _, rule := range ordering.Sort(rules) {
		pattern := textutils.NormalizeForCompare(rule.Pattern)
		if pattern == "" {
			continue
		}
		cr := compiledRule{rule: rule, pattern: pattern, dict: -1}
		if rule.MatchType == models.MatchContains {
			pos, ok := dictPos[pattern]
			if !ok {
				pos = len(dictionary)
				dictPos[pattern] = pos
				dictionary = append(dictionary, []byte(pattern))
			}
			cr.dict = pos
		}
		idx.rules = append(idx.rules, cr)
	}

	if len(dictionary) > 0 {
		idx.matcher = ahocorasick.NewMatcher(dictionary)
	}
	return idx
}

// Len is the number of usable rules.
func (x *Index) Len() int {
	return len(x.rules)
}

// Classify returns the classification of the first matching rule.
func (x *Index) Classify(description string) models.Classification {
	key := textutils.NormalizeForCompare(description)
	if key == "" || len(x.rules) == 0 {
		return models.Classification{}
	}

	var hits map[int]bool
	if x.matcher != nil {
		found := x.matcher.MatchThreadSafe([]byte(key))
		hits = make(map[int]bool, len(found))
		for _, pos := range found {
			hits[pos] = true
		}
	}

	for _, cr := range x.rules {
		if cr.dict >= 0 {
			if hits[cr.dict] {
				return classificationOf(cr.rule)
			}
			continue
		}
		if matches(key, cr.pattern, cr.rule.MatchType) {
			return classificationOf(cr.rule)
		}
	}
	return models.Classification{}
}

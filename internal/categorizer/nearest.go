package categorizer

import (
	"sort"
	"strings"
	"unicode/utf8"

	"fjacquet/statement-ingest/internal/models"
	"fjacquet/statement-ingest/internal/textutils"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// NearMiss is a rule whose pattern is within a few edits of a description.
type NearMiss struct {
	Rule     models.MerchantRule
	Distance int // Levenshtein distance to the closest window of the description
}

// Closest returns up to limit rules whose pattern almost occurs in
// description, closest first. It is a hint for rule authors and never
// changes what Classify matches.
func Closest(description string, rules []models.MerchantRule, limit int) []NearMiss {
	key := textutils.NormalizeForCompare(description)
	if key == "" || limit <= 0 {
		return nil
	}
	words := strings.Fields(key)

	var near []NearMiss
	for _, rule := range rules {
		pattern := textutils.NormalizeForCompare(rule.Pattern)
		if pattern == "" {
			continue
		}
		d := windowDistance(pattern, key, words)
		if d <= maxEdits(pattern) {
			near = append(near, NearMiss{Rule: rule, Distance: d})
		}
	}

	sort.SliceStable(near, func(i, j int) bool {
		return near[i].Distance < near[j].Distance
	})
	if len(near) > limit {
		near = near[:limit]
	}
	return near
}

// windowDistance compares pattern with every run of the same number of
// words in the description.
func windowDistance(pattern, key string, words []string) int {
	n := len(strings.Fields(pattern))
	if n > len(words) {
		return fuzzy.LevenshteinDistance(pattern, key)
	}
	best := -1
	for i := 0; i+n <= len(words); i++ {
		d := fuzzy.LevenshteinDistance(pattern, strings.Join(words[i:i+n], " "))
		if best < 0 || d < best {
			best = d
		}
	}
	return best
}

// maxEdits allows one edit per four characters, and at least one.
func maxEdits(pattern string) int {
	return max(1, utf8.RuneCountInString(pattern)/4)
}

package models

// MatchType selects how a rule pattern is compared with a description.
type MatchType string

const (
	MatchContains   MatchType = "contains"
	MatchStartsWith MatchType = "starts_with"
	MatchEndsWith   MatchType = "ends_with"
	MatchEquals     MatchType = "equals"
)

// Valid reports whether m is a known match type.
func (m MatchType) Valid() bool {
	switch m {
	case MatchContains, MatchStartsWith, MatchEndsWith, MatchEquals:
		return true
	}
	return false
}

// MerchantRule is a user-owned pattern rule. The rule engine only reads it.
type MerchantRule struct {
	ID           string    `yaml:"id" db:"id"`
	Pattern      string    `yaml:"pattern" db:"pattern"`
	MatchType    MatchType `yaml:"match_type" db:"match_type"`
	MerchantName *string   `yaml:"merchant_name,omitempty" db:"merchant_name"`
	CategoryID   *string   `yaml:"category_id,omitempty" db:"category_id"`
	Priority     int       `yaml:"priority" db:"priority"`
}

// RulesFile is the YAML document holding a rule set.
type RulesFile struct {
	Rules []MerchantRule `yaml:"rules"`
}

// Classification is the rule engine result. All fields are nil when nothing
// matched.
type Classification struct {
	MerchantName *string
	CategoryID   *string
	RuleID       *string
}

// Matched reports whether a rule produced this classification.
func (c Classification) Matched() bool {
	return c.RuleID != nil
}

// StringPtr returns a pointer to s, or nil for the empty string.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns *s or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

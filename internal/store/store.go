// Package store holds the persistence collaborators of the ingestion
// pipeline: the merchant rule sources (YAML file, PostgreSQL) and the
// transaction sinks (PostgreSQL, CSV).
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/statement-ingest/internal/logging"
	"fjacquet/statement-ingest/internal/models"
	"fjacquet/statement-ingest/internal/parsererror"

	"gopkg.in/yaml.v3"
)

// DefaultRulesFile is looked up when no rules file is configured.
const DefaultRulesFile = "merchant_rules.yaml"

// RuleStore loads and saves merchant rules kept in a YAML file.
type RuleStore struct {
	RulesFile string
	logger    logging.Logger
}

// NewRuleStore creates a store for rulesFile. An empty name means
// DefaultRulesFile.
func NewRuleStore(rulesFile string, logger logging.Logger) *RuleStore {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if rulesFile == "" {
		rulesFile = DefaultRulesFile
	}
	return &RuleStore{RulesFile: rulesFile, logger: logger}
}

// FindConfigFile looks for a configuration file in standard locations.
func (s *RuleStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
		filepath.Join("database", filename),
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		configPath := filepath.Join(homeDir, ".config", "statement-ingest", filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	return "", os.ErrNotExist
}

// LoadRules reads the rule set. A missing file is an empty rule set, not an
// error: classification then simply never matches.
func (s *RuleStore) LoadRules(_ context.Context) ([]models.MerchantRule, error) {
	path, err := s.FindConfigFile(s.RulesFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("Merchant rules file not found", logging.F(logging.FieldFile, s.RulesFile))
			return []models.MerchantRule{}, nil
		}
		return nil, &parsererror.RuleSourceError{Source: s.RulesFile, Err: err}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &parsererror.RuleSourceError{Source: path, Err: err}
	}

	var file models.RulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &parsererror.RuleSourceError{Source: path, Err: fmt.Errorf("error parsing rules: %w", err)}
	}

	rules, err := normalizeRules(file.Rules)
	if err != nil {
		return nil, &parsererror.RuleSourceError{Source: path, Err: err}
	}

	s.logger.Debug("Loaded merchant rules",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(rules)))
	return rules, nil
}

// SaveRules writes the rule set, creating the file under ./database when it
// does not exist yet.
func (s *RuleStore) SaveRules(rules []models.MerchantRule) error {
	filePath, err := s.FindConfigFile(s.RulesFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("error resolving rules file: %w", err)
		}
		filePath = s.RulesFile
		if !filepath.IsAbs(filePath) {
			filePath = filepath.Join("database", filePath)
		}
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	data, err := yaml.Marshal(models.RulesFile{Rules: rules})
	if err != nil {
		return fmt.Errorf("error marshaling rules: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0600); err != nil {
		return fmt.Errorf("error writing rules: %w", err)
	}

	s.logger.Debug("Saved merchant rules",
		logging.F(logging.FieldFile, filePath),
		logging.F(logging.FieldCount, len(rules)))
	return nil
}

// normalizeRules fills in defaults (contains, generated ids) and rejects
// unknown match types.
func normalizeRules(rules []models.MerchantRule) ([]models.MerchantRule, error) {
	out := make([]models.MerchantRule, len(rules))
	for i, r := range rules {
		if r.MatchType == "" {
			r.MatchType = models.MatchContains
		}
		if !r.MatchType.Valid() {
			return nil, &parsererror.ValidationError{
				Field:  fmt.Sprintf("rules[%d].match_type", i),
				Value:  string(r.MatchType),
				Reason: "must be one of contains, starts_with, ends_with, equals",
			}
		}
		if r.ID == "" {
			r.ID = fmt.Sprintf("rule-%03d", i+1)
		}
		out[i] = r
	}
	return out, nil
}

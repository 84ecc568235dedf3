package store

import (
	"context"
	"sync"

	"fjacquet/statement-ingest/internal/models"
)

// MockRuleStore is an in-memory rule source for tests.
type MockRuleStore struct {
	Rules        []models.MerchantRule
	LoadRulesErr error
}

// LoadRules returns a copy of the configured rules.
func (m *MockRuleStore) LoadRules(_ context.Context) ([]models.MerchantRule, error) {
	if m.LoadRulesErr != nil {
		return nil, m.LoadRulesErr
	}
	out := make([]models.MerchantRule, len(m.Rules))
	copy(out, m.Rules)
	return out, nil
}

// MemorySink collects inserted records, for tests and dry runs.
type MemorySink struct {
	InsertErr error

	mu      sync.Mutex
	records []models.InsertRecord
}

// Insert appends records.
func (m *MemorySink) Insert(_ context.Context, records []models.InsertRecord) (int, error) {
	if m.InsertErr != nil {
		return 0, m.InsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, records...)
	return len(records), nil
}

// Records returns what was inserted so far.
func (m *MemorySink) Records() []models.InsertRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.InsertRecord, len(m.records))
	copy(out, m.records)
	return out
}

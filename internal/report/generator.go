// Package report renders the outcome of a batch import for humans and
// scripts.
package report

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"fjacquet/statement-ingest/internal/batch"
	"fjacquet/statement-ingest/internal/logging"

	"gopkg.in/yaml.v3"
)

// ImportReport is the serialized form of a batch.Summary.
type ImportReport struct {
	GeneratedAt time.Time    `json:"generated_at" yaml:"generated_at"`
	Directory   string       `json:"directory" yaml:"directory"`
	Imported    int          `json:"imported" yaml:"imported"`
	Empty       int          `json:"empty" yaml:"empty"`
	Failed      int          `json:"failed" yaml:"failed"`
	Accounts    []Account    `json:"accounts" yaml:"accounts"`
	Files       []FileReport `json:"files" yaml:"files"`
}

// Account summarizes one account group.
type Account struct {
	ID     string `json:"id" yaml:"id"`
	Files  int    `json:"files" yaml:"files"`
	Period string `json:"period,omitempty" yaml:"period,omitempty"`
}

// FileReport is one imported file.
type FileReport struct {
	File       string `json:"file" yaml:"file"`
	AccountID  string `json:"account_id" yaml:"account_id"`
	Mode       string `json:"mode" yaml:"mode"`
	BatchID    string `json:"batch_id,omitempty" yaml:"batch_id,omitempty"`
	Parsed     int    `json:"parsed" yaml:"parsed"`
	Classified int    `json:"classified" yaml:"classified"`
	Inserted   int    `json:"inserted" yaml:"inserted"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
}

// ReportGenerator renders import reports in various formats.
type ReportGenerator struct {
	logger logging.Logger
	now    func() time.Time
}

// NewReportGenerator creates a new instance of ReportGenerator.
func NewReportGenerator(logger logging.Logger) *ReportGenerator {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &ReportGenerator{logger: logger, now: time.Now}
}

// FormatFromPath picks the report format from a file extension.
func FormatFromPath(path string) (string, error) {
	switch filepath.Ext(path) {
	case ".json":
		return "json", nil
	case ".yaml", ".yml":
		return "yaml", nil
	}
	return "", fmt.Errorf("unsupported report format for %s. Supported extensions are .json, .yaml and .yml", path)
}

// Build converts summary into a report.
func (g *ReportGenerator) Build(dir string, summary batch.Summary) *ImportReport {
	r := &ImportReport{
		GeneratedAt: g.now().UTC(),
		Directory:   dir,
		Imported:    summary.Imported,
		Empty:       summary.Empty,
		Failed:      summary.Failed,
		Accounts:    make([]Account, 0, len(summary.Groups)),
		Files:       make([]FileReport, 0, len(summary.Files)),
	}
	for _, group := range summary.Groups {
		r.Accounts = append(r.Accounts, Account{ID: group.AccountID, Files: len(group.Files), Period: group.Periods.String()})
	}
	for _, f := range summary.Files {
		fr := FileReport{
			File:       f.File,
			AccountID:  f.AccountID,
			Mode:       string(f.Mode),
			BatchID:    f.Result.BatchID,
			Parsed:     f.Result.Parsed,
			Classified: f.Result.Classified,
			Inserted:   f.Result.Inserted,
		}
		if f.Err != nil {
			fr.Error = f.Err.Error()
		}
		r.Files = append(r.Files, fr)
	}
	return r
}

// GenerateReport renders report as json or yaml.
func (g *ReportGenerator) GenerateReport(report *ImportReport, format string) ([]byte, error) {
	switch format {
	case "json":
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			g.logger.WithError(err).Error("Failed to marshal JSON report")
			return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
		}
		return out, nil
	case "yaml":
		out, err := yaml.Marshal(report)
		if err != nil {
			g.logger.WithError(err).Error("Failed to marshal YAML report")
			return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported report format: %s", format)
}

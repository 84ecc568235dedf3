// Package batch imports a directory of statements. Files are grouped by the
// account named in their file name and imported one by one, each as its own
// import batch; a failing file is reported and the run goes on.
package batch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"time"

	"fjacquet/statement-ingest/internal/fileutils"
	"fjacquet/statement-ingest/internal/ingest"
	"fjacquet/statement-ingest/internal/logging"
)

// Mode selects the pipeline used for each file.
type Mode string

const (
	ModeText Mode = "text"
	ModeOCR  Mode = "ocr"
	// ModeAuto tries the text layer first and runs OCR when it yields no row.
	ModeAuto Mode = "auto"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeText, ModeOCR, ModeAuto:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown batch mode %q (must be %q, %q or %q)", s, ModeText, ModeOCR, ModeAuto)
}

// Importer is the part of ingest.Importer a batch needs.
type Importer interface {
	ImportPDF(ctx context.Context, accountID string, r io.Reader) (ingest.Result, error)
	ImportOCR(ctx context.Context, accountID string, r io.Reader) (ingest.Result, error)
}

// DateRange represents a date range with start and end dates
type DateRange struct {
	Start time.Time
	End   time.Time
}

// String returns the date range in the format "YYYY-MM_YYYY-MM"
func (dr DateRange) String() string {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s_%s", dr.Start.Format("2006-01"), dr.End.Format("2006-01"))
}

// Merge combines this date range with another, returning the overall range
func (dr DateRange) Merge(other DateRange) DateRange {
	start, end := dr.Start, dr.End
	if start.IsZero() || (!other.Start.IsZero() && other.Start.Before(start)) {
		start = other.Start
	}
	if end.IsZero() || (!other.End.IsZero() && other.End.After(end)) {
		end = other.End
	}
	return DateRange{Start: start, End: end}
}

// FileGroup represents a group of files that belong to the same account
type FileGroup struct {
	AccountID string
	Files     []string
	Periods   DateRange
}

// FileResult is the outcome of one file.
type FileResult struct {
	File      string
	AccountID string
	Mode      Mode
	Result    ingest.Result
	Err       error
}

// Summary is the outcome of a run.
type Summary struct {
	Groups   []FileGroup
	Files    []FileResult
	Imported int
	Empty    int
	Failed   int
}

// Processor runs batch imports.
type Processor struct {
	importer       Importer
	defaultAccount string
	mode           Mode
	logger         logging.Logger
}

// NewProcessor builds a processor. Files whose name carries no account are
// imported under defaultAccount.
func NewProcessor(importer Importer, defaultAccount string, mode Mode, logger logging.Logger) *Processor {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if mode == "" {
		mode = ModeAuto
	}
	return &Processor{importer: importer, defaultAccount: defaultAccount, mode: mode, logger: logger}
}

// GroupFilesByAccount groups files by the account in their file name,
// ordered by account, files in lexical order within a group.
func (p *Processor) GroupFilesByAccount(files []string) []FileGroup {
	byAccount := make(map[string]*FileGroup)
	for _, file := range files {
		account := ExtractAccountFromFilename(file, p.defaultAccount)
		p.logger.Debug("File mapped to account",
			logging.F(logging.FieldFile, filepath.Base(file)),
			logging.F(logging.FieldAccountID, account.ID),
			logging.F("source", account.Source))

		group, ok := byAccount[account.ID]
		if !ok {
			group = &FileGroup{AccountID: account.ID}
			byAccount[account.ID] = group
		}
		group.Files = append(group.Files, file)
		if !account.Period.IsZero() {
			group.Periods = group.Periods.Merge(DateRange{Start: account.Period, End: account.Period})
		}
	}

	groups := make([]FileGroup, 0, len(byAccount))
	for _, group := range byAccount {
		sort.Strings(group.Files)
		groups = append(groups, *group)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].AccountID < groups[j].AccountID
	})
	return groups
}

// Run imports every PDF under dir. Per-file failures are collected in the
// summary; only a listing failure or a canceled context stops the run.
func (p *Processor) Run(ctx context.Context, dir string) (Summary, error) {
	files, err := fileutils.ListFilesWithExtension(dir, ".pdf")
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{Groups: p.GroupFilesByAccount(files)}
	p.logger.Info("Grouped files into account groups",
		logging.F(logging.FieldCount, len(files)),
		logging.F("account_groups", len(summary.Groups)))

	for _, group := range summary.Groups {
		for _, file := range group.Files {
			if err := ctx.Err(); err != nil {
				return summary, err
			}
			res := p.importFile(ctx, group.AccountID, file)
			switch {
			case res.Err != nil:
				summary.Failed++
				p.logger.WithError(res.Err).Error("Failed to import file",
					logging.F(logging.FieldFile, file),
					logging.F(logging.FieldAccountID, group.AccountID))
			case res.Result.Parsed == 0:
				summary.Empty++
			default:
				summary.Imported++
			}
			summary.Files = append(summary.Files, res)
		}
	}

	p.logger.Info("Batch import finished",
		logging.F("imported", summary.Imported),
		logging.F("empty", summary.Empty),
		logging.F("failed", summary.Failed))
	return summary, nil
}

func (p *Processor) importFile(ctx context.Context, accountID, file string) FileResult {
	out := FileResult{File: file, AccountID: accountID, Mode: p.mode}

	data, err := fileutils.ReadFile(file)
	if err != nil {
		out.Err = err
		return out
	}

	switch p.mode {
	case ModeText:
		out.Result, out.Err = p.importer.ImportPDF(ctx, accountID, bytes.NewReader(data))
	case ModeOCR:
		out.Result, out.Err = p.importer.ImportOCR(ctx, accountID, bytes.NewReader(data))
	default:
		out.Mode = ModeText
		out.Result, out.Err = p.importer.ImportPDF(ctx, accountID, bytes.NewReader(data))
		if out.Err == nil && out.Result.Parsed == 0 {
			p.logger.Info("Text layer yielded no transactions, running OCR", logging.F(logging.FieldFile, file))
			out.Mode = ModeOCR
			out.Result, out.Err = p.importer.ImportOCR(ctx, accountID, bytes.NewReader(data))
		}
	}
	return out
}

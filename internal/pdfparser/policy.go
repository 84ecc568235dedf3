package pdfparser

import (
	"strings"

	"fjacquet/statement-ingest/internal/currencyutils"
)

// AmountPolicy chooses which Argentine-format amount token of a line is the
// transaction amount.
type AmountPolicy interface {
	Name() string
	// SelectAmount returns the [start, end) span of the chosen token in s.
	// from is the offset where an installment marker (and its receipt)
	// ended, or -1 when the line has no marker.
	SelectAmount(s string, from int) (start, end int, ok bool)
}

type lastInLine struct{}

func (lastInLine) Name() string { return "last_in_line" }

func (lastInLine) SelectAmount(s string, _ int) (int, int, bool) {
	all := currencyutils.MoneyPattern.FindAllStringIndex(s, -1)
	if len(all) == 0 {
		return 0, 0, false
	}
	last := all[len(all)-1]
	return last[0], last[1], true
}

type firstAfterMarker struct{}

func (firstAfterMarker) Name() string { return "first_after_marker" }

func (firstAfterMarker) SelectAmount(s string, from int) (int, int, bool) {
	if from < 0 || from > len(s) {
		from = 0
	}
	loc := currencyutils.MoneyPattern.FindStringIndex(s[from:])
	if loc == nil {
		return 0, 0, false
	}
	return from + loc[0], from + loc[1], true
}

// installmentAware reads the per-period amount right after a cuota marker,
// since installment lines put trailing informational figures after it, and
// falls back to the last amount otherwise.
type installmentAware struct{}

func (installmentAware) Name() string { return "installment_aware" }

func (installmentAware) SelectAmount(s string, from int) (int, int, bool) {
	if from >= 0 {
		return firstAfterMarker{}.SelectAmount(s, from)
	}
	return lastInLine{}.SelectAmount(s, from)
}

// Built-in amount policies.
var (
	LastInLine       AmountPolicy = lastInLine{}
	FirstAfterMarker AmountPolicy = firstAfterMarker{}
	InstallmentAware AmountPolicy = installmentAware{}
)

// PolicyByName resolves a configured policy name.
func PolicyByName(name string) (AmountPolicy, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case LastInLine.Name(), "last":
		return LastInLine, true
	case FirstAfterMarker.Name(), "first":
		return FirstAfterMarker, true
	case InstallmentAware.Name(), "auto":
		return InstallmentAware, true
	}
	return nil, false
}

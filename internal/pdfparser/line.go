package pdfparser

import (
	"regexp"
	"sort"
	"strings"

	"fjacquet/statement-ingest/internal/categorizer"
	"fjacquet/statement-ingest/internal/currencyutils"
	"fjacquet/statement-ingest/internal/dateutils"
	"fjacquet/statement-ingest/internal/models"
	"fjacquet/statement-ingest/internal/textutils"

	"github.com/shopspring/decimal"
)

// Reasons a logical line is dropped. Only used for debug logging.
const (
	reasonNoDate         = "no date"
	reasonInvalidDate    = "invalid date"
	reasonEmpty          = "nothing after date"
	reasonAcknowledgment = "payment acknowledgment"
	reasonAggregate      = "aggregate line"
	reasonNoMarker       = "no entry marker"
	reasonNoAmount       = "no amount"
	reasonNoLetters      = "description without letters"
)

var (
	leadingDate        = regexp.MustCompile(`^\d{2}[.\-/]\d{2}[.\-/]\d{2,4}\b\s*`)
	aggregateMarker    = regexp.MustCompile(`(?i)\b(?:TOTAL|SALDO|VENCIMIENTO)\b`)
	aggregateHeading   = regexp.MustCompile(`^(?:SALDO (?:ANTERIOR|ACTUAL|PENDIENTE|DEUDOR|A PAGAR)|TOTAL (?:CONSUMOS|A PAGAR|DEL MES|GENERAL)|PAGO MINIMO|(?:PROXIMO )?VENCIMIENTO)\b`)
	entryMarker        = regexp.MustCompile(`^(?:\*|K\b)\s*`)
	currencyDebris     = regexp.MustCompile(`(?i)U\$S|\bUSD\b|\$|€`)
	acknowledgeMarkers = []string{"GRACIAS POR SU PAGO"}
	stampDutyKeywords  = []string{"IMPUESTO DE SELLOS", "SELLO"}
)

// LineParser turns one logical line into a transaction candidate.
// It is stateless and safe for concurrent use.
type LineParser struct {
	profile Profile
}

// NewLineParser returns a parser for the given sub-format. A profile without
// a policy uses InstallmentAware.
func NewLineParser(profile Profile) *LineParser {
	if profile.Policy == nil {
		profile.Policy = InstallmentAware
	}
	return &LineParser{profile: profile}
}

// Profile returns the sub-format in use.
func (p *LineParser) Profile() Profile {
	return p.profile
}

// ParseLine extracts a row from line, or reports false when the line is not
// a transaction.
func (p *LineParser) ParseLine(line string) (models.ParsedTransaction, bool) {
	tx, reason := p.parse(line)
	return tx, reason == ""
}

type span struct{ start, end int }

func (p *LineParser) parse(line string) (models.ParsedTransaction, string) {
	loc := shortDatePattern.FindStringSubmatchIndex(line)
	if loc == nil {
		return models.ParsedTransaction{}, reasonNoDate
	}
	date, ok := dateutils.ShortDateToISO(line[loc[2]:loc[3]], line[loc[4]:loc[5]], line[loc[6]:loc[7]])
	if !ok {
		return models.ParsedTransaction{}, reasonInvalidDate
	}

	rest := strings.TrimSpace(line[loc[1]:])
	// A second date is the posting date.
	rest = strings.TrimSpace(leadingDate.ReplaceAllString(rest, ""))
	if rest == "" {
		return models.ParsedTransaction{}, reasonEmpty
	}

	key := textutils.NormalizeForCompare(rest)
	for _, marker := range acknowledgeMarkers {
		if strings.Contains(key, marker) {
			return models.ParsedTransaction{}, reasonAcknowledgment
		}
	}
	if isAggregateLine(key) {
		return models.ParsedTransaction{}, reasonAggregate
	}
	// A marker only ends the entry when the entry's amount came before it;
	// otherwise it is part of the description (CARGA SALDO SUBE).
	if agg := aggregateMarker.FindStringIndex(rest); agg != nil && currencyutils.MoneyPattern.MatchString(rest[:agg[0]]) {
		rest = strings.TrimSpace(rest[:agg[0]])
		if !textutils.HasLetter(rest) {
			return models.ParsedTransaction{}, reasonAggregate
		}
		key = textutils.NormalizeForCompare(rest)
	}

	if isStampDuty(key) {
		return p.parseStampDuty(date, rest)
	}
	if p.profile.RequireEntryMarker && !entryMarker.MatchString(rest) {
		return models.ParsedTransaction{}, reasonNoMarker
	}
	return p.parseEntry(date, rest, p.profile.Policy)
}

// parseEntry handles ordinary consumption, payment and installment lines.
func (p *LineParser) parseEntry(date, rest string, policy AmountPolicy) (models.ParsedTransaction, string) {
	var (
		removed []span
		inst    *models.Installment
		receipt string
		from    = -1
	)

	if p.profile.DetectInstallments {
		if m, ok := findInstallment(rest); ok {
			inst = m.installment
			removed = append(removed, span{m.start, m.end})
			from = m.end
			if r := receiptPattern.FindStringSubmatchIndex(rest[from:]); r != nil {
				receipt = rest[from+r[2] : from+r[3]]
				removed = append(removed, span{from + r[2], from + r[3]})
				from += r[1]
			}
		}
	}

	start, end, ok := policy.SelectAmount(rest, from)
	if !ok {
		return models.ParsedTransaction{}, reasonNoAmount
	}
	amount, ok := currencyutils.ParseMoneyAR(rest[start:end])
	if !ok {
		return models.ParsedTransaction{}, reasonNoAmount
	}
	removed = append(removed, span{start, end})

	if receipt == "" {
		if r := findReceipt(rest[:start]); r != nil {
			receipt = rest[r.start:r.end]
			removed = append(removed, *r)
		}
	}

	return p.build(date, p.cleanDescription(rest, removed), amount, inst, receipt)
}

// parseStampDuty reads IMPUESTO DE SELLOS lines, which carry no entry marker
// and no cuota, always with the last amount of the line.
func (p *LineParser) parseStampDuty(date, rest string) (models.ParsedTransaction, string) {
	start, end, ok := LastInLine.SelectAmount(rest, -1)
	if !ok {
		return models.ParsedTransaction{}, reasonNoAmount
	}
	amount, ok := currencyutils.ParseMoneyAR(rest[start:end])
	if !ok {
		return models.ParsedTransaction{}, reasonNoAmount
	}
	return p.build(date, p.cleanDescription(rest, []span{{start, end}}), amount, nil, "")
}

func (p *LineParser) build(date, desc string, amount decimal.Decimal, inst *models.Installment, receipt string) (models.ParsedTransaction, string) {
	if !textutils.HasLetter(desc) {
		return models.ParsedTransaction{}, reasonNoLetters
	}
	b := models.NewTransactionBuilder(models.SourceText).
		WithDate(date).
		WithDescription(desc).
		WithAmount(amount).
		WithReceipt(receipt).
		WithType(categorizer.InferType(textutils.NormalizeForCompare(desc)))
	if inst != nil {
		b = b.WithInstallment(inst.Number, inst.Total)
	}
	tx, err := b.Build()
	if err != nil {
		return models.ParsedTransaction{}, err.Error()
	}
	return tx, ""
}

// isAggregateLine reports statement summary lines: a known heading, or an
// aggregate marker followed by nothing but amounts and dates.
func isAggregateLine(key string) bool {
	key = strings.TrimSpace(strings.TrimLeft(key, "* "))
	if aggregateHeading.MatchString(key) {
		return true
	}
	loc := aggregateMarker.FindStringIndex(key)
	if loc == nil || loc[0] != 0 {
		return false
	}
	return !textutils.HasLetter(currencyutils.MoneyPattern.ReplaceAllString(key[loc[1]:], " "))
}

func isStampDuty(key string) bool {
	for _, kw := range stampDutyKeywords {
		if strings.Contains(key, kw) {
			return true
		}
	}
	return false
}

// findReceipt looks for a standalone 6-digit voucher number.
func findReceipt(s string) *span {
	for _, f := range wordSpans(s) {
		if f.end-f.start == 6 && isDigits(s[f.start:f.end]) {
			sp := f
			return &sp
		}
	}
	return nil
}

func wordSpans(s string) []span {
	var out []span
	start := -1
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ' ' {
			if start >= 0 {
				out = append(out, span{start, i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	return out
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// cleanDescription removes the extracted tokens from rest, then any leftover
// amounts and currency debris. A leading K is only an entry marker in
// profiles that require one; elsewhere it can start a name (K MART).
func (p *LineParser) cleanDescription(rest string, removed []span) string {
	sort.Slice(removed, func(i, j int) bool { return removed[i].start < removed[j].start })

	var b strings.Builder
	pos := 0
	for _, sp := range removed {
		if sp.start < pos {
			continue
		}
		b.WriteString(rest[pos:sp.start])
		b.WriteByte(' ')
		pos = sp.end
	}
	b.WriteString(rest[pos:])

	desc := currencyutils.MoneyPattern.ReplaceAllString(b.String(), " ")
	desc = currencyDebris.ReplaceAllString(desc, " ")
	desc = textutils.CollapseSpaces(desc)
	if p.profile.RequireEntryMarker {
		desc = entryMarker.ReplaceAllString(desc, "")
	}
	return textutils.CollapseSpaces(strings.Trim(desc, "*- "))
}

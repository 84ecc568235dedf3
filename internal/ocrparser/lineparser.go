package ocrparser

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"fjacquet/statement-ingest/internal/categorizer"
	"fjacquet/statement-ingest/internal/currencyutils"
	"fjacquet/statement-ingest/internal/dateutils"
	"fjacquet/statement-ingest/internal/models"
	"fjacquet/statement-ingest/internal/pdfparser"
	"fjacquet/statement-ingest/internal/textutils"

	"github.com/shopspring/decimal"
)

var (
	usdHint     = regexp.MustCompile(`(?i)\bU\$S\b|\bUSD\b|\bDOLAR(?:ES)?\b`)
	strayStar   = regexp.MustCompile(`\s*\*\s*`)
	currencyTok = regexp.MustCompile(`(?i)U\$S|\bUSD\b|\$`)
)

// ParseLine reads one OCR line laid out as
// [*] day month-name year [receipt] [*] description [C.NN/NN] amounts.
func ParseLine(line Line) (models.ParsedTransaction, bool) {
	return parseTokens(line.Tokens())
}

func parseTokens(tokens []string) (models.ParsedTransaction, bool) {
	i := 0
	if i < len(tokens) && tokens[i] == "*" {
		i++
	}
	if len(tokens)-i < 4 {
		return models.ParsedTransaction{}, false
	}

	day, ok := CorrectDay(tokens[i])
	if !ok {
		return models.ParsedTransaction{}, false
	}
	date, ok := dateutils.ToISODateFromSpanish(strconv.Itoa(day), tokens[i+1], tokens[i+2])
	if !ok {
		return models.ParsedTransaction{}, false
	}
	i += 3

	var receipt string
	if i < len(tokens) && isReceipt(tokens[i]) {
		receipt = tokens[i]
		i++
	}
	if i < len(tokens) && tokens[i] == "*" {
		i++
	}

	inst, rest := pdfparser.ExtractInstallment(strings.Join(tokens[i:], " "))

	amounts := currencyutils.MoneyPattern.FindAllStringIndex(rest, -1)
	if len(amounts) == 0 {
		return models.ParsedTransaction{}, false
	}

	hasUSD := usdHint.MatchString(rest)
	primary := amounts[len(amounts)-1]
	var secondary []int
	if hasUSD && len(amounts) >= 2 {
		primary, secondary = amounts[len(amounts)-2], amounts[len(amounts)-1]
	}

	amount, ok := currencyutils.ParseMoneyAR(rest[primary[0]:primary[1]])
	if !ok {
		return models.ParsedTransaction{}, false
	}
	amount = amount.Abs()

	var usd decimal.NullDecimal
	if secondary != nil {
		if v, ok := currencyutils.ParseMoneyAR(rest[secondary[0]:secondary[1]]); ok {
			usd = decimal.NullDecimal{Decimal: v.Abs(), Valid: true}
		}
	}
	amount = repairThousands(amount, usd)

	// Amounts in front of the selected one are not columns of this row.
	desc := describe(currencyutils.MoneyPattern.ReplaceAllString(rest[:primary[0]], " "))
	if !textutils.HasLetter(desc) {
		return models.ParsedTransaction{}, false
	}

	b := models.NewTransactionBuilder(models.SourceOCR).
		WithDate(date).
		WithDescription(desc).
		WithAmount(amount).
		WithReceipt(receipt).
		WithType(categorizer.InferType(textutils.NormalizeForCompare(desc)))
	if inst != nil {
		b = b.WithInstallment(inst.Number, inst.Total)
	}
	if usd.Valid {
		b = b.WithAmountUSD(usd.Decimal)
	}
	tx, err := b.Build()
	if err != nil {
		return models.ParsedTransaction{}, false
	}
	return tx, true
}

// repairThousands multiplies a suspiciously small peso amount when the line
// also carries a positive dollar amount.
func repairThousands(amount decimal.Decimal, usd decimal.NullDecimal) decimal.Decimal {
	if !usd.Valid || !usd.Decimal.IsPositive() {
		return amount
	}
	if amount.LessThan(decimal.NewFromInt(USDThousandsThreshold)) {
		return amount.Mul(decimal.NewFromInt(USDThousandsFactor))
	}
	return amount
}

// describe cleans the text in front of the amounts: currency hints go,
// '*' delimiters become " * ".
func describe(s string) string {
	s = currencyTok.ReplaceAllString(s, " ")
	s = strayStar.ReplaceAllString(s, " * ")
	s = textutils.CollapseSpaces(s)
	return strings.TrimSpace(strings.Trim(s, "*"))
}

// ParseLines parses every line, drops duplicates and sorts by date. Rows of
// the same date keep their reading order.
func ParseLines(lines []Line) []models.ParsedTransaction {
	seen := make(map[string]bool)
	out := make([]models.ParsedTransaction, 0, len(lines))
	for _, line := range lines {
		tx, ok := ParseLine(line)
		if !ok {
			continue
		}
		key := DedupKey(tx)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, tx)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// DedupKey is date|receipt|amount|description prefix.
func DedupKey(tx models.ParsedTransaction) string {
	desc := textutils.Truncate(textutils.NormalizeForCompare(tx.Description), DedupDescriptionPrefix)
	return strings.Join([]string{tx.Date, tx.Receipt, tx.Amount.StringFixed(2), desc}, "|")
}

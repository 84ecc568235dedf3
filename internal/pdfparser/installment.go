package pdfparser

import (
	"regexp"
	"strconv"

	"fjacquet/statement-ingest/internal/models"
	"fjacquet/statement-ingest/internal/textutils"
)

// installmentPattern matches C.NN/NN, C NN/NN, CUOTA NN/NN and the bare
// NN/NN some issuers print after the merchant name.
var installmentPattern = regexp.MustCompile(`(?i)(?:\bC(?:UOTAS?)?[.\s]\s*)?\b(\d{1,2})/(\d{1,2})\b`)

// receiptPattern is the 6-digit voucher number (comprobante).
var receiptPattern = regexp.MustCompile(`^\s*(\d{6})\b`)

type installmentMatch struct {
	installment *models.Installment
	start, end  int
}

// findInstallment returns the first valid cuota marker of s. A fraction
// touching another '/' is part of a date and is skipped.
func findInstallment(s string) (installmentMatch, bool) {
	for _, loc := range installmentPattern.FindAllStringSubmatchIndex(s, -1) {
		if (loc[1] < len(s) && s[loc[1]] == '/') || (loc[0] > 0 && s[loc[0]-1] == '/') {
			continue
		}
		number, _ := strconv.Atoi(s[loc[2]:loc[3]])
		total, _ := strconv.Atoi(s[loc[4]:loc[5]])
		if inst := models.NewInstallment(number, total); inst != nil {
			return installmentMatch{installment: inst, start: loc[0], end: loc[1]}, true
		}
	}
	return installmentMatch{}, false
}

// ExtractInstallment pulls a cuota marker out of desc. Without a marker the
// description is returned unchanged and the installment is nil.
func ExtractInstallment(desc string) (*models.Installment, string) {
	m, ok := findInstallment(desc)
	if !ok {
		return nil, desc
	}
	return m.installment, textutils.CollapseSpaces(desc[:m.start] + " " + desc[m.end:])
}

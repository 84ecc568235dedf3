package pdfparser

import "regexp"

// Profile is the statement sub-format the line parser runs with.
type Profile struct {
	Name string
	// Policy selects the amount token.
	Policy AmountPolicy
	// DetectInstallments enables the C.NN/NN cuota path.
	DetectInstallments bool
	// RequireEntryMarker drops lines lacking the leading '*' or 'K' that
	// consumption lines carry. Stamp-duty lines are exempt.
	RequireEntryMarker bool
}

var (
	// ProfileInstallmentCard fits credit card statements with cuotas.
	ProfileInstallmentCard = Profile{
		Name:               "installment_card",
		Policy:             InstallmentAware,
		DetectInstallments: true,
	}

	// ProfileMarkedCard is ProfileInstallmentCard restricted to marked
	// consumption lines.
	ProfileMarkedCard = Profile{
		Name:               "marked_card",
		Policy:             InstallmentAware,
		DetectInstallments: true,
		RequireEntryMarker: true,
	}

	// ProfilePlain fits account statements: one amount column, no cuotas.
	ProfilePlain = Profile{
		Name:   "plain",
		Policy: LastInLine,
	}
)

var (
	cuotaHint       = regexp.MustCompile(`(?i)\bC(?:UOTAS?)?[.\s]\s*\d{1,2}/\d{1,2}\b`)
	markedEntryHint = regexp.MustCompile(`(?m)\b\d{2}[.\-/]\d{2}[.\-/]\d{2,4}\s+[*K]\s`)
)

// ProfileByName resolves a configured profile name.
func ProfileByName(name string) (Profile, bool) {
	for _, p := range []Profile{ProfileInstallmentCard, ProfileMarkedCard, ProfilePlain} {
		if p.Name == name {
			return p, true
		}
	}
	return Profile{}, false
}

// DetectFormat picks a profile from the whole statement text: cuota markers
// or marked consumption lines mean a card statement.
func DetectFormat(text string) Profile {
	if cuotaHint.MatchString(text) || markedEntryHint.MatchString(text) {
		return ProfileInstallmentCard
	}
	return ProfilePlain
}

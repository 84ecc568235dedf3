package ocrparser

import (
	"strconv"
	"strings"
)

// OCR heuristics. Each constant encodes a failure mode observed on scanned
// card statements and has its own test.
const (
	// Days read as 80-89 or 60-69 are a misread leading "0"; fold them back
	// to 0-9.
	FoldHighStart = 80
	FoldHighEnd   = 89
	FoldLowStart  = 60
	FoldLowEnd    = 69

	// MaxDay bounds a calendar day; larger readings keep only their last
	// digit.
	MaxDay = 31

	// MisreadFiveDay is the day assigned to the letter pairs the engine
	// produces for the glyph "05".
	MisreadFiveDay = 5

	// MinReceiptDigits is the shortest numeric token after the year that is
	// taken as a voucher number.
	MinReceiptDigits = 3

	// USDThousandsThreshold and USDThousandsFactor repair a peso amount whose
	// thousands separator was dropped on a line with a dollar column.
	USDThousandsThreshold = 1000
	USDThousandsFactor    = 1000

	// DedupDescriptionPrefix is how much of the normalised description goes
	// into the deduplication key.
	DedupDescriptionPrefix = 40
)

var misreadFiveTokens = map[string]bool{"es": true, "os": true, "ss": true}

// CorrectDay turns a noisy day token into a day of month, reporting false
// when nothing usable remains.
func CorrectDay(token string) (int, bool) {
	token = strings.ToLower(strings.TrimSpace(token))
	if misreadFiveTokens[token] {
		return MisreadFiveDay, true
	}

	n, err := strconv.Atoi(token)
	if err != nil || n < 0 {
		return 0, false
	}
	n = foldDay(n)
	if n < 1 || n > MaxDay {
		return 0, false
	}
	return n, true
}

func foldDay(n int) int {
	switch {
	case n >= FoldHighStart && n <= FoldHighEnd:
		return n - FoldHighStart
	case n >= FoldLowStart && n <= FoldLowEnd:
		return n - FoldLowStart
	case n > MaxDay:
		return n % 10
	}
	return n
}

// isReceipt reports whether token is an all-digit voucher number.
func isReceipt(token string) bool {
	if len(token) < MinReceiptDigits {
		return false
	}
	for _, r := range token {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

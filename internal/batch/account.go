package batch

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Statement files are named {account}_{YYYY-MM}[_{suffix}].pdf, e.g.
// visa-gold_2024-10.pdf or visa-gold_2024-10_rescan.pdf.
var statementFilenamePattern = regexp.MustCompile(`(?i)^(.+?)_(\d{4}-\d{2})(?:_[^.]*)?\.pdf$`)

// AccountIdentifier is an account extracted from a file name.
type AccountIdentifier struct {
	ID     string
	Period time.Time // first day of the statement month, zero when unknown
	Source string    // "filename" or "default"
}

// ExtractAccountFromFilename reads the account and statement month from a
// statement file name, falling back to defaultAccount.
func ExtractAccountFromFilename(filename, defaultAccount string) AccountIdentifier {
	matches := statementFilenamePattern.FindStringSubmatch(filepath.Base(filename))
	if len(matches) == 3 {
		period, err := time.Parse("2006-01", matches[2])
		if err == nil {
			return AccountIdentifier{ID: SanitizeAccountID(matches[1]), Period: period, Source: "filename"}
		}
	}
	return AccountIdentifier{ID: defaultAccount, Source: "default"}
}

// SanitizeAccountID sanitizes an account identifier to be filesystem-safe.
// Path traversal sequences are removed.
func SanitizeAccountID(accountID string) string {
	sanitized := strings.ReplaceAll(strings.TrimSpace(accountID), " ", "_")

	var result strings.Builder
	for _, r := range sanitized {
		if (r >= 'a' && r <= 'z') ||
			(r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') ||
			r == '_' || r == '-' || r == '.' {
			result.WriteRune(r)
		} else {
			result.WriteRune('_')
		}
	}
	sanitized = result.String()

	for strings.Contains(sanitized, "..") {
		sanitized = strings.ReplaceAll(sanitized, "..", "_")
	}
	for strings.Contains(sanitized, "__") {
		sanitized = strings.ReplaceAll(sanitized, "__", "_")
	}
	sanitized = strings.Trim(sanitized, "_.")

	if sanitized == "" {
		sanitized = "UNKNOWN"
	}
	return sanitized
}

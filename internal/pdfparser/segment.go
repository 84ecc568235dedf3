package pdfparser

import (
	"regexp"
	"strings"

	"fjacquet/statement-ingest/internal/textutils"
)

// shortDatePattern anchors a logical line: DD[.-/]MM[.-/]YY(YY).
var shortDatePattern = regexp.MustCompile(`\b(\d{2})[.\-/](\d{2})[.\-/](\d{4}|\d{2})\b`)

var layoutReplacer = strings.NewReplacer("\r\n", "\n", "\r", "\n", "\t", " ", " ", " ")

// SegmentLines rebuilds one logical line per transaction from extracted text.
// A physical line holding a short date opens a new logical line; any other
// non-blank line is appended to the open one. Text before the first date is
// discarded.
func SegmentLines(text string) []string {
	var (
		lines   []string
		current strings.Builder
		open    bool
	)

	for _, raw := range strings.Split(layoutReplacer.Replace(text), "\n") {
		line := textutils.CollapseSpaces(raw)
		if line == "" {
			continue
		}

		if shortDatePattern.MatchString(line) {
			if open {
				lines = append(lines, current.String())
			}
			current.Reset()
			current.WriteString(line)
			open = true
			continue
		}

		if open {
			current.WriteByte(' ')
			current.WriteString(line)
		}
	}

	if open {
		lines = append(lines, current.String())
	}
	return lines
}

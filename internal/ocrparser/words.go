package ocrparser

import (
	"sort"
	"strings"
)

// Box is a word bounding box in page pixels.
type Box struct {
	Left, Top, Width, Height int
}

func (b Box) center() int { return b.Top + b.Height/2 }

// Word is one recognised token.
type Word struct {
	Text       string
	Box        Box
	Confidence float64
}

// Line is a visual line of words, left to right.
type Line struct {
	Words []Word
}

// Tokens returns the non-empty word texts of the line.
func (l Line) Tokens() []string {
	tokens := make([]string, 0, len(l.Words))
	for _, w := range l.Words {
		tokens = append(tokens, strings.Fields(w.Text)...)
	}
	return tokens
}

// Text joins the line tokens with single spaces.
func (l Line) Text() string {
	return strings.Join(l.Tokens(), " ")
}

// GroupWords rebuilds visual lines from a flat word list: a word joins the
// current line when its vertical center falls inside the line's band.
// Lines come out top to bottom, words left to right.
func GroupWords(words []Word) []Line {
	if len(words) == 0 {
		return nil
	}

	sorted := make([]Word, len(words))
	copy(sorted, words)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Box.center() < sorted[j].Box.center()
	})

	var (
		lines               []Line
		current             []Word
		bandTop, bandBottom int
	)
	flush := func() {
		if len(current) == 0 {
			return
		}
		sort.SliceStable(current, func(i, j int) bool { return current[i].Box.Left < current[j].Box.Left })
		lines = append(lines, Line{Words: current})
		current = nil
	}

	for _, w := range sorted {
		c := w.Box.center()
		if len(current) > 0 && c >= bandTop && c <= bandBottom {
			current = append(current, w)
			if bottom := w.Box.Top + w.Box.Height; bottom > bandBottom {
				bandBottom = bottom
			}
			continue
		}
		flush()
		current = []Word{w}
		bandTop, bandBottom = w.Box.Top, w.Box.Top+w.Box.Height
	}
	flush()
	return lines
}

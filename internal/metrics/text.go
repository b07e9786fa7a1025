package metrics

import (
	"strings"
	"unicode/utf8"
)

// TextShape holds size counts for a message. It never retains the text.
type TextShape struct {
	Bytes int
	Runes int
	Words int
	Lines int
}

// MeasureText computes byte, rune, word and line counts for s.
func MeasureText(s string) TextShape {
	return TextShape{
		Bytes: len(s),
		Runes: utf8.RuneCountInString(s),
		Words: len(strings.Fields(s)),
		Lines: countLines(s),
	}
}

// Fields renders the shape for an event payload.
func (t TextShape) Fields() map[string]any {
	return map[string]any{
		"bytes": t.Bytes,
		"runes": t.Runes,
		"words": t.Words,
		"lines": t.Lines,
	}
}

// countLines returns 0 for empty strings; otherwise 1 plus the number of '\n' runes.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	return 1 + strings.Count(s, "\n")
}

package bayes

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Tokenize lower-cases text and splits it on runs of whitespace. There is no
// punctuation stripping or stemming.
func Tokenize(text string) []string {
	// A Caser keeps state between calls, so each call gets its own.
	lowered := cases.Lower(language.Und).String(text)
	return strings.FieldsFunc(lowered, isSpace)
}

// isSpace also treats the ASCII file, group, record and unit separators
// as whitespace.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

func isBlank(text string) bool {
	return strings.TrimFunc(text, isSpace) == ""
}

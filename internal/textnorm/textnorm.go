// Package textnorm folds text for comparisons: accents removed, lower-cased,
// whitespace collapsed.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StripAccents removes combining marks after NFD decomposition ("ção" -> "cao").
func StripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Fold returns the comparison form of s: accent-free, lower case, single spaces.
func Fold(s string) string {
	return strings.ToLower(Collapse(StripAccents(s)))
}

// Collapse trims s and collapses internal whitespace runs to one space.
func Collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Words splits folded text into tokens of letters and digits.
func Words(s string) []string {
	return strings.FieldsFunc(Fold(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

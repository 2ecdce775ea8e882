// Package match provides title normalization and fuzzy matching for series search.
package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize prepares a title for comparison.
// Lowercases, folds full-width characters to half-width (anime titles mix
// both), strips accents and punctuation, and collapses whitespace.
func Normalize(title string) string {
	s := strings.ToLower(title)

	// NFKC folds full-width forms (ＡＢＣ１２３) to their ASCII equivalents
	// before accent stripping.
	s = foldWidth(s)
	s = removeAccents(s)

	s = strings.ReplaceAll(s, "&", " and ")
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, ".", " ")

	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	s = b.String()

	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

func foldWidth(s string) string {
	result, _, err := transform.String(norm.NFKC, s)
	if err != nil {
		return s
	}
	return result
}

func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

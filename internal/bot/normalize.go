// internal/bot/normalize.go
package bot

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	stripMarks   = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	nonAlnumRe   = regexp.MustCompile(`[^a-z0-9\s]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Normalize folds Vietnamese text to an unaccented ASCII key: lower-case,
// đ mapped to d, combining marks stripped, punctuation replaced by spaces
// and runs of whitespace collapsed. The result is idempotent, so keyword
// tables and user input can both be stored pre-normalized.
func Normalize(s string) string {
	s = strings.ToLower(s)
	// NFD does not decompose đ, it is a base letter with no combining mark.
	s = strings.ReplaceAll(s, "đ", "d")

	folded, _, err := transform.String(stripMarks, s)
	if err == nil {
		s = folded
	}

	s = nonAlnumRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// containsAny reports whether any of the normalized needles occurs as a
// substring of the normalized haystack.
func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

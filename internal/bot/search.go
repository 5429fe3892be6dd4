// internal/bot/search.go
package bot

import "strings"

// stopTokens are normalized words dropped before a title search: summary
// verbs, filler and politeness words that never identify a book.
var stopTokens = map[string]struct{}{
	"tom": {}, "tat": {}, "tong": {},
	"noi": {}, "dung": {},
	"gioi": {}, "thieu": {},
	"cuon": {}, "quyen": {}, "sach": {}, "ve": {},
	"plot": {}, "summary": {},
	"cho": {}, "toi": {}, "ban": {}, "minh": {}, "nha": {}, "nhe": {},
	"giup": {}, "cua": {}, "xin": {}, "hay": {},
}

// searchPatterns turns a user message into the ILIKE patterns for a title
// lookup. Stop words and single-letter tokens are dropped; the original
// (accented) spelling of each surviving word is kept so the database match
// sees the same diacritics the catalog stores. When everything is filtered
// out, the whole message is used as a single pattern.
func searchPatterns(userText string) []string {
	var patterns []string
	for _, w := range strings.Fields(userText) {
		wn := Normalize(w)
		if wn == "" || len(wn) <= 1 {
			continue
		}
		if _, stop := stopTokens[wn]; stop {
			continue
		}
		patterns = append(patterns, strings.TrimSpace(w))
	}

	if len(patterns) == 0 {
		trimmed := strings.TrimSpace(userText)
		if trimmed == "" {
			return nil
		}
		patterns = []string{trimmed}
	}
	return patterns
}

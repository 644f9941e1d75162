package feed

import (
	"strings"
	"unicode"
)

// NormalizeTitle lowers a headline title into its comparison form:
// lowercase, punctuation stripped, whitespace collapsed. Two headlines
// with equal normalized titles are the same story.
func NormalizeTitle(title string) string {
	var b strings.Builder
	lastSpace := true

	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r):
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
	}

	return strings.TrimSpace(b.String())
}

// TrimSourceSuffix drops the trailing " - Outlet Name" segment Google
// News appends to item titles. Titles without the separator pass
// through unchanged.
func TrimSourceSuffix(title string) string {
	if idx := strings.LastIndex(title, " - "); idx > 0 {
		return strings.TrimSpace(title[:idx])
	}
	return strings.TrimSpace(title)
}

// SignificantTokens returns the normalized words of a title long
// enough to carry meaning for overlap matching.
func SignificantTokens(title string) []string {
	var tokens []string
	for _, tok := range strings.Fields(NormalizeTitle(title)) {
		if len(tok) >= 4 {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// TitleMatches reports whether two titles share at least minOverlap
// significant tokens, the test for an outlet item covering a headline.
func TitleMatches(a, b string, minOverlap int) bool {
	if minOverlap <= 0 {
		minOverlap = 2
	}

	tokens := make(map[string]bool)
	for _, tok := range SignificantTokens(a) {
		tokens[tok] = true
	}

	overlap := 0
	seen := make(map[string]bool)
	for _, tok := range SignificantTokens(b) {
		if tokens[tok] && !seen[tok] {
			seen[tok] = true
			overlap++
			if overlap >= minOverlap {
				return true
			}
		}
	}
	return false
}

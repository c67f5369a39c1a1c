package excerpt

import (
	"regexp"
	"strings"
)

var tokenRe = regexp.MustCompile(`[\p{L}\p{N}]+`)

var stopwords = func() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at",
		"by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "its", "this", "that",
		"these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such",
		"into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off",
		"own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
		"what", "which", "who", "whom", "why", "when", "where", "how", "do", "does", "did", "i", "me", "my",
		"we", "our", "you", "your", "there", "any", "all", "some", "have", "has", "had", "show", "tell",
		"give", "please", "s",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()

// Keywords returns the distinct lowercase question terms used for scoring.
// Stopwords, pure numbers and single characters are dropped.
func Keywords(question string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, tok := range tokenRe.FindAllString(strings.ToLower(question), -1) {
		if len([]rune(tok)) < 2 || isNumber(tok) || seen[tok] {
			continue
		}
		if _, stop := stopwords[tok]; stop {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}

func isNumber(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// score weights each keyword occurrence in text by the keyword's length.
// text must already be lowercase.
func score(text string, keywords []string) int {
	total := 0
	for _, kw := range keywords {
		total += strings.Count(text, kw) * len(kw)
	}
	return total
}

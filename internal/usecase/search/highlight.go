package search

import (
	"fmt"
	"html"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/labassist/internal/domain/search"
)

const (
	// prefixProbeLength is the rune length of the prefix probe for long highlights.
	prefixProbeLength = 50
	// cooccurrenceWords is how many of the longest highlight words the co-occurrence probe uses.
	cooccurrenceWords = 3
	// cooccurrenceGap bounds the characters allowed between co-occurring words.
	cooccurrenceGap = 200
)

var (
	markupRe = regexp.MustCompile(`<[^>]*>`)
	wordRe   = regexp.MustCompile(`[\p{L}\p{N}]+`)
)

// RecoverHighlights cleans each snippet and locates it in body.
// Snippets that cannot be located keep search.UnknownPosition. Empty and duplicate snippets are dropped.
func RecoverHighlights(body string, snippets []string) []search.Highlight {
	if len(snippets) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(snippets))
	out := make([]search.Highlight, 0, len(snippets))
	for _, raw := range snippets {
		text := CleanHighlight(raw)
		if text == "" || seen[text] {
			continue
		}
		seen[text] = true
		out = append(out, search.Highlight{Position: Locate(body, text), Text: text})
	}
	return out
}

// CleanHighlight strips markup, decodes entities and collapses whitespace.
func CleanHighlight(s string) string {
	s = markupRe.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}

// Locate returns the byte offset of text in body, or search.UnknownPosition.
// Probes in order: whole text, 50-rune prefix (long text only), co-occurrence of
// the three longest words. Matching is case-insensitive and whitespace-tolerant.
func Locate(body, text string) int {
	if body == "" || text == "" {
		return search.UnknownPosition
	}
	if pos := find(body, flexPattern(text)); pos >= 0 {
		return pos
	}
	if utf8.RuneCountInString(text) > prefixProbeLength {
		if pos := find(body, flexPattern(runePrefix(text, prefixProbeLength))); pos >= 0 {
			return pos
		}
	}
	if pattern := cooccurrencePattern(text); pattern != "" {
		if pos := find(body, pattern); pos >= 0 {
			return pos
		}
	}
	return search.UnknownPosition
}

func find(body, pattern string) int {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return search.UnknownPosition
	}
	loc := re.FindStringIndex(body)
	if loc == nil {
		return search.UnknownPosition
	}
	return loc[0]
}

// flexPattern quotes text and lets any whitespace run match any other.
func flexPattern(text string) string {
	fields := strings.Fields(text)
	for i, f := range fields {
		fields[i] = regexp.QuoteMeta(f)
	}
	return strings.Join(fields, `\s+`)
}

// cooccurrencePattern joins the longest words, in order of appearance, with bounded gaps.
// Returns "" when fewer than two usable words exist.
func cooccurrencePattern(text string) string {
	type word struct {
		text  string
		index int
	}
	var words []word
	for i, w := range wordRe.FindAllString(text, -1) {
		if utf8.RuneCountInString(w) >= 3 {
			words = append(words, word{text: w, index: i})
		}
	}
	if len(words) < 2 {
		return ""
	}

	sort.SliceStable(words, func(i, j int) bool {
		return utf8.RuneCountInString(words[i].text) > utf8.RuneCountInString(words[j].text)
	})
	if len(words) > cooccurrenceWords {
		words = words[:cooccurrenceWords]
	}
	sort.Slice(words, func(i, j int) bool { return words[i].index < words[j].index })

	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = regexp.QuoteMeta(w.text)
	}
	return strings.Join(parts, fmt.Sprintf(`[\s\S]{0,%d}?`, cooccurrenceGap))
}

func runePrefix(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

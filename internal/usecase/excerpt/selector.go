// Package excerpt narrows long documents to the section most relevant to a question.
package excerpt

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/labassist/internal/domain/search"
)

// Strategy names how an excerpt was chosen.
type Strategy string

// Strategies in the order they are attempted.
const (
	StrategyUntouched        Strategy = "untouched"
	StrategyHighlight        Strategy = "highlight"
	StrategyHighlightsJoined Strategy = "highlights_joined"
	StrategyPhrase           Strategy = "phrase"
	StrategyWindow           Strategy = "window"
	StrategyPrefix           Strategy = "prefix"
)

var (
	// sectionMarkerRe matches heading-like lines: numbered headings, chapter or
	// section labels, all-caps lines and separator rules.
	sectionMarkerRe = regexp.MustCompile(`(?m)^[ \t]*(?:` +
		`\d+(?:\.\d+)*\.?[ \t]+\p{Lu}[^\n]{0,80}` +
		`|(?i:chapter|section|part)[ \t]+(?:\d+(?:\.\d+)*|[IVXLC]+)\b[^\n]{0,80}` +
		`|\p{Lu}[\p{Lu}\d \t\-:&/,()]{2,78}[\p{Lu}\d)]` +
		`|[-=_*#]{3,}` +
		`)[ \t]*$`)

	pageRe = regexp.MustCompile(`(?i)\bpage\s+(\d{1,4})(?:\s*(?:of|/)\s*\d{1,4})?\b`)
)

// Selector picks the relevant excerpt of a document. It is safe for concurrent use.
type Selector struct {
	cfg Config
}

// NewSelector creates a selector. Non-positive thresholds take DefaultConfig values.
func NewSelector(cfg Config) *Selector {
	return &Selector{cfg: cfg.withDefaults()}
}

// Select returns doc with Content narrowed for question, and the strategy used.
// Only long-form documents whose body exceeds MinBodyLength are narrowed.
// The result's Content is either a substring of OriginalContent or a
// newline-joined set of highlight texts, and never exceeds MaxExcerptLength characters
// once narrowed.
func (s *Selector) Select(doc search.Document, question string) (search.Document, Strategy) {
	body := doc.OriginalContent
	if body == "" {
		body = doc.Content
		doc.OriginalContent = body
	}
	if doc.Kind() != search.KindLongForm || utf8.RuneCountInString(body) <= s.cfg.MinBodyLength {
		return doc, StrategyUntouched
	}

	keywords := Keywords(question)
	phrase := strings.TrimSpace(question)

	if len(doc.Highlights) > 0 {
		best := s.bestHighlight(doc.Highlights, keywords, phrase)
		if !best.Known() {
			if joined, ok := s.joinHighlights(doc.Highlights); ok {
				doc.Content = joined
				return doc, StrategyHighlightsJoined
			}
			return s.prefix(doc, body), StrategyPrefix
		}
		return s.section(doc, body, best.Position), StrategyHighlight
	}

	if phrase != "" {
		if loc := regexp.MustCompile("(?i)" + regexp.QuoteMeta(phrase)).FindStringIndex(body); loc != nil {
			return s.section(doc, body, loc[0]), StrategyPhrase
		}
	}

	if center, ok := s.bestWindow(body, keywords); ok {
		return s.section(doc, body, center), StrategyWindow
	}

	return s.prefix(doc, body), StrategyPrefix
}

// bestHighlight returns the highest-scoring highlight; ties keep the earliest.
func (s *Selector) bestHighlight(hs []search.Highlight, keywords []string, phrase string) search.Highlight {
	lowerPhrase := strings.ToLower(phrase)
	best, bestScore := hs[0], -1
	for _, h := range hs {
		lower := strings.ToLower(h.Text)
		sc := score(lower, keywords)
		if lowerPhrase != "" && strings.Contains(lower, lowerPhrase) {
			sc += s.cfg.PhraseBonus
		}
		if sc > bestScore {
			best, bestScore = h, sc
		}
	}
	return best
}

// joinHighlights concatenates distinct highlight texts with newlines,
// skipping entries that would push the result past MaxExcerptLength.
func (s *Selector) joinHighlights(hs []search.Highlight) (string, bool) {
	var b strings.Builder
	n := 0
	seen := make(map[string]bool, len(hs))
	for _, h := range hs {
		if h.Text == "" || seen[h.Text] {
			continue
		}
		seen[h.Text] = true
		size := utf8.RuneCountInString(h.Text)
		if n > 0 {
			size++
		}
		if n+size > s.cfg.MaxExcerptLength {
			continue
		}
		if n > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(h.Text)
		n += size
	}
	return b.String(), n > 0
}

// bestWindow slides a window over body and returns the start of the best-scoring one.
// ok is false when no window scores above zero.
func (s *Selector) bestWindow(body string, keywords []string) (int, bool) {
	if len(keywords) == 0 {
		return 0, false
	}
	best, bestScore := 0, 0
	for pos := 0; pos < len(body); pos += s.cfg.WindowStride {
		start := floorRune(body, pos)
		end := floorRune(body, min(start+s.cfg.WindowSize, len(body)))
		sc := score(strings.ToLower(body[start:end]), keywords)
		if sc > bestScore {
			best, bestScore = start, sc
		}
		if end == len(body) {
			break
		}
	}
	return best, bestScore > 0
}

// section bounds the excerpt around center using structural markers.
func (s *Selector) section(doc search.Document, body string, center int) search.Document {
	center = floorRune(body, min(max(center, 0), len(body)))

	start := max(0, center-s.cfg.LeadIn)
	startMarker := false
	if m, ok := lastMarker(body, max(0, center-s.cfg.BackwardScan), center); ok && center-m <= s.cfg.StartMarkerMaxDistance {
		start, startMarker = m, true
	}

	end := -1
	if m, ok := firstMarker(body, nextLine(body, center), min(len(body), center+s.cfg.ForwardScan)); ok &&
		m-center <= s.cfg.EndMarkerMaxDistance {
		end = m
	}
	if end <= start {
		if startMarker {
			end = start + s.cfg.MarkedSectionLength
		} else {
			end = start + s.cfg.UnmarkedSectionLength
		}
	}
	end = min(end, start+s.cfg.MaxExcerptLength, len(body))

	start = floorRune(body, start)
	end = floorRune(body, end)
	doc.Content = strings.TrimSpace(body[start:end])
	if page, ok := nearestPage(body, center, s.cfg.PageScanRadius); ok {
		doc.PageNumber = page
	}
	return doc
}

func (s *Selector) prefix(doc search.Document, body string) search.Document {
	limit := min(s.cfg.DefaultPrefixLength, s.cfg.MaxExcerptLength)
	doc.Content = runePrefix(body, limit)
	return doc
}

// lastMarker returns the start of the last marker beginning in body[from:to].
func lastMarker(body string, from, to int) (int, bool) {
	from, to = floorRune(body, from), floorRune(body, to)
	if from >= to {
		return 0, false
	}
	locs := sectionMarkerRe.FindAllStringIndex(body[from:to], -1)
	if len(locs) == 0 {
		return 0, false
	}
	return from + locs[len(locs)-1][0], true
}

// firstMarker returns the start of the first marker beginning in body[from:to].
func firstMarker(body string, from, to int) (int, bool) {
	from, to = floorRune(body, from), floorRune(body, to)
	if from >= to {
		return 0, false
	}
	loc := sectionMarkerRe.FindStringIndex(body[from:to])
	if loc == nil {
		return 0, false
	}
	return from + loc[0], true
}

// nextLine returns the offset just past the first newline at or after i.
func nextLine(body string, i int) int {
	if j := strings.IndexByte(body[i:], '\n'); j >= 0 {
		return i + j + 1
	}
	return len(body)
}

// nearestPage finds the "Page N" reference closest to center within radius.
func nearestPage(body string, center, radius int) (int, bool) {
	from := floorRune(body, max(0, center-radius))
	to := floorRune(body, min(len(body), center+radius))
	best, bestDist := 0, -1
	for _, m := range pageRe.FindAllStringSubmatchIndex(body[from:to], -1) {
		pos := from + m[0]
		dist := pos - center
		if dist < 0 {
			dist = -dist
		}
		if bestDist >= 0 && dist >= bestDist {
			continue
		}
		n, err := strconv.Atoi(body[from+m[2] : from+m[3]])
		if err != nil || n <= 0 {
			continue
		}
		best, bestDist = n, dist
	}
	return best, bestDist >= 0
}

// floorRune moves i back to the start of the rune containing it.
func floorRune(s string, i int) int {
	if i >= len(s) {
		return len(s)
	}
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

func runePrefix(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

package summary

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/labassist/internal/domain"
	"github.com/kailas-cloud/labassist/internal/domain/search"
)

// Prompt budget limits, in characters.
const (
	MaxDocuments       = 3
	MaxRows            = 8
	LongFormExcerptCap = 4000
	TabularExcerptCap  = 2500
	CompactExcerptCap  = 2000
	TotalExcerptCap    = 15000

	documentMaxTokens = 2000
	defaultMaxTokens  = 500
	temperature       = 0.3
)

const (
	documentSystemPrompt = "You are a lab operations assistant. You MUST extract and explain information ONLY " +
		"from the provided document excerpts. DO NOT provide generic answers. For CSV/tabular data with error " +
		"codes, the data is tab-separated with columns: Code, Error Name, Root Causes, Proactive Actions, " +
		"Reactive Actions. Extract the EXACT text from these columns. Format your answer with HTML: use <h3> " +
		"for section headings, <ul><li> for bullet lists, <p> for paragraphs, <strong> for emphasis, and " +
		"<br/> for line breaks. Always cite which document the information comes from (e.g., 'According to " +
		"[Document Name], page N...'). If the information isn't in the documents, say 'The information is " +
		"not available in the provided documents.'"

	rowsSystemPrompt = "You are a concise lab operations assistant. Summarize the tabular data in 1-2 clear " +
		"sentences, highlighting key insights."

	directSystemPrompt = "You are a helpful lab operations assistant. Answer the question directly and concisely."

	tabularNote = "[CSV/Tabular Error Code Data - columns are separated by tabs]"

	truncationNotice = "\n\n[Additional excerpts were truncated to fit the prompt size limit.]"

	criticalInstructions = `CRITICAL INSTRUCTIONS:
1. Answer using ONLY information from the document excerpts below - DO NOT make up or infer information
2. For questions about errors (like "heater error", "heater power error"), look for error code tables in the CSV documents
3. The CSV data is tab-separated. Find the row with the matching error code/name and extract:
   - Error Code number
   - Root Causes (exact text from the "Cause" or "Root Causes" column)
   - Proactive Actions (exact text from the "Proactive Actions" column)
   - Reactive Actions (exact text from the "Reactive Actions" column)
4. Copy the EXACT text from the documents - do not paraphrase or generalize
5. Format your answer with HTML: <h3>Root Causes</h3>, <ul><li> for lists, <p> for paragraphs
6. Cite the source document name, and the page number when one is given
7. DO NOT provide generic troubleshooting steps - only use what's in the documents

Example: If the document shows "Error 6: Heater power - Root Causes: Product compatibility, Heater physical damage - Proactive: Regularly verify analyzer application limits", extract and use that EXACT information.`
)

// buildRequest picks the prompt mode from the input shape.
func buildRequest(question string, rows []search.Row, docs []search.Document) domain.CompletionRequest {
	system := directSystemPrompt
	user := "Question: " + question + "\n"
	maxTokens := defaultMaxTokens

	switch {
	case len(docs) > 0:
		system = documentSystemPrompt
		user += "\n\n" + criticalInstructions + "\n\nRelevant document excerpts:\n" + documentBlock(docs)
		maxTokens = documentMaxTokens
	case len(rows) > 0:
		system = rowsSystemPrompt
		user += rowsBlock(rows)
	}

	return domain.CompletionRequest{
		Operation: "summary",
		Messages: []domain.Message{
			{Role: domain.RoleSystem, Content: system},
			{Role: domain.RoleUser, Content: user},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
}

func rowsBlock(rows []search.Row) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\nTotal count: %d\nData:\n", search.TotalCount(rows))
	for i, r := range rows {
		if i == MaxRows {
			break
		}
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s | %s | count=%d | status=%s", r.Date, r.TestType, r.Count, r.Status)
	}
	return b.String()
}

// documentBlock renders up to MaxDocuments excerpts, capped per document and in total.
func documentBlock(docs []search.Document) string {
	if len(docs) > MaxDocuments {
		docs = docs[:MaxDocuments]
	}

	parts := make([]string, 0, len(docs))
	total := 0
	truncated := false
	for i := range docs {
		part := documentSnippet(i+1, &docs[i])
		size := utf8.RuneCountInString(part)
		if total+size > TotalExcerptCap {
			if room := TotalExcerptCap - total; room > 0 {
				parts = append(parts, truncateRunes(part, room))
			}
			truncated = true
			break
		}
		parts = append(parts, part)
		total += size
	}

	out := strings.Join(parts, "\n\n---\n\n")
	if truncated {
		out += truncationNotice
	}
	return out
}

func documentSnippet(n int, doc *search.Document) string {
	kind := doc.Kind()
	content := doc.Content
	excerptCap := excerptCap(kind)
	suffix := ""
	if utf8.RuneCountInString(content) > excerptCap {
		content = truncateRunes(content, excerptCap)
		suffix = "..."
	}
	if kind == search.KindTabular {
		content = tabularNote + "\n" + content
	}
	return header(n, doc) + "\n" + content + suffix
}

func header(n int, doc *search.Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[Document %d: %s", n, doc.Name())
	if doc.PageNumber > 0 {
		b.WriteString(", page " + strconv.Itoa(doc.PageNumber))
	}
	if doc.SearchScore > 0 {
		fmt.Fprintf(&b, ", relevance %.2f", doc.SearchScore)
	}
	b.WriteByte(']')
	return b.String()
}

func excerptCap(kind search.Kind) int {
	switch kind {
	case search.KindLongForm:
		return LongFormExcerptCap
	case search.KindTabular:
		return TabularExcerptCap
	default:
		return CompactExcerptCap
	}
}

func truncateRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

package assistant

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/labassist/internal/domain/search"
)

// Fixed user-facing fallback texts.
const (
	NoResultsAnswer   = "No results found in the data source for this query."
	UnavailableAnswer = "I can’t answer this with the available resources."
	BestEffortAnswer  = "Here’s my best take based on what I know."
)

func rateLimitedAnswer(retryAfterSeconds int) string {
	retry := " Please try again in a few moments."
	if retryAfterSeconds > 0 {
		retry = fmt.Sprintf(" Please try again in about %d seconds.", retryAfterSeconds)
	}
	return "I found relevant documents about your query, but I'm currently experiencing high demand." + retry
}

func documentsUnprocessedAnswer(docs []search.Document) string {
	names := make([]string, len(docs))
	for i := range docs {
		names[i] = docs[i].Name()
	}
	return fmt.Sprintf("I found %d relevant document(s) about your query: %s. However, I encountered an issue "+
		"processing the content. Please try again or rephrase your question.", len(docs), strings.Join(names, ", "))
}

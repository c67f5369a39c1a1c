package assistant

import (
	"context"

	"github.com/kailas-cloud/labassist/internal/domain/plan"
	"github.com/kailas-cloud/labassist/internal/domain/search"
	"github.com/kailas-cloud/labassist/internal/usecase/excerpt"
)

// Planner decides how to answer a question. It never fails.
type Planner interface {
	Plan(ctx context.Context, question string) plan.Plan
}

// Searcher retrieves rows and documents for a query.
type Searcher interface {
	Search(ctx context.Context, query string, top int) (search.Result, error)
}

// Selector narrows a document to its relevant excerpt.
type Selector interface {
	Select(doc search.Document, question string) (search.Document, excerpt.Strategy)
}

// Summarizer composes the answer text from search results.
type Summarizer interface {
	Summarize(ctx context.Context, question string, rows []search.Row, docs []search.Document) (string, error)
}

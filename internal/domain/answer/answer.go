package answer

import (
	"github.com/kailas-cloud/labassist/internal/domain/plan"
	"github.com/kailas-cloud/labassist/internal/domain/search"
)

// Resolution names the branch that produced the final answer text.
type Resolution string

// Resolutions in priority order.
const (
	ResolutionSummary              Resolution = "summary"
	ResolutionGreeting             Resolution = "greeting"
	ResolutionRateLimited          Resolution = "rate_limited"
	ResolutionDocumentsUnprocessed Resolution = "documents_unprocessed"
	ResolutionNoResults            Resolution = "no_results"
	ResolutionUnavailable          Resolution = "unavailable"
	ResolutionBestEffort           Resolution = "best_effort"
)

// Answer is the final response for one question.
// Text and Rows are independent; either may be empty.
type Answer struct {
	Question       string
	Text           string
	Rows           []search.Row
	TotalCount     int
	UsedDataSource bool
	// DataSource is empty when no data source was used.
	DataSource plan.DataSource
	Resolution Resolution
}

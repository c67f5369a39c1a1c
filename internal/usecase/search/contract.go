package search

import (
	"context"

	"github.com/kailas-cloud/labassist/internal/domain/search"
)

// Index runs a raw query against the search service.
type Index interface {
	Search(ctx context.Context, text string, top int) ([]search.Hit, error)
}

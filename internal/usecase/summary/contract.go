package summary

import (
	"context"

	"github.com/kailas-cloud/labassist/internal/domain"
)

// Completer produces the summary text.
type Completer interface {
	Complete(ctx context.Context, req domain.CompletionRequest) (string, error)
}

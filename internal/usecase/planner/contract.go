package planner

import (
	"context"

	"github.com/kailas-cloud/labassist/internal/domain"
)

// Completer asks an LLM for the routing decision.
type Completer interface {
	Complete(ctx context.Context, req domain.CompletionRequest) (string, error)
}

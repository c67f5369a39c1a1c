// Package summary turns search results into a short answer through an LLM.
package summary

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/labassist/internal/domain"
	"github.com/kailas-cloud/labassist/internal/domain/search"
)

// Composer builds bounded prompts and asks the LLM for a summary.
type Composer struct {
	llm    Completer
	logger *zap.Logger
}

// New creates a composer. llm can be nil when no LLM is configured.
func New(llm Completer, logger *zap.Logger) *Composer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Composer{llm: llm, logger: logger}
}

// Summarize returns "" with a nil error when no LLM is configured or the reply has no content.
// Rate limiting surfaces as *domain.RateLimitError; any other provider failure is returned wrapped.
func (c *Composer) Summarize(ctx context.Context, question string, rows []search.Row, docs []search.Document) (string, error) {
	if c.llm == nil {
		return "", nil
	}

	text, err := c.llm.Complete(ctx, buildRequest(question, rows, docs))
	if err != nil {
		if errors.Is(err, domain.ErrRateLimited) {
			return "", err
		}
		return "", fmt.Errorf("summarize: %w", err)
	}
	if text == "" {
		c.logger.Warn("Summary returned no content",
			zap.Int("rows", len(rows)),
			zap.Int("documents", len(docs)),
		)
		return "", nil
	}

	c.logger.Debug("Summary completed", zap.Int("chars", len(text)))
	return text, nil
}

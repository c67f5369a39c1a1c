package planner

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/labassist/internal/domain/plan"
)

// Service decides whether a question needs external data and what to search for.
type Service struct {
	llm    Completer
	logger *zap.Logger
}

// New creates a planner. llm can be nil, in which case every plan is the heuristic fallback.
func New(llm Completer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{llm: llm, logger: logger}
}

// Plan never fails: any LLM or parse failure yields Fallback(question).
func (s *Service) Plan(ctx context.Context, question string) plan.Plan {
	fallback := Fallback(question)
	if s.llm == nil {
		return fallback
	}

	reply, err := s.llm.Complete(ctx, decisionRequest(question))
	if err != nil {
		s.logger.Warn("Plan decision failed, using heuristic", zap.Error(err))
		return fallback
	}
	if strings.TrimSpace(reply) == "" {
		s.logger.Warn("Plan decision returned no content, using heuristic")
		return fallback
	}

	p, err := parsePlan(reply, fallback)
	if err != nil {
		s.logger.Warn("Plan decision unparseable, using heuristic", zap.Error(err))
		return fallback
	}
	return p
}

// Package assistant sequences planning, search, excerpt selection and summarization into one answer.
package assistant

import (
	"context"
	"errors"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/kailas-cloud/labassist/internal/domain"
	"github.com/kailas-cloud/labassist/internal/domain/answer"
	"github.com/kailas-cloud/labassist/internal/domain/plan"
	"github.com/kailas-cloud/labassist/internal/domain/search"
	"github.com/kailas-cloud/labassist/internal/logger"
	"github.com/kailas-cloud/labassist/internal/metrics"
)

// Service answers questions. Upstream failures never escape; they become fallback text.
type Service struct {
	planner    Planner
	searcher   Searcher
	selector   Selector
	summarizer Summarizer
}

// New creates the orchestrator.
func New(planner Planner, searcher Searcher, selector Selector, summarizer Summarizer) *Service {
	return &Service{
		planner:    planner,
		searcher:   searcher,
		selector:   selector,
		summarizer: summarizer,
	}
}

// outcome collects what the pipeline produced before the text is resolved.
type outcome struct {
	plan        plan.Plan
	attempted   bool
	used        bool
	rows        []search.Row
	docs        []search.Document
	summary     string
	rateLimited *domain.RateLimitError
}

// Answer runs the pipeline for one question.
func (s *Service) Answer(ctx context.Context, question string) answer.Answer {
	log := logger.FromContext(ctx)

	o := outcome{plan: s.planner.Plan(ctx, question)}
	log.Info("Plan decided",
		zap.Bool("is_greeting", o.plan.IsGreeting),
		zap.Bool("data_source_required", o.plan.IsDataSourceRequired),
		zap.String("data_source", string(o.plan.DataSource)),
		zap.String("search_query", o.plan.SearchQuery),
		zap.Int("top", o.plan.Top),
	)

	if o.plan.UsesSearch() {
		s.search(ctx, question, &o)
	}
	if len(o.rows) > 0 || len(o.docs) > 0 {
		s.summarize(ctx, question, &o)
	}

	a := answer.Answer{
		Question:       question,
		Rows:           o.rows,
		TotalCount:     search.TotalCount(o.rows),
		UsedDataSource: o.used,
	}
	if o.used {
		a.DataSource = plan.AISearch
	}
	a.Text, a.Resolution = resolve(&o)

	metrics.AnswersTotal.WithLabelValues(string(a.Resolution)).Inc()
	log.Info("Answer resolved",
		zap.String("resolution", string(a.Resolution)),
		zap.Bool("used_data_source", a.UsedDataSource),
		zap.Int("rows", len(a.Rows)),
		zap.Int("total_count", a.TotalCount),
	)
	return a
}

func (s *Service) search(ctx context.Context, question string, o *outcome) {
	log := logger.FromContext(ctx)
	if s.searcher == nil {
		log.Warn("Search skipped: no search service configured")
		return
	}

	query := o.plan.SearchQuery
	if query == "" {
		query = question
	}

	o.attempted = true
	res, err := s.searcher.Search(ctx, query, o.plan.Top)
	if err != nil {
		log.Warn("Search failed, continuing without data source", zap.Error(err))
		return
	}
	o.used = true
	o.rows = res.Rows
	o.docs = res.Documents
}

func (s *Service) summarize(ctx context.Context, question string, o *outcome) {
	log := logger.FromContext(ctx)

	if s.selector != nil {
		for i := range o.docs {
			doc, strategy := s.selector.Select(o.docs[i], question)
			o.docs[i] = doc
			log.Debug("Excerpt selected",
				zap.String("document", doc.Name()),
				zap.String("strategy", string(strategy)),
				zap.Int("page", doc.PageNumber),
				zap.Int("original_chars", utf8.RuneCountInString(doc.OriginalContent)),
				zap.Int("excerpt_chars", utf8.RuneCountInString(doc.Content)),
			)
		}
	}

	if s.summarizer == nil {
		return
	}
	text, err := s.summarizer.Summarize(ctx, question, o.rows, o.docs)
	if err != nil {
		var rle *domain.RateLimitError
		if errors.As(err, &rle) {
			o.rateLimited = rle
		}
		log.Warn("Summary failed", zap.Bool("rate_limited", o.rateLimited != nil), zap.Error(err))
		return
	}
	o.summary = text
	log.Info("Summary produced", zap.Int("chars", len(text)))
}

// resolve picks the answer text by priority.
func resolve(o *outcome) (string, answer.Resolution) {
	p := o.plan
	switch {
	case o.summary != "":
		return o.summary, answer.ResolutionSummary
	case p.IsGreeting:
		return p.DefaultAnswer, answer.ResolutionGreeting
	case o.rateLimited != nil:
		return rateLimitedAnswer(o.rateLimited.RetryAfterSeconds), answer.ResolutionRateLimited
	case o.used && len(o.docs) > 0 && len(o.rows) == 0:
		return documentsUnprocessedAnswer(o.docs), answer.ResolutionDocumentsUnprocessed
	case o.attempted && len(o.rows) == 0 && len(o.docs) == 0:
		// A failed search lands here too.
		if p.DefaultAnswer != "" {
			return p.DefaultAnswer, answer.ResolutionNoResults
		}
		return NoResultsAnswer, answer.ResolutionNoResults
	case p.IsDataSourceRequired && !o.used:
		return UnavailableAnswer, answer.ResolutionUnavailable
	default:
		return BestEffortAnswer, answer.ResolutionBestEffort
	}
}

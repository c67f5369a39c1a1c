package search

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/kailas-cloud/labassist/internal/domain"
	"github.com/kailas-cloud/labassist/internal/domain/search"
)

const (
	// Wildcard matches every document in the index.
	Wildcard = "*"
	// DefaultTop applies when top is not positive.
	DefaultTop = 20
	// MaxTop is the largest result count ever requested.
	MaxTop = 50
	// MinDocumentLength is the content length a hit must exceed to count as a document.
	MinDocumentLength = 50
)

// Service shapes queries, runs them and classifies hits into rows and documents.
type Service struct {
	index  Index
	logger *zap.Logger
}

// New creates a search service. index can be nil when the search service is not configured.
func New(index Index, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{index: index, logger: logger}
}

// Search runs query with top clamped to [1, MaxTop].
// Returns domain.ErrConfigurationMissing when no index is configured.
func (s *Service) Search(ctx context.Context, query string, top int) (search.Result, error) {
	if s.index == nil {
		return search.Result{}, fmt.Errorf("search index: %w", domain.ErrConfigurationMissing)
	}

	text, top := ShapeQuery(query, top)
	hits, err := s.index.Search(ctx, text, top)
	if err != nil {
		return search.Result{}, fmt.Errorf("search %q: %w", text, err)
	}

	res := Classify(hits)
	s.logger.Info("Search completed",
		zap.String("search", text),
		zap.Int("top", top),
		zap.Int("hits", len(hits)),
		zap.Int("rows", len(res.Rows)),
		zap.Int("documents", len(res.Documents)),
	)
	return res, nil
}

// ShapeQuery replaces a blank query with Wildcard and clamps top.
func ShapeQuery(query string, top int) (string, int) {
	text := strings.TrimSpace(query)
	if text == "" {
		text = Wildcard
	}
	switch {
	case top <= 0:
		top = DefaultTop
	case top > MaxTop:
		top = MaxTop
	}
	return text, top
}

// Classify splits hits into structured rows and textual documents.
// A hit may produce both.
func Classify(hits []search.Hit) search.Result {
	var res search.Result
	for i := range hits {
		h := &hits[i]
		if h.TestType != "" || h.Status != "" {
			res.Rows = append(res.Rows, toRow(h))
		}
		if utf8.RuneCountInString(h.Content) > MinDocumentLength {
			res.Documents = append(res.Documents, toDocument(h))
		}
	}
	return res
}

func toRow(h *search.Hit) search.Row {
	row := search.Row{
		Date:       h.Date,
		TestType:   firstNonEmpty(h.TestType, h.Title, "N/A"),
		Count:      1,
		Status:     firstNonEmpty(h.Status, "Unknown"),
		Lab:        h.Lab,
		Instrument: h.Instrument,
	}
	if h.Count != nil {
		row.Count = *h.Count
	}
	return row
}

func toDocument(h *search.Hit) search.Document {
	snippets := h.Highlights
	if len(snippets) == 0 {
		snippets = h.Captions
	}
	return search.Document{
		ID:              h.ID,
		Title:           h.Title,
		Content:         h.Content,
		FileName:        firstNonEmpty(h.FileName, h.StorageName),
		FileType:        h.FileType,
		OriginalContent: h.Content,
		Highlights:      RecoverHighlights(h.Content, snippets),
		SearchScore:     h.Score,
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// Package azsearch is a REST client for an Azure AI Search index.
package azsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/labassist/internal/domain"
	"github.com/kailas-cloud/labassist/internal/domain/search"
	"github.com/kailas-cloud/labassist/internal/metrics"
)

// DefaultAPIVersion is the search REST API version used when none is configured.
const DefaultAPIVersion = "2025-08-01-preview"

// SelectFields is the field list requested for every hit.
const SelectFields = "id,title,content,lab,instrument,testType,status,date,count," +
	"fileName,fileType,metadata_storage_name"

// Highlight markup wrapped around matched terms.
const (
	HighlightPreTag  = "<em>"
	HighlightPostTag = "</em>"
)

// hit is the wire shape of one match.
type hit struct {
	ID                  string              `json:"id"`
	Title               string              `json:"title"`
	Content             string              `json:"content"`
	Lab                 string              `json:"lab"`
	Instrument          string              `json:"instrument"`
	TestType            string              `json:"testType"`
	Status              string              `json:"status"`
	Date                string              `json:"date"`
	Count               json.RawMessage     `json:"count"`
	FileName            string              `json:"fileName"`
	FileType            string              `json:"fileType"`
	MetadataStorageName string              `json:"metadata_storage_name"`
	Score               float64             `json:"@search.score"`
	Highlights          map[string][]string `json:"@search.highlights"`
	Captions            []caption           `json:"@search.captions"`
}

type caption struct {
	Text string `json:"text"`
}

// count returns the numeric count field, or nil when it is absent or not a number.
func (h *hit) count() *int {
	var f float64
	if len(h.Count) == 0 || bytes.Equal(h.Count, []byte("null")) || json.Unmarshal(h.Count, &f) != nil {
		return nil
	}
	n := int(f)
	return &n
}

func (h *hit) toDomain() search.Hit {
	out := search.Hit{
		ID:          h.ID,
		Title:       h.Title,
		Content:     h.Content,
		Lab:         h.Lab,
		Instrument:  h.Instrument,
		TestType:    h.TestType,
		Status:      h.Status,
		Date:        h.Date,
		Count:       h.count(),
		FileName:    h.FileName,
		FileType:    h.FileType,
		StorageName: h.MetadataStorageName,
		Score:       h.Score,
		Highlights:  h.Highlights["content"],
	}
	for _, c := range h.Captions {
		if c.Text != "" {
			out.Captions = append(out.Captions, c.Text)
		}
	}
	return out
}

type searchRequest struct {
	Search           string `json:"search"`
	Top              int    `json:"top"`
	Select           string `json:"select"`
	Highlight        string `json:"highlight"`
	HighlightPreTag  string `json:"highlightPreTag"`
	HighlightPostTag string `json:"highlightPostTag"`
}

type searchResponse struct {
	Value []hit `json:"value"`
}

// Option configures the search client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithAPIVersion overrides DefaultAPIVersion.
func WithAPIVersion(v string) Option {
	return func(c *Client) {
		if v != "" {
			c.apiVersion = v
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// Client talks to the docs/search endpoint of a single index.
type Client struct {
	endpoint   string
	apiKey     string
	index      string
	apiVersion string
	http       *http.Client
	logger     *zap.Logger
}

// NewClient creates a search client.
// Returns domain.ErrConfigurationMissing when endpoint, key or index is empty.
func NewClient(endpoint, apiKey, index string, opts ...Option) (*Client, error) {
	if endpoint == "" || apiKey == "" || index == "" {
		return nil, fmt.Errorf("search endpoint, key and index: %w", domain.ErrConfigurationMissing)
	}
	c := &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		apiKey:     apiKey,
		index:      index,
		apiVersion: DefaultAPIVersion,
		http: &http.Client{
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Search runs one query as given; shaping of text and top is the caller's job.
// Non-2xx responses become *domain.UpstreamError.
func (c *Client) Search(ctx context.Context, text string, top int) ([]search.Hit, error) {
	payload, err := json.Marshal(searchRequest{
		Search:           text,
		Top:              top,
		Select:           SelectFields,
		Highlight:        "content",
		HighlightPreTag:  HighlightPreTag,
		HighlightPostTag: HighlightPostTag,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	reqURL := fmt.Sprintf("%s/indexes/%s/docs/search?api-version=%s",
		c.endpoint, url.PathEscape(c.index), url.QueryEscape(c.apiVersion))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveUpstream(metrics.ServiceSearch, "search", "error", start)
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ObserveUpstream(metrics.ServiceSearch, "search", "error", start)
		return nil, fmt.Errorf("read search response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.ObserveUpstream(metrics.ServiceSearch, "search", "error", start)
		c.logger.Warn("search request failed",
			zap.Int("status", resp.StatusCode),
			zap.Duration("duration", time.Since(start)),
		)
		return nil, &domain.UpstreamError{Service: "search", StatusCode: resp.StatusCode, Body: string(body)}
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		metrics.ObserveUpstream(metrics.ServiceSearch, "search", "error", start)
		return nil, fmt.Errorf("unmarshal search response: %v: %w", err, domain.ErrMalformedResponse)
	}

	metrics.ObserveUpstream(metrics.ServiceSearch, "search", "ok", start)
	c.logger.Debug("search completed",
		zap.String("search", text),
		zap.Int("top", top),
		zap.Int("hits", len(parsed.Value)),
		zap.Duration("duration", time.Since(start)),
	)
	hits := make([]search.Hit, 0, len(parsed.Value))
	for i := range parsed.Value {
		hits = append(hits, parsed.Value[i].toDomain())
	}
	return hits, nil
}

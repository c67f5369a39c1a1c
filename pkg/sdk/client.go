package labassist

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/labassist/internal/domain/answer"
	"github.com/kailas-cloud/labassist/internal/domain/plan"
	"github.com/kailas-cloud/labassist/internal/transport/azsearch"
	openaiTransport "github.com/kailas-cloud/labassist/internal/transport/openai"
	"github.com/kailas-cloud/labassist/internal/usecase/assistant"
	"github.com/kailas-cloud/labassist/internal/usecase/excerpt"
	"github.com/kailas-cloud/labassist/internal/usecase/planner"
	searchuc "github.com/kailas-cloud/labassist/internal/usecase/search"
	"github.com/kailas-cloud/labassist/internal/usecase/summary"
)

// Internal interfaces so tests can swap the pipeline.
type answerer interface {
	Answer(ctx context.Context, question string) answer.Answer
}

type questionPlanner interface {
	Plan(ctx context.Context, question string) plan.Plan
}

// Client is the labassist SDK entry point. It is safe for concurrent use.
type Client struct {
	assistant answerer
	planner   questionPlanner
	obs       *observer

	searchEnabled bool
	llmEnabled    bool
}

// New wires the pipeline. Collaborators that were never configured are left
// out; a collaborator configured with missing values is ErrConfigurationMissing.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	// Interface values stay nil when a collaborator is absent; a typed nil
	// pointer would look configured to the use cases.
	var index searchuc.Index
	if cfg.searchEndpoint != "" || cfg.searchKey != "" || cfg.searchIndex != "" {
		searchOpts := []azsearch.Option{azsearch.WithAPIVersion(cfg.searchAPIVersion)}
		if cfg.httpClient != nil {
			searchOpts = append(searchOpts, azsearch.WithHTTPClient(cfg.httpClient))
		}
		c, err := azsearch.NewClient(cfg.searchEndpoint, cfg.searchKey, cfg.searchIndex, searchOpts...)
		if err != nil {
			return nil, fmt.Errorf("labassist: %w", err)
		}
		index = c
	}

	var llm *openaiTransport.Completer
	if cfg.llmEndpoint != "" || cfg.llmKey != "" || cfg.llmDeployment != "" || cfg.llmAPIVersion != "" {
		llm, err = openaiTransport.NewCompleter(&openaiTransport.Config{
			Endpoint:          cfg.llmEndpoint,
			APIKey:            cfg.llmKey,
			Deployment:        cfg.llmDeployment,
			APIVersion:        cfg.llmAPIVersion,
			RequestsPerMinute: cfg.llmRPM,
			HTTPClient:        cfg.httpClient,
		})
		if err != nil {
			return nil, fmt.Errorf("labassist: %w", err)
		}
	}

	var planLLM planner.Completer
	var summaryLLM summary.Completer
	if llm != nil {
		planLLM, summaryLLM = llm, llm
	}

	excerptCfg := excerpt.DefaultConfig()
	if cfg.maxExcerptLength > 0 {
		excerptCfg.MaxExcerptLength = cfg.maxExcerptLength
	}

	p := planner.New(planLLM, nil)
	return &Client{
		assistant: assistant.New(
			p,
			searchuc.New(index, nil),
			excerpt.NewSelector(excerptCfg),
			summary.New(summaryLLM, nil),
		),
		planner:       p,
		obs:           obs,
		searchEnabled: index != nil,
		llmEnabled:    llm != nil,
	}, nil
}

// Ask answers a question. Upstream failures never surface as errors: they
// become fallback text. The error is non-nil only when ctx is already done.
func (c *Client) Ask(ctx context.Context, question string) (Answer, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		c.obs.observe("ask", start, err)
		return Answer{}, fmt.Errorf("labassist: ask: %w", err)
	}

	a := answerFromDomain(c.assistant.Answer(ctx, question))
	c.obs.observe("ask", start, nil)
	c.obs.answered(a)
	return a, nil
}

// Plan returns the routing decision for a question without searching.
func (c *Client) Plan(ctx context.Context, question string) (Plan, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		c.obs.observe("plan", start, err)
		return Plan{}, fmt.Errorf("labassist: plan: %w", err)
	}

	p := c.planner.Plan(ctx, question)
	c.obs.observe("plan", start, nil)
	return planFromDomain(p), nil
}

// SearchEnabled reports whether a search index is configured.
func (c *Client) SearchEnabled() bool { return c.searchEnabled }

// ModelEnabled reports whether a language model is configured.
func (c *Client) ModelEnabled() bool { return c.llmEnabled }

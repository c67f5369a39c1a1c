package main

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/labassist/internal/config"
	"github.com/kailas-cloud/labassist/internal/db"
	"github.com/kailas-cloud/labassist/internal/db/memory"
	dbRedis "github.com/kailas-cloud/labassist/internal/db/redis"
	"github.com/kailas-cloud/labassist/internal/transport/azsearch"
	openaiTransport "github.com/kailas-cloud/labassist/internal/transport/openai"
	"github.com/kailas-cloud/labassist/internal/usecase/assistant"
	"github.com/kailas-cloud/labassist/internal/usecase/excerpt"
	healthuc "github.com/kailas-cloud/labassist/internal/usecase/health"
	"github.com/kailas-cloud/labassist/internal/usecase/planner"
	searchuc "github.com/kailas-cloud/labassist/internal/usecase/search"
	"github.com/kailas-cloud/labassist/internal/usecase/summary"
)

// newStore creates the chat/suggestion store for the configured driver.
// Redis and Valkey share the rueidis implementation.
func newStore(c config.StorageConfig) (db.Store, error) {
	switch c.Driver {
	case "memory":
		return memory.NewStore(), nil
	case "redis", "valkey":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    c.Addrs,
			Password: c.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("create %s store: %w", c.Driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", c.Driver)
	}
}

// newAssistant assembles planner -> search -> excerpt -> summary.
// Collaborators without full coordinates are left nil and their consumers fall back.
func newAssistant(c config.Config, logger *zap.Logger) (*assistant.Service, healthuc.Collaborators) {
	var collab healthuc.Collaborators

	// Interface values stay nil when absent: a typed nil pointer would look configured.
	var index searchuc.Index
	if c.Search.Enabled() {
		client, err := azsearch.NewClient(c.Search.Endpoint, c.Search.APIKey, c.Search.Index,
			azsearch.WithAPIVersion(c.Search.APIVersion),
			azsearch.WithHTTPClient(httpClient(c.Search.TimeoutSec)),
			azsearch.WithLogger(logger),
		)
		if err != nil {
			logger.Warn("Search client disabled", zap.Error(err))
		} else {
			index = client
			collab.Search = true
		}
	} else {
		logger.Warn("Search not configured; data questions will fall back to default answers")
	}

	var planLLM planner.Completer
	var summaryLLM summary.Completer
	if c.LLM.Enabled() {
		llm, err := openaiTransport.NewCompleter(&openaiTransport.Config{
			Endpoint:          c.LLM.Endpoint,
			APIKey:            c.LLM.APIKey,
			Deployment:        c.LLM.Deployment,
			APIVersion:        c.LLM.APIVersion,
			RequestsPerMinute: c.LLM.RequestsPerMinute,
			HTTPClient:        httpClient(c.LLM.TimeoutSec),
			Logger:            logger,
		})
		if err != nil {
			logger.Warn("LLM client disabled", zap.Error(err))
		} else {
			planLLM, summaryLLM = llm, llm
			collab.LLM = true
		}
	} else {
		logger.Warn("LLM not configured; using heuristic planning and no summaries")
	}

	svc := assistant.New(
		planner.New(planLLM, logger.Named("planner")),
		searchuc.New(index, logger.Named("search")),
		excerpt.NewSelector(excerptConfig(c.Excerpt)),
		summary.New(summaryLLM, logger.Named("summary")),
	)
	return svc, collab
}

func excerptConfig(c config.ExcerptConfig) excerpt.Config {
	return excerpt.Config{
		MinBodyLength:          c.MinBodyLength,
		BackwardScan:           c.BackwardScan,
		StartMarkerMaxDistance: c.StartMarkerMaxDistance,
		LeadIn:                 c.LeadIn,
		ForwardScan:            c.ForwardScan,
		EndMarkerMaxDistance:   c.EndMarkerMaxDistance,
		MarkedSectionLength:    c.MarkedSectionLength,
		UnmarkedSectionLength:  c.UnmarkedSectionLength,
		MaxExcerptLength:       c.MaxExcerptLength,
		DefaultPrefixLength:    c.DefaultPrefixLength,
		WindowSize:             c.WindowSize,
		WindowStride:           c.WindowStride,
		PhraseBonus:            c.PhraseBonus,
		PageScanRadius:         c.PageScanRadius,
	}
}

// httpClient returns a client with the given timeout; 0 means no client-side timeout.
func httpClient(timeoutSec int) *http.Client {
	return &http.Client{
		Timeout: time.Duration(timeoutSec) * time.Second,
		Transport: &http.Transport{
			MaxIdleConnsPerHost: 20,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

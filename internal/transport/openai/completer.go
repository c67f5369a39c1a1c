package openai

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kailas-cloud/labassist/internal/domain"
	"github.com/kailas-cloud/labassist/internal/metrics"
)

// Completer is a chat completion provider backed by an Azure OpenAI deployment.
type Completer struct {
	client     *openai.Client
	deployment string
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// Config holds the Azure OpenAI deployment settings.
type Config struct {
	Endpoint   string
	APIKey     string
	Deployment string
	APIVersion string
	// RequestsPerMinute throttles outgoing calls client-side. 0 disables throttling.
	RequestsPerMinute int
	HTTPClient        *http.Client
	Logger            *zap.Logger
}

// NewCompleter creates an Azure OpenAI chat completion provider.
// Returns domain.ErrConfigurationMissing when any coordinate is empty.
func NewCompleter(cfg *Config) (*Completer, error) {
	if cfg.Endpoint == "" || cfg.APIKey == "" || cfg.Deployment == "" || cfg.APIVersion == "" {
		return nil, fmt.Errorf("azure openai endpoint, key, deployment and api version: %w",
			domain.ErrConfigurationMissing)
	}

	clientCfg := openai.DefaultAzureConfig(cfg.APIKey, cfg.Endpoint)
	clientCfg.APIVersion = cfg.APIVersion
	deployment := cfg.Deployment
	clientCfg.AzureModelMapperFunc = func(string) string { return deployment }
	if cfg.HTTPClient != nil {
		clientCfg.HTTPClient = cfg.HTTPClient
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Completer{
		client:     openai.NewClientWithConfig(clientCfg),
		deployment: deployment,
		logger:     logger,
	}
	if cfg.RequestsPerMinute > 0 {
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1)
	}
	return c, nil
}

// Complete implements domain.Completer. Returns "" when the reply has no choices or no content.
func (c *Completer) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("llm throttle: %w", err)
		}
	}

	chatReq := openai.ChatCompletionRequest{
		Model:       c.deployment,
		Messages:    toMessages(req.Messages),
		MaxTokens:   req.MaxTokens,
		Temperature: temperature(req.Temperature),
	}
	if req.JSON {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		mapped := parseAPIError(err)
		status := "error"
		if errors.Is(mapped, domain.ErrRateLimited) {
			status = "rate_limited"
		}
		metrics.ObserveUpstream(metrics.ServiceLLM, req.Operation, status, start)
		c.logger.Warn("chat completion failed",
			zap.String("operation", req.Operation),
			zap.Duration("duration", time.Since(start)),
			zap.Error(mapped),
		)
		return "", mapped
	}

	metrics.ObserveUpstream(metrics.ServiceLLM, req.Operation, "ok", start)
	metrics.ObserveTokens(req.Operation, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func toMessages(msgs []domain.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(msgs))
	for _, m := range msgs {
		role := openai.ChatMessageRoleUser
		if m.Role == domain.RoleSystem {
			role = openai.ChatMessageRoleSystem
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return out
}

// temperature keeps an explicit 0 on the wire; the client drops zero values via omitempty.
func temperature(t float32) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return t
}

var retryAfterRe = regexp.MustCompile(`(?i)retry after (\d+) seconds?`)

// parseAPIError maps provider failures onto domain errors.
// 429 becomes *domain.RateLimitError, everything else *domain.UpstreamError.
func parseAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return domain.NewRateLimitError(retryAfter(apiErr.Message))
		}
		return &domain.UpstreamError{Service: "azure-openai", StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		body := strings.TrimSpace(string(reqErr.Body))
		if reqErr.HTTPStatusCode == http.StatusTooManyRequests {
			return domain.NewRateLimitError(retryAfter(body))
		}
		return &domain.UpstreamError{Service: "azure-openai", StatusCode: reqErr.HTTPStatusCode, Body: body}
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("chat completion: %w", err)
	}
	return fmt.Errorf("chat completion: %v: %w", err, domain.ErrUpstream)
}

// retryAfter extracts the "retry after N seconds" hint. Returns 0 when absent.
func retryAfter(msg string) int {
	m := retryAfterRe.FindStringSubmatch(msg)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

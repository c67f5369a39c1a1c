package labassist

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	searchEndpoint   string
	searchKey        string
	searchIndex      string
	searchAPIVersion string

	llmEndpoint   string
	llmKey        string
	llmDeployment string
	llmAPIVersion string
	llmRPM        int

	maxExcerptLength int

	httpClient *http.Client
	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithSearch configures the search index. All three values are required for
// search to be enabled.
func WithSearch(endpoint, apiKey, index string) Option {
	return optionFunc(func(c *clientConfig) {
		c.searchEndpoint = endpoint
		c.searchKey = apiKey
		c.searchIndex = index
	})
}

// WithSearchAPIVersion overrides the search REST API version.
func WithSearchAPIVersion(v string) Option {
	return optionFunc(func(c *clientConfig) {
		c.searchAPIVersion = v
	})
}

// WithAzureOpenAI configures the chat completion deployment used for planning
// and summarization. All four values are required for the model to be used.
func WithAzureOpenAI(endpoint, apiKey, deployment, apiVersion string) Option {
	return optionFunc(func(c *clientConfig) {
		c.llmEndpoint = endpoint
		c.llmKey = apiKey
		c.llmDeployment = deployment
		c.llmAPIVersion = apiVersion
	})
}

// WithRequestsPerMinute throttles model calls client-side. 0 disables throttling (default).
func WithRequestsPerMinute(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.llmRPM = n
	})
}

// WithMaxExcerptLength caps the section extracted from long manuals.
// Values outside 1..5000 keep the default of 5000.
func WithMaxExcerptLength(n int) Option {
	return optionFunc(func(c *clientConfig) {
		if n > 0 && n <= 5000 {
			c.maxExcerptLength = n
		}
	})
}

// WithHTTPClient sets the HTTP client used for the search index and the model.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithMetrics registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithMetrics(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}

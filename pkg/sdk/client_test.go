package labassist

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

const searchBody = `{"value":[
  {"id":"r1","testType":"Distillation","status":"Failed","date":"2026-02-01","count":3},
  {"id":"d1","fileName":"OptiDist_Manual.txt","content":"Heater error E-12 appears when the heater block does not reach its setpoint within ten minutes."}
]}`

func newSearchServer(t *testing.T, calls *int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		if r.Header.Get("api-key") != "search-key" {
			t.Errorf("api-key = %q", r.Header.Get("api-key"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, searchBody)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newModelServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		content := `<p>Three distillation runs failed.</p>`
		if bytes.Contains(body, []byte("json_object")) {
			content = `{\"isGreeting\":false,\"isDataSourceRequired\":true,\"dataSource\":\"ai_search\",\"searchQuery\":\"distillation failed\",\"top\":10}`
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"`+
			content+`"},"finish_reason":"stop"}],"usage":{"prompt_tokens":10,"completion_tokens":5,"total_tokens":15}}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNew_NoCollaborators(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.SearchEnabled() || c.ModelEnabled() {
		t.Error("nothing should be enabled")
	}
}

func TestNew_PartialSearchConfig(t *testing.T) {
	_, err := New(WithSearch("https://search.example", "", "lab-docs"))
	if !errors.Is(err, ErrConfigurationMissing) {
		t.Fatalf("expected ErrConfigurationMissing, got %v", err)
	}
}

func TestNew_PartialModelConfig(t *testing.T) {
	_, err := New(WithAzureOpenAI("https://llm.example", "key", "gpt-4o", ""))
	if !errors.Is(err, ErrConfigurationMissing) {
		t.Fatalf("expected ErrConfigurationMissing, got %v", err)
	}
}

func TestAsk_Greeting(t *testing.T) {
	c, _ := New()
	a, err := c.Ask(context.Background(), "Hello there")
	if err != nil {
		t.Fatal(err)
	}
	if a.Resolution != "greeting" || a.Text == "" || a.UsedDataSource {
		t.Errorf("answer = %+v", a)
	}
}

func TestAsk_SearchNotConfigured(t *testing.T) {
	c, _ := New()
	a, err := c.Ask(context.Background(), "Show the heater error history")
	if err != nil {
		t.Fatal(err)
	}
	if a.Resolution != "no_results" || a.UsedDataSource || a.DataSource != "" {
		t.Errorf("answer = %+v", a)
	}
}

func TestAsk_SearchWithoutModel(t *testing.T) {
	var calls int
	srv := newSearchServer(t, &calls)
	c, err := New(WithSearch(srv.URL, "search-key", "lab-docs"))
	if err != nil {
		t.Fatal(err)
	}

	a, err := c.Ask(context.Background(), "List failed distillation tests")
	if err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("search calls = %d", calls)
	}
	if !a.UsedDataSource || a.DataSource != "ai_search" {
		t.Errorf("provenance = %v/%q", a.UsedDataSource, a.DataSource)
	}
	if len(a.Rows) != 1 || a.TotalCount != 3 || a.Rows[0].TestType != "Distillation" {
		t.Errorf("rows = %+v total = %d", a.Rows, a.TotalCount)
	}
	// No model: the summary is empty and rows exist, so the best-effort text applies.
	if a.Resolution != "best_effort" {
		t.Errorf("resolution = %q", a.Resolution)
	}
}

func TestAsk_FullPipeline(t *testing.T) {
	var calls int
	search := newSearchServer(t, &calls)
	model := newModelServer(t)

	reg := prometheus.NewRegistry()
	var logs bytes.Buffer
	c, err := New(
		WithSearch(search.URL, "search-key", "lab-docs"),
		WithAzureOpenAI(model.URL, "llm-key", "gpt-4o", "2024-08-01-preview"),
		WithMetrics(reg),
		WithLogger(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))),
	)
	if err != nil {
		t.Fatal(err)
	}
	if !c.SearchEnabled() || !c.ModelEnabled() {
		t.Fatal("both collaborators should be enabled")
	}

	a, err := c.Ask(context.Background(), "Why did distillation fail?")
	if err != nil {
		t.Fatal(err)
	}
	if a.Text != "<p>Three distillation runs failed.</p>" || a.Resolution != "summary" {
		t.Errorf("answer = %+v", a)
	}
	if got := testutil.ToFloat64(c.obs.metrics.operations.WithLabelValues("ask", "ok")); got != 1 {
		t.Errorf("ask ok count = %v", got)
	}
	if got := testutil.ToFloat64(c.obs.metrics.answers.WithLabelValues("summary", "true")); got != 1 {
		t.Errorf("summary answers = %v", got)
	}
	if !strings.Contains(logs.String(), "op=ask") {
		t.Errorf("expected debug log for ask, got %q", logs.String())
	}
}

func TestPlan_UsesModel(t *testing.T) {
	model := newModelServer(t)
	c, err := New(WithAzureOpenAI(model.URL, "llm-key", "gpt-4o", "2024-08-01-preview"))
	if err != nil {
		t.Fatal(err)
	}

	p, err := c.Plan(context.Background(), "anything")
	if err != nil {
		t.Fatal(err)
	}
	if p.SearchQuery != "distillation failed" || p.Top != 10 || p.DataSource != "ai_search" {
		t.Errorf("plan = %+v", p)
	}
}

func TestAsk_CanceledContext(t *testing.T) {
	c, _ := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.Ask(ctx, "q"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, err := c.Plan(ctx, "q"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestWithMaxExcerptLength_OutOfRangeIgnored(t *testing.T) {
	cfg := &clientConfig{}
	WithMaxExcerptLength(9000).apply(cfg)
	if cfg.maxExcerptLength != 0 {
		t.Errorf("maxExcerptLength = %d", cfg.maxExcerptLength)
	}
	WithMaxExcerptLength(1200).apply(cfg)
	if cfg.maxExcerptLength != 1200 {
		t.Errorf("maxExcerptLength = %d", cfg.maxExcerptLength)
	}
}

func TestRegisterOrReuse_SharedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := New(WithMetrics(reg)); err != nil {
		t.Fatal(err)
	}
	if _, err := New(WithMetrics(reg)); err != nil {
		t.Fatalf("second client on the same registry: %v", err)
	}
}

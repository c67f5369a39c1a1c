package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/kailas-cloud/labassist/internal/domain"
	"github.com/kailas-cloud/labassist/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterUpstreamMetrics()
	os.Exit(m.Run())
}

func newTestCompleter(t *testing.T, handler http.HandlerFunc) *Completer {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewCompleter(&Config{
		Endpoint:   server.URL,
		APIKey:     "test-key",
		Deployment: "gpt-4o",
		APIVersion: "2024-06-01",
	})
	if err != nil {
		t.Fatalf("NewCompleter failed: %v", err)
	}
	return c
}

func TestCompleter_Complete(t *testing.T) {
	var gotBody map[string]any

	c := newTestCompleter(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/openai/deployments/gpt-4o/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("api-version"); got != "2024-06-01" {
			t.Errorf("unexpected api-version: %s", got)
		}
		if r.Header.Get("api-key") != "test-key" {
			t.Errorf("unexpected api-key header: %q", r.Header.Get("api-key"))
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "cmpl-1",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "{\"isGreeting\":true}"}}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 5, "total_tokens": 17}
		}`))
	})

	out, err := c.Complete(context.Background(), domain.CompletionRequest{
		Operation: "plan",
		Messages: []domain.Message{
			{Role: domain.RoleSystem, Content: "decide"},
			{Role: domain.RoleUser, Content: "hi"},
		},
		MaxTokens: 200,
		JSON:      true,
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if out != `{"isGreeting":true}` {
		t.Errorf("unexpected content: %q", out)
	}

	if gotBody["max_tokens"] != float64(200) {
		t.Errorf("expected max_tokens=200, got %v", gotBody["max_tokens"])
	}
	if _, ok := gotBody["temperature"]; !ok {
		t.Error("expected temperature to be sent for zero value")
	}
	format, _ := gotBody["response_format"].(map[string]any)
	if format["type"] != "json_object" {
		t.Errorf("expected json_object response format, got %v", gotBody["response_format"])
	}
	msgs, _ := gotBody["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if first, _ := msgs[0].(map[string]any); first["role"] != "system" {
		t.Errorf("expected first role system, got %v", first["role"])
	}
}

func TestCompleter_EmptyChoices(t *testing.T) {
	c := newTestCompleter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cmpl-2","choices":[]}`))
	})

	out, err := c.Complete(context.Background(), domain.CompletionRequest{Operation: "summary"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "" {
		t.Errorf("expected empty content, got %q", out)
	}
}

func TestCompleter_RateLimited(t *testing.T) {
	c := newTestCompleter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":"429","message":"Requests have exceeded the limit. Please retry after 20 seconds."}}`))
	})

	_, err := c.Complete(context.Background(), domain.CompletionRequest{Operation: "summary"})
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	var rle *domain.RateLimitError
	if !errors.As(err, &rle) {
		t.Fatalf("expected *RateLimitError, got %T", err)
	}
	if rle.RetryAfterSeconds != 20 {
		t.Errorf("expected retry after 20, got %d", rle.RetryAfterSeconds)
	}
}

func TestCompleter_RateLimitedWithoutHint(t *testing.T) {
	c := newTestCompleter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`too many requests`))
	})

	_, err := c.Complete(context.Background(), domain.CompletionRequest{Operation: "summary"})
	var rle *domain.RateLimitError
	if !errors.As(err, &rle) {
		t.Fatalf("expected *RateLimitError, got %v", err)
	}
	if rle.RetryAfterSeconds != 0 {
		t.Errorf("expected no retry hint, got %d", rle.RetryAfterSeconds)
	}
}

func TestCompleter_UpstreamError(t *testing.T) {
	c := newTestCompleter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"code":"500","message":"backend exploded"}}`))
	})

	_, err := c.Complete(context.Background(), domain.CompletionRequest{Operation: "plan"})
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	var ue *domain.UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected *UpstreamError, got %T", err)
	}
	if ue.StatusCode != http.StatusInternalServerError || ue.Body != "backend exploded" {
		t.Errorf("unexpected upstream error: %+v", ue)
	}
}

func TestNewCompleter_MissingConfig(t *testing.T) {
	_, err := NewCompleter(&Config{Endpoint: "https://x.openai.azure.com", APIKey: "k"})
	if !errors.Is(err, domain.ErrConfigurationMissing) {
		t.Fatalf("expected ErrConfigurationMissing, got %v", err)
	}
}

func TestRetryAfter(t *testing.T) {
	tests := []struct {
		msg  string
		want int
	}{
		{"Please retry after 7 seconds.", 7},
		{"RETRY AFTER 1 second", 1},
		{"slow down", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := retryAfter(tt.msg); got != tt.want {
			t.Errorf("retryAfter(%q) = %d, want %d", tt.msg, got, tt.want)
		}
	}
}

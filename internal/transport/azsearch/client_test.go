package azsearch

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

func TestClient_Search(t *testing.T) {
	var got searchRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/indexes/lab-docs/docs/search" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if v := r.URL.Query().Get("api-version"); v != DefaultAPIVersion {
			t.Errorf("unexpected api-version: %s", v)
		}
		if r.Header.Get("api-key") != "secret" {
			t.Errorf("unexpected api-key header: %q", r.Header.Get("api-key"))
		}
		_ = json.NewDecoder(r.Body).Decode(&got)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"value": [
			{"id": "1", "testType": "Distillation", "count": 4, "status": "Passed", "@search.score": 1.5},
			{"id": "2", "title": "OptiDist Manual", "content": "Heater power error procedure",
			 "metadata_storage_name": "optidist.pdf",
			 "@search.highlights": {"content": ["<em>Heater</em> power error"]},
			 "@search.captions": [{"text": "Heater power", "highlights": ""}]}
		]}`))
	}))
	defer server.Close()

	c, err := NewClient(server.URL+"/", "secret", "lab-docs")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	hits, err := c.Search(context.Background(), "heater", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if got.Search != "heater" || got.Top != 5 {
		t.Errorf("unexpected request: %+v", got)
	}
	if got.Select != SelectFields {
		t.Errorf("unexpected select: %q", got.Select)
	}
	if got.Highlight != "content" || got.HighlightPreTag != "<em>" || got.HighlightPostTag != "</em>" {
		t.Errorf("unexpected highlight settings: %+v", got)
	}

	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].Count == nil || *hits[0].Count != 4 {
		t.Errorf("expected count 4, got %v", hits[0].Count)
	}
	if hits[0].Score != 1.5 {
		t.Errorf("expected score 1.5, got %f", hits[0].Score)
	}
	if hits[1].Count != nil {
		t.Error("expected missing count")
	}
	if hl := hits[1].Highlights; len(hl) != 1 || hl[0] != "<em>Heater</em> power error" {
		t.Errorf("unexpected highlights: %v", hl)
	}
	if hits[1].StorageName != "optidist.pdf" {
		t.Errorf("unexpected storage name: %q", hits[1].StorageName)
	}
	if len(hits[1].Captions) != 1 || hits[1].Captions[0] != "Heater power" {
		t.Errorf("unexpected captions: %v", hits[1].Captions)
	}
}

func TestClient_Search_NonSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key"}}`))
	}))
	defer server.Close()

	c, err := NewClient(server.URL, "wrong", "lab-docs", WithAPIVersion("2024-07-01"))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	_, err = c.Search(context.Background(), "*", 20)
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	var ue *domain.UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected *UpstreamError, got %T", err)
	}
	if ue.StatusCode != http.StatusForbidden || ue.Body != `{"error":{"message":"bad key"}}` {
		t.Errorf("unexpected upstream error: %+v", ue)
	}
}

func TestClient_Search_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	c, _ := NewClient(server.URL, "k", "i")
	_, err := c.Search(context.Background(), "*", 1)
	if !errors.Is(err, domain.ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestNewClient_MissingConfig(t *testing.T) {
	tests := []struct {
		name                    string
		endpoint, apiKey, index string
	}{
		{"no endpoint", "", "k", "i"},
		{"no key", "https://s", "", "i"},
		{"no index", "https://s", "k", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.endpoint, tt.apiKey, tt.index)
			if !errors.Is(err, domain.ErrConfigurationMissing) {
				t.Fatalf("expected ErrConfigurationMissing, got %v", err)
			}
		})
	}
}

func TestHit_Count_NonNumeric(t *testing.T) {
	h := hit{Count: json.RawMessage(`"7"`)}
	if h.count() != nil {
		t.Error("string count must not be treated as numeric")
	}
}

func TestHit_Count_Null(t *testing.T) {
	h := hit{Count: json.RawMessage(`null`)}
	if h.count() != nil {
		t.Error("null count must be treated as absent")
	}
}

package summary

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/labassist/internal/domain"
	"github.com/kailas-cloud/labassist/internal/domain/search"
)

// --- Mocks ---

type mockCompleter struct {
	reply string
	err   error
	got   domain.CompletionRequest
}

func (m *mockCompleter) Complete(_ context.Context, req domain.CompletionRequest) (string, error) {
	m.got = req
	return m.reply, m.err
}

func userPrompt(t *testing.T, req domain.CompletionRequest) string {
	t.Helper()
	require.Len(t, req.Messages, 2)
	assert.Equal(t, domain.RoleSystem, req.Messages[0].Role)
	assert.Equal(t, domain.RoleUser, req.Messages[1].Role)
	return req.Messages[1].Content
}

// --- Tests ---

func TestSummarize_NoLLM(t *testing.T) {
	out, err := New(nil, nil).Summarize(context.Background(), "q", []search.Row{{Count: 1}}, nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSummarize_RowsMode(t *testing.T) {
	llm := &mockCompleter{reply: "Eight distillation tests passed."}
	rows := make([]search.Row, 10)
	for i := range rows {
		rows[i] = search.Row{Date: "2025-03-0" + string(rune('0'+i%10)), TestType: "Distillation", Count: 2, Status: "Passed"}
	}

	out, err := New(llm, nil).Summarize(context.Background(), "How many tests passed?", rows, nil)
	require.NoError(t, err)
	assert.Equal(t, "Eight distillation tests passed.", out)

	assert.Equal(t, 500, llm.got.MaxTokens)
	assert.InDelta(t, 0.3, llm.got.Temperature, 1e-6)
	assert.Equal(t, rowsSystemPrompt, llm.got.Messages[0].Content)
	user := userPrompt(t, llm.got)
	assert.Contains(t, user, "Question: How many tests passed?\n")
	assert.Contains(t, user, "Total count: 20\n")
	assert.Contains(t, user, "2025-03-00 | Distillation | count=2 | status=Passed")
	assert.Equal(t, MaxRows, strings.Count(user, "| Distillation |"))
}

func TestSummarize_DirectMode(t *testing.T) {
	llm := &mockCompleter{reply: "Hello"}
	_, err := New(llm, nil).Summarize(context.Background(), "What is OptiDist?", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, directSystemPrompt, llm.got.Messages[0].Content)
	assert.Equal(t, "Question: What is OptiDist?\n", userPrompt(t, llm.got))
	assert.Equal(t, 500, llm.got.MaxTokens)
}

func TestSummarize_DocumentsMode(t *testing.T) {
	llm := &mockCompleter{reply: "<h3>Root Causes</h3>"}
	docs := []search.Document{
		{Title: "OptiDist Manual", FileName: "optidist.pdf", Content: strings.Repeat("m", 4500), PageNumber: 12, SearchScore: 3.25},
		{FileName: "errors.csv", Content: "Code\tError Name\n6\tHeater power"},
		{Title: "Notes", FileType: "text/plain", Content: strings.Repeat("n", 2100)},
		{Title: "Ignored", Content: "fourth document"},
	}

	_, err := New(llm, nil).Summarize(context.Background(), "heater power error", []search.Row{{Count: 1}}, docs)
	require.NoError(t, err)

	assert.Equal(t, 2000, llm.got.MaxTokens)
	assert.Equal(t, documentSystemPrompt, llm.got.Messages[0].Content)
	user := userPrompt(t, llm.got)
	assert.Contains(t, user, "CRITICAL INSTRUCTIONS:")
	assert.Contains(t, user, "[Document 1: OptiDist Manual, page 12, relevance 3.25]\n"+strings.Repeat("m", 4000)+"...")
	assert.NotContains(t, user, strings.Repeat("m", 4001))
	assert.Contains(t, user, "[Document 2: errors.csv]\n"+tabularNote+"\nCode\tError Name")
	assert.Contains(t, user, "[Document 3: Notes]\n"+strings.Repeat("n", 2000)+"...")
	assert.NotContains(t, user, "Ignored")
	assert.Equal(t, 2, strings.Count(user, "\n\n---\n\n"))
	assert.NotContains(t, user, "Total count", "rows are not rendered when documents are present")
}

func TestDocumentBlock_TotalCap(t *testing.T) {
	// Long-form caps at 4000 each, so force the total cap with oversized headers.
	longName := strings.Repeat("T", 3000)
	docs := []search.Document{
		{Title: longName, FileName: "a.pdf", Content: strings.Repeat("a", 4000)},
		{Title: longName, FileName: "b.pdf", Content: strings.Repeat("b", 4000)},
		{Title: longName, FileName: "c.pdf", Content: strings.Repeat("c", 4000)},
	}

	out := documentBlock(docs)
	assert.True(t, strings.HasSuffix(out, truncationNotice))
	body := strings.TrimSuffix(out, truncationNotice)
	assert.LessOrEqual(t, len([]rune(strings.ReplaceAll(body, "\n\n---\n\n", ""))), TotalExcerptCap)
}

func TestSummarize_RateLimitPassesThrough(t *testing.T) {
	llm := &mockCompleter{err: domain.NewRateLimitError(30)}
	_, err := New(llm, nil).Summarize(context.Background(), "q", nil, []search.Document{{Content: "x"}})

	var rle *domain.RateLimitError
	require.True(t, errors.As(err, &rle))
	assert.Equal(t, 30, rle.RetryAfterSeconds)
}

func TestSummarize_RateLimitWithoutHint(t *testing.T) {
	llm := &mockCompleter{err: domain.NewRateLimitError(0)}
	_, err := New(llm, nil).Summarize(context.Background(), "q", nil, nil)

	var rle *domain.RateLimitError
	require.True(t, errors.As(err, &rle))
	assert.Zero(t, rle.RetryAfterSeconds)
}

func TestSummarize_OtherFailure(t *testing.T) {
	llm := &mockCompleter{err: &domain.UpstreamError{Service: "azure-openai", StatusCode: 500}}
	_, err := New(llm, nil).Summarize(context.Background(), "q", nil, nil)

	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.NotErrorIs(t, err, domain.ErrRateLimited)
}

func TestSummarize_EmptyContent(t *testing.T) {
	out, err := New(&mockCompleter{}, nil).Summarize(context.Background(), "q", []search.Row{{Count: 2}}, nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

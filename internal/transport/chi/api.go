package chi

import (
	"time"

	"github.com/kailas-cloud/labassist/internal/domain/search"
)

// ErrorResponseCode is a machine-readable error code.
type ErrorResponseCode string

// Error codes.
const (
	ErrorResponseCodeBadRequest       ErrorResponseCode = "bad_request"
	ErrorResponseCodeValidationFailed ErrorResponseCode = "validation_failed"
	ErrorResponseCodeNotFound         ErrorResponseCode = "not_found"
	ErrorResponseCodeInternalError    ErrorResponseCode = "internal_error"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// MessageType discriminates query response messages.
type MessageType string

// Message types.
const (
	MessageTypeText  MessageType = "text"
	MessageTypeTable MessageType = "table"
)

// Message is one entry of a query response: either text or a table.
type Message struct {
	Type       MessageType  `json:"type"`
	Content    string       `json:"content,omitempty"`
	Rows       []search.Row `json:"rows,omitempty"`
	TotalCount *int         `json:"totalCount,omitempty"`
}

// QueryResponse is the body of POST /api/query.
type QueryResponse struct {
	Question       string    `json:"question"`
	Messages       []Message `json:"messages"`
	UsedDataSource bool      `json:"usedDataSource"`
	// DataSource is null when no data source was used.
	DataSource     *string  `json:"dataSource"`
	AvailableTools []string `json:"availableTools"`
}

// CreateSessionRequest is the body of POST /api/chats.
type CreateSessionRequest struct {
	Title string `json:"title"`
}

// Session is a chat session as returned by the API.
type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

// SessionList is the body of GET /api/chats.
type SessionList struct {
	Items []Session `json:"items"`
}

// SuggestionRequest is the body of POST /api/suggested-questions[/{id}].
type SuggestionRequest struct {
	Text string `json:"text"`
}

// Suggestion is a suggested question as returned by the API.
type Suggestion struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// SuggestionList is the body of GET /api/suggested-questions.
type SuggestionList struct {
	Items []Suggestion `json:"items"`
}

// ListSuggestionsParams are the query parameters of GET /api/suggested-questions.
type ListSuggestionsParams struct {
	Limit *int `form:"limit,omitempty" json:"limit,omitempty"`
}

// OKResponse acknowledges a write without returning the resource.
type OKResponse struct {
	OK bool `json:"ok"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

package domain

import "context"

// Role identifies the author of a chat message.
type Role string

const (
	// RoleSystem carries instructions for the model.
	RoleSystem Role = "system"
	// RoleUser carries the user-facing prompt.
	RoleUser Role = "user"
)

// Message is a single chat message sent to a completion provider.
type Message struct {
	Role    Role
	Content string
}

// CompletionRequest is the shared chat completion contract between layers.
type CompletionRequest struct {
	// Operation labels the caller for logs and metrics (e.g. "plan", "summary").
	Operation   string
	Messages    []Message
	MaxTokens   int
	Temperature float32
	// JSON asks the provider for a JSON-object-only reply.
	JSON bool
}

// Completer produces a chat completion.
// An empty string with a nil error means the provider returned no content.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

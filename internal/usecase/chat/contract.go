package chat

import (
	"context"

	domchat "github.com/kailas-cloud/labassist/internal/domain/chat"
)

// SessionRepository persists chat sessions, newest first.
type SessionRepository interface {
	Create(ctx context.Context, s domchat.Session) error
	List(ctx context.Context) ([]domchat.Session, error)
}

// SuggestionRepository persists suggested questions, newest first.
type SuggestionRepository interface {
	Add(ctx context.Context, items ...domchat.Suggestion) error
	List(ctx context.Context, limit int) ([]domchat.Suggestion, error)
	Delete(ctx context.Context, id string) error
}

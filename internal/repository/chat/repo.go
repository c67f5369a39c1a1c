// Package chat stores chat sessions as JSON records in a newest-first list.
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	domchat "github.com/kailas-cloud/labassist/internal/domain/chat"
)

// store is the consumer interface for sessions (ISP).
type store interface {
	LPush(ctx context.Context, key string, values ...string) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
}

type record struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

// Repo implements usecase/chat.SessionRepository.
type Repo struct {
	store store
	key   string
}

// New creates a session repository. Sessions live under <prefix>chats.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, key: prefix + "chats"}
}

// Create prepends a session.
func (r *Repo) Create(ctx context.Context, s domchat.Session) error {
	data, err := json.Marshal(record{ID: s.ID(), Title: s.Title(), CreatedAt: s.CreatedAt()})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := r.store.LPush(ctx, r.key, string(data)); err != nil {
		return fmt.Errorf("push session: %w", err)
	}
	return nil
}

// List returns every session, newest first. Undecodable records are skipped.
func (r *Repo) List(ctx context.Context) ([]domchat.Session, error) {
	raw, err := r.store.LRange(ctx, r.key, 0, -1)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	out := make([]domchat.Session, 0, len(raw))
	for _, v := range raw {
		var rec record
		if err := json.Unmarshal([]byte(v), &rec); err != nil {
			continue
		}
		out = append(out, domchat.ReconstructSession(rec.ID, rec.Title, rec.CreatedAt))
	}
	return out, nil
}

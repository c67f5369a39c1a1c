// Package suggestion stores suggested questions as JSON records in a newest-first list.
package suggestion

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/labassist/internal/domain"
	domchat "github.com/kailas-cloud/labassist/internal/domain/chat"
)

// store is the consumer interface for suggestions (ISP).
type store interface {
	LPush(ctx context.Context, key string, values ...string) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	LRem(ctx context.Context, key string, count int64, value string) (int64, error)
}

type record struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Repo implements usecase/chat.SuggestionRepository.
type Repo struct {
	store store
	key   string
}

// New creates a suggestion repository. Suggestions live under <prefix>suggested_questions.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, key: prefix + "suggested_questions"}
}

// Add prepends suggestions so that items[0] ends up first.
func (r *Repo) Add(ctx context.Context, items ...domchat.Suggestion) error {
	if len(items) == 0 {
		return nil
	}
	values := make([]string, len(items))
	for i, s := range items {
		data, err := encode(s)
		if err != nil {
			return err
		}
		values[len(items)-1-i] = data
	}
	if err := r.store.LPush(ctx, r.key, values...); err != nil {
		return fmt.Errorf("push suggestions: %w", err)
	}
	return nil
}

// List returns up to limit suggestions, newest first. limit <= 0 means all.
func (r *Repo) List(ctx context.Context, limit int) ([]domchat.Suggestion, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}
	raw, err := r.store.LRange(ctx, r.key, 0, stop)
	if err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}

	out := make([]domchat.Suggestion, 0, len(raw))
	for _, v := range raw {
		rec, ok := decode(v)
		if !ok {
			continue
		}
		out = append(out, domchat.ReconstructSuggestion(rec.ID, rec.Text))
	}
	return out, nil
}

// Delete removes the first suggestion with the given id.
// Returns domain.ErrNotFound when no stored record carries it.
func (r *Repo) Delete(ctx context.Context, id string) error {
	raw, err := r.store.LRange(ctx, r.key, 0, -1)
	if err != nil {
		return fmt.Errorf("list suggestions: %w", err)
	}

	for _, v := range raw {
		rec, ok := decode(v)
		if !ok || rec.ID != id {
			continue
		}
		n, err := r.store.LRem(ctx, r.key, 1, v)
		if err != nil {
			return fmt.Errorf("remove suggestion: %w", err)
		}
		if n == 0 {
			// Removed concurrently.
			return domain.ErrNotFound
		}
		return nil
	}
	return domain.ErrNotFound
}

func encode(s domchat.Suggestion) (string, error) {
	data, err := json.Marshal(record{ID: s.ID(), Text: s.Text()})
	if err != nil {
		return "", fmt.Errorf("marshal suggestion: %w", err)
	}
	return string(data), nil
}

func decode(v string) (record, bool) {
	var rec record
	if err := json.Unmarshal([]byte(v), &rec); err != nil {
		return record{}, false
	}
	return rec, true
}

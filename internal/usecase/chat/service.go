// Package chat manages chat sessions and suggested questions.
package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domchat "github.com/kailas-cloud/labassist/internal/domain/chat"
)

// Service manages chat sessions and suggested questions.
type Service struct {
	sessions    SessionRepository
	suggestions SuggestionRepository
	logger      *zap.Logger
	now         func() time.Time
	newID       func() string
}

// New creates a chat service.
func New(sessions SessionRepository, suggestions SuggestionRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		sessions:    sessions,
		suggestions: suggestions,
		logger:      logger,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// ListSessions returns all sessions, newest first.
func (s *Service) ListSessions(ctx context.Context) ([]domchat.Session, error) {
	items, err := s.sessions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return items, nil
}

// CreateSession creates a session with a fresh id. A blank title is ErrValidation.
func (s *Service) CreateSession(ctx context.Context, title string) (domchat.Session, error) {
	session, err := domchat.NewSession(s.newID(), title, s.now())
	if err != nil {
		return domchat.Session{}, err
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return domchat.Session{}, fmt.Errorf("create session: %w", err)
	}
	s.logger.Info("Chat session created", zap.String("id", session.ID()))
	return session, nil
}

// ListSuggestions returns up to limit suggestions, newest first. limit <= 0 means all.
func (s *Service) ListSuggestions(ctx context.Context, limit int) ([]domchat.Suggestion, error) {
	items, err := s.suggestions.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}
	return items, nil
}

// CreateSuggestion adds a suggestion with a fresh id.
func (s *Service) CreateSuggestion(ctx context.Context, text string) (domchat.Suggestion, error) {
	return s.PutSuggestion(ctx, "", text)
}

// PutSuggestion adds a suggestion under a caller-chosen id; an empty id gets a fresh one.
// Ids are not checked for uniqueness.
func (s *Service) PutSuggestion(ctx context.Context, id, text string) (domchat.Suggestion, error) {
	if id == "" {
		id = s.newID()
	}
	item, err := domchat.NewSuggestion(id, text)
	if err != nil {
		return domchat.Suggestion{}, err
	}
	if err := s.suggestions.Add(ctx, item); err != nil {
		return domchat.Suggestion{}, fmt.Errorf("add suggestion: %w", err)
	}
	return item, nil
}

// DeleteSuggestion removes the first suggestion with id. Missing ids yield domain.ErrNotFound.
func (s *Service) DeleteSuggestion(ctx context.Context, id string) error {
	if err := s.suggestions.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete suggestion %q: %w", id, err)
	}
	return nil
}

// SeedSuggestions stores DefaultSuggestions when no suggestion exists yet.
// It reports whether anything was written.
func (s *Service) SeedSuggestions(ctx context.Context) (bool, error) {
	existing, err := s.suggestions.List(ctx, 1)
	if err != nil {
		return false, fmt.Errorf("check suggestions: %w", err)
	}
	if len(existing) > 0 {
		return false, nil
	}

	items := make([]domchat.Suggestion, len(DefaultSuggestions))
	for i, d := range DefaultSuggestions {
		items[i] = domchat.ReconstructSuggestion(d.ID, d.Text)
	}
	if err := s.suggestions.Add(ctx, items...); err != nil {
		return false, fmt.Errorf("seed suggestions: %w", err)
	}
	s.logger.Info("Suggested questions seeded", zap.Int("count", len(items)))
	return true, nil
}

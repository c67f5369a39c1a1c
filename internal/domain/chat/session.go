package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/labassist/internal/domain"
)

// Session is a chat session (immutable value object).
type Session struct {
	id        string
	title     string
	createdAt time.Time
}

// NewSession validates and creates a Session. Title is trimmed and required.
func NewSession(id, title string, createdAt time.Time) (Session, error) {
	if id == "" {
		return Session{}, fmt.Errorf("%w: id is required", domain.ErrValidation)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return Session{}, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	return Session{id: id, title: title, createdAt: createdAt.UTC()}, nil
}

// ReconstructSession creates a Session without validation (storage hydration).
func ReconstructSession(id, title string, createdAt time.Time) Session {
	return Session{id: id, title: title, createdAt: createdAt}
}

// ID returns the session identifier.
func (s Session) ID() string { return s.id }

// Title returns the session title.
func (s Session) Title() string { return s.title }

// CreatedAt returns the creation time in UTC.
func (s Session) CreatedAt() time.Time { return s.createdAt }

package chat

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/labassist/internal/domain"
)

// Suggestion is a suggested question shown to users.
type Suggestion struct {
	id   string
	text string
}

// NewSuggestion validates and creates a Suggestion. Text is trimmed and required.
func NewSuggestion(id, text string) (Suggestion, error) {
	if id == "" {
		return Suggestion{}, fmt.Errorf("%w: id is required", domain.ErrValidation)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Suggestion{}, fmt.Errorf("%w: text is required", domain.ErrValidation)
	}
	return Suggestion{id: id, text: text}, nil
}

// ReconstructSuggestion creates a Suggestion without validation (storage hydration).
func ReconstructSuggestion(id, text string) Suggestion {
	return Suggestion{id: id, text: text}
}

// ID returns the suggestion identifier.
func (s Suggestion) ID() string { return s.id }

// Text returns the question text.
func (s Suggestion) Text() string { return s.text }

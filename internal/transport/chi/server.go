package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	gochi "github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/labassist/internal/domain"
	"github.com/kailas-cloud/labassist/internal/domain/answer"
	domchat "github.com/kailas-cloud/labassist/internal/domain/chat"
	"github.com/kailas-cloud/labassist/internal/domain/plan"
	logpkg "github.com/kailas-cloud/labassist/internal/logger"
	healthuc "github.com/kailas-cloud/labassist/internal/usecase/health"
)

// Answerer runs the question pipeline.
type Answerer interface {
	Answer(ctx context.Context, question string) answer.Answer
}

// ChatService manages sessions and suggested questions.
type ChatService interface {
	ListSessions(ctx context.Context) ([]domchat.Session, error)
	CreateSession(ctx context.Context, title string) (domchat.Session, error)
	ListSuggestions(ctx context.Context, limit int) ([]domchat.Suggestion, error)
	CreateSuggestion(ctx context.Context, text string) (domchat.Suggestion, error)
	PutSuggestion(ctx context.Context, id, text string) (domchat.Suggestion, error)
	DeleteSuggestion(ctx context.Context, id string) error
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the labassist HTTP API.
type Server struct {
	assistant     Answerer
	chats         ChatService
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(assistant Answerer, chats ChatService, health HealthChecker, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		assistant: assistant,
		chats:     chats,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrValidation, http.StatusBadRequest, ErrorResponseCodeValidationFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorResponseCodeNotFound),
	}
	return s
}

// Routes mounts the API on r.
func (s *Server) Routes(r gochi.Router) {
	r.Route("/api", func(r gochi.Router) {
		r.Post("/query", s.Query)
		r.Get("/chats", s.ListSessions)
		r.Post("/chats", s.CreateSession)
		r.Get("/suggested-questions", s.ListSuggestions)
		r.Post("/suggested-questions", s.CreateSuggestion)
		r.Post("/suggested-questions/{id}", s.PutSuggestion)
		r.Delete("/suggested-questions/{id}", s.DeleteSuggestion)
	})
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Query handles POST /api/query.
func (s *Server) Query(w http.ResponseWriter, r *http.Request) {
	question, err := decodeQuestion(r)
	if err != nil {
		logpkg.FromContext(r.Context()).Warn("Invalid query body", zap.Error(err))
		writeError(w, http.StatusInternalServerError, ErrorResponseCodeInternalError, "Failed to process query")
		return
	}

	a := s.assistant.Answer(r.Context(), question)
	writeJSON(w, http.StatusOK, queryResponse(a))
}

// decodeQuestion requires a JSON object whose "question" is a string. "" is valid.
func decodeQuestion(r *http.Request) (string, error) {
	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return "", err
	}
	raw, ok := body["question"]
	if !ok || string(raw) == "null" {
		return "", errors.New("question is required")
	}
	var question string
	if err := json.Unmarshal(raw, &question); err != nil {
		return "", errors.New("question must be a string")
	}
	return question, nil
}

func queryResponse(a answer.Answer) QueryResponse {
	resp := QueryResponse{
		Question:       a.Question,
		Messages:       []Message{},
		UsedDataSource: a.UsedDataSource,
		AvailableTools: []string{string(plan.AISearch)},
	}
	if a.DataSource != "" {
		ds := string(a.DataSource)
		resp.DataSource = &ds
	}
	if a.Text != "" {
		resp.Messages = append(resp.Messages, Message{Type: MessageTypeText, Content: a.Text})
	}
	if len(a.Rows) > 0 {
		total := a.TotalCount
		resp.Messages = append(resp.Messages, Message{Type: MessageTypeTable, Rows: a.Rows, TotalCount: &total})
	}
	return resp
}

// ListSessions handles GET /api/chats.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	items, err := s.chats.ListSessions(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	out := make([]Session, len(items))
	for i, it := range items {
		out[i] = sessionToAPI(it)
	}
	writeJSON(w, http.StatusOK, SessionList{Items: out})
}

// CreateSession handles POST /api/chats.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	session, err := s.chats.CreateSession(r.Context(), req.Title)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionToAPI(session))
}

// ListSuggestions handles GET /api/suggested-questions.
func (s *Server) ListSuggestions(w http.ResponseWriter, r *http.Request) {
	var params ListSuggestionsParams
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &params.Limit); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid format for parameter limit")
		return
	}

	limit := 0
	if params.Limit != nil {
		limit = *params.Limit
	}
	items, err := s.chats.ListSuggestions(r.Context(), limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	out := make([]Suggestion, len(items))
	for i, it := range items {
		out[i] = suggestionToAPI(it)
	}
	writeJSON(w, http.StatusOK, SuggestionList{Items: out})
}

// CreateSuggestion handles POST /api/suggested-questions.
func (s *Server) CreateSuggestion(w http.ResponseWriter, r *http.Request) {
	var req SuggestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	item, err := s.chats.CreateSuggestion(r.Context(), req.Text)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, suggestionToAPI(item))
}

// PutSuggestion handles POST /api/suggested-questions/{id}.
func (s *Server) PutSuggestion(w http.ResponseWriter, r *http.Request) {
	id, ok := bindID(w, r)
	if !ok {
		return
	}
	var req SuggestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if _, err := s.chats.PutSuggestion(r.Context(), id, req.Text); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, OKResponse{OK: true})
}

// DeleteSuggestion handles DELETE /api/suggested-questions/{id}.
func (s *Server) DeleteSuggestion(w http.ResponseWriter, r *http.Request) {
	id, ok := bindID(w, r)
	if !ok {
		return
	}
	if err := s.chats.DeleteSuggestion(r.Context(), id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, OKResponse{OK: true})
}

func bindID(w http.ResponseWriter, r *http.Request) (string, bool) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", gochi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid format for parameter id")
		return "", false
	}
	return id, true
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func sessionToAPI(s domchat.Session) Session {
	return Session{ID: s.ID(), Title: s.Title(), CreatedAt: s.CreatedAt()}
}

func suggestionToAPI(s domchat.Suggestion) Suggestion {
	return Suggestion{ID: s.ID(), Text: s.Text()}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorResponseCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return validationMessage(err)
	case errors.Is(err, domain.ErrNotFound):
		return domain.ErrNotFound.Error()
	default:
		return "internal error"
	}
}

// validationMessage unwraps to the error created by the domain constructor ("validation failed: title is required").
func validationMessage(err error) string {
	for e := err; e != nil; e = errors.Unwrap(e) {
		if errors.Unwrap(e) == domain.ErrValidation { //nolint:errorlint // identity of the direct wrapper
			return e.Error()
		}
	}
	return domain.ErrValidation.Error()
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context())
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorResponseCodeInternalError, "internal error")
}

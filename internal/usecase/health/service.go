package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckDisabled marks a collaborator that is not configured. The
	// pipeline falls back without it, so it does not degrade the status.
	CheckDisabled CheckResult = "disabled"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Collaborators tells which optional upstreams were configured at startup.
type Collaborators struct {
	Search bool
	LLM    bool
}

// Service coordinates health checks.
type Service struct {
	db       DBPinger
	upstream Collaborators
}

// New creates a Service.
func New(db DBPinger, upstream Collaborators) *Service {
	return &Service{db: db, upstream: upstream}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := map[string]CheckResult{
		"search": configured(s.upstream.Search),
		"llm":    configured(s.upstream.LLM),
	}

	if err := s.db.Ping(ctx); err != nil {
		checks["storage"] = CheckError
	} else {
		checks["storage"] = CheckOK
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}

func configured(ok bool) CheckResult {
	if ok {
		return CheckOK
	}
	return CheckDisabled
}

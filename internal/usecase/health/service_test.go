package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockDBPinger struct {
	err error
}

func (m *mockDBPinger) Ping(_ context.Context) error { return m.err }

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockDBPinger{}, Collaborators{Search: true, LLM: true})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	for _, name := range []string{"storage", "search", "llm"} {
		if r.Checks[name] != CheckOK {
			t.Errorf("expected %s %q, got %q", name, CheckOK, r.Checks[name])
		}
	}
}

func TestCheck_StorageError(t *testing.T) {
	svc := New(&mockDBPinger{err: errors.New("conn refused")}, Collaborators{Search: true, LLM: true})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["storage"] != CheckError {
		t.Errorf("expected storage %q, got %q", CheckError, r.Checks["storage"])
	}
}

func TestCheck_DisabledCollaboratorsStayHealthy(t *testing.T) {
	svc := New(&mockDBPinger{}, Collaborators{})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["search"] != CheckDisabled {
		t.Errorf("expected search %q, got %q", CheckDisabled, r.Checks["search"])
	}
	if r.Checks["llm"] != CheckDisabled {
		t.Errorf("expected llm %q, got %q", CheckDisabled, r.Checks["llm"])
	}
}

func TestCheck_PartialConfiguration(t *testing.T) {
	svc := New(&mockDBPinger{}, Collaborators{Search: true})
	r := svc.Check(context.Background())

	if r.Checks["search"] != CheckOK || r.Checks["llm"] != CheckDisabled {
		t.Errorf("unexpected checks: %v", r.Checks)
	}
}

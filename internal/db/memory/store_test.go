package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

func mustRange(t *testing.T, s *Store, key string, start, stop int64) []string {
	t.Helper()
	got, err := s.LRange(context.Background(), key, start, stop)
	if err != nil {
		t.Fatalf("LRange: %v", err)
	}
	return got
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestLPush_NewestFirst(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	_ = s.LPush(ctx, "k", "a")
	_ = s.LPush(ctx, "k", "b", "c")

	if got := mustRange(t, s, "k", 0, -1); !equal(got, []string{"c", "b", "a"}) {
		t.Errorf("got %v", got)
	}
}

func TestLRange_Bounds(t *testing.T) {
	s := NewStore()
	_ = s.LPush(context.Background(), "k", "e", "d", "c", "b", "a")

	tests := []struct {
		start, stop int64
		want        []string
	}{
		{0, 1, []string{"a", "b"}},
		{0, 100, []string{"a", "b", "c", "d", "e"}},
		{-2, -1, []string{"d", "e"}},
		{3, 1, []string{}},
		{-100, 0, []string{"a"}},
		{10, 20, []string{}},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("%d..%d", tc.start, tc.stop), func(t *testing.T) {
			if got := mustRange(t, s, "k", tc.start, tc.stop); !equal(got, tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestLRange_MissingKey(t *testing.T) {
	s := NewStore()
	if got := mustRange(t, s, "missing", 0, -1); len(got) != 0 {
		t.Errorf("expected empty, got %v", got)
	}
}

func TestLRange_ReturnsCopy(t *testing.T) {
	s := NewStore()
	_ = s.LPush(context.Background(), "k", "a")
	got := mustRange(t, s, "k", 0, -1)
	got[0] = "mutated"

	if again := mustRange(t, s, "k", 0, -1); again[0] != "a" {
		t.Error("LRange must not expose internal storage")
	}
}

func TestLRem(t *testing.T) {
	tests := []struct {
		name    string
		count   int64
		removed int64
		want    []string
	}{
		{"first from head", 1, 1, []string{"y", "x", "z", "x"}},
		{"two from head", 2, 2, []string{"y", "z", "x"}},
		{"one from tail", -1, 1, []string{"x", "y", "x", "z"}},
		{"all", 0, 3, []string{"y", "z"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewStore()
			// LPush reverses argument order: list is x y x z x.
			_ = s.LPush(context.Background(), "k", "x", "z", "x", "y", "x")

			n, err := s.LRem(context.Background(), "k", tc.count, "x")
			if err != nil {
				t.Fatalf("LRem: %v", err)
			}
			if n != tc.removed {
				t.Errorf("removed = %d, want %d", n, tc.removed)
			}
			if got := mustRange(t, s, "k", 0, -1); !equal(got, tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestLRem_Absent(t *testing.T) {
	s := NewStore()
	_ = s.LPush(context.Background(), "k", "a")
	n, err := s.LRem(context.Background(), "k", 1, "b")
	if err != nil || n != 0 {
		t.Fatalf("got %d, %v", n, err)
	}
}

func TestConcurrentPush(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.LPush(context.Background(), "k", fmt.Sprint(i))
		}()
	}
	wg.Wait()

	if got := mustRange(t, s, "k", 0, -1); len(got) != 50 {
		t.Errorf("len = %d, want 50", len(got))
	}
}

func TestPingAndReady(t *testing.T) {
	s := NewStore()
	if err := s.Ping(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := s.WaitForReady(context.Background(), 0); err != nil {
		t.Fatal(err)
	}
	s.Close()
}

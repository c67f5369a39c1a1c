// Package memory is an in-process db.Store for single-instance deployments and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/kailas-cloud/labassist/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Store keeps lists in memory. Contents are lost on restart.
type Store struct {
	mu    sync.RWMutex
	lists map[string][]string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{lists: make(map[string][]string)}
}

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() {}

// WaitForReady returns immediately.
func (s *Store) WaitForReady(_ context.Context, _ time.Duration) error { return nil }

// LPush prepends values with Redis semantics: the last value ends up at the head.
func (s *Store) LPush(_ context.Context, key string, values ...string) error {
	if len(values) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.lists[key]
	next := make([]string, 0, len(cur)+len(values))
	for i := len(values) - 1; i >= 0; i-- {
		next = append(next, values[i])
	}
	s.lists[key] = append(next, cur...)
	return nil
}

// LRange returns a copy of elements start..stop inclusive.
func (s *Store) LRange(_ context.Context, key string, start, stop int64) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.lists[key]
	n := int64(len(list))
	if start < 0 {
		start = max(n+start, 0)
	}
	if stop < 0 {
		stop = n + stop
	}
	if stop >= n {
		stop = n - 1
	}
	if n == 0 || start > stop {
		return []string{}, nil
	}

	out := make([]string, stop-start+1)
	copy(out, list[start:stop+1])
	return out, nil
}

// LRem removes occurrences of value: count > 0 from the head, count < 0 from
// the tail, count == 0 all of them.
func (s *Store) LRem(_ context.Context, key string, count int64, value string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.lists[key]
	limit := count
	if limit < 0 {
		limit = -limit
	}

	drop := make([]bool, len(list))
	var removed int64
	for step := range list {
		i := step
		if count < 0 {
			i = len(list) - 1 - step
		}
		if list[i] != value {
			continue
		}
		drop[i] = true
		removed++
		if limit > 0 && removed == limit {
			break
		}
	}
	if removed == 0 {
		return 0, nil
	}

	kept := make([]string, 0, len(list)-int(removed))
	for i, v := range list {
		if !drop[i] {
			kept = append(kept, v)
		}
	}
	if len(kept) == 0 {
		delete(s.lists, key)
	} else {
		s.lists[key] = kept
	}
	return removed, nil
}

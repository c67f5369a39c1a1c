package db

import (
	"context"
	"time"
)

// Store is the storage facade used by the repositories.
type Store interface {
	Pinger
	ListStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ListStore provides list operations. Lists are newest-first: LPush prepends.
type ListStore interface {
	// LPush prepends values in argument order, so the last value ends up first.
	LPush(ctx context.Context, key string, values ...string) error
	// LRange returns elements start..stop inclusive; negative indexes count from the end.
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	// LRem removes up to count occurrences of value from the head and reports how many were removed.
	LRem(ctx context.Context, key string, count int64, value string) (int64, error)
}

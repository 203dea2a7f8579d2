// Package ratelimit provides a per-user sliding-window admission check.
package ratelimit

import (
	"sync"
	"time"
)

// Window is the trailing interval in which requests are counted.
const Window = time.Minute

// Limiter admits up to limit requests per user within a rolling window.
// State is owned by the Limiter and guarded by a mutex; it is shared by
// every pipeline worker.
type Limiter struct {
	mu    sync.Mutex
	limit int
	seen  map[int64][]time.Time

	now func() time.Time
}

// New creates a Limiter admitting up to limit requests per user per minute.
func New(limit int) *Limiter {
	return &Limiter{
		limit: limit,
		seen:  make(map[int64][]time.Time),
		now:   time.Now,
	}
}

// Acquire records one request attempt for the user and reports whether it is
// admitted. Timestamps older than the window are pruned lazily on each call.
// The count is compared before recording, so exactly limit requests pass per
// rolling window and a blocked attempt is not itself recorded.
func (l *Limiter) Acquire(userID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	recent := l.seen[userID][:0]
	for _, t := range l.seen[userID] {
		if now.Sub(t) < Window {
			recent = append(recent, t)
		}
	}
	if len(recent) >= l.limit {
		l.seen[userID] = recent
		return false
	}
	l.seen[userID] = append(recent, now)
	return true
}

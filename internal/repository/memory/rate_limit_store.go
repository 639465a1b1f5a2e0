package memory

import (
	"context"
	"sync"
	"time"

	"portfolio-backend/internal/domain"
)

// rateLimitEntry tracks request count for a key
type rateLimitEntry struct {
	count   int
	resetAt time.Time
}

// RateLimitStore is a process-local fixed-window counter.
type RateLimitStore struct {
	limit   int
	window  time.Duration
	mu      sync.Mutex
	entries map[string]*rateLimitEntry
}

func NewRateLimitStore(limit int, window time.Duration) *RateLimitStore {
	return &RateLimitStore{
		limit:   limit,
		window:  window,
		entries: make(map[string]*rateLimitEntry),
	}
}

func (s *RateLimitStore) Increment(ctx context.Context, key string, now time.Time) (domain.RateLimitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok || !now.Before(entry.resetAt) {
		entry = &rateLimitEntry{resetAt: now.Add(s.window)}
		s.entries[key] = entry
	}
	entry.count++

	return domain.RateLimitResult{
		Count:   entry.count,
		Limit:   s.limit,
		Allowed: entry.count <= s.limit,
		ResetAt: entry.resetAt,
	}, nil
}

// Sweep drops every key whose window ended before now.
func (s *RateLimitStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, entry := range s.entries {
		if !now.Before(entry.resetAt) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked keys.
func (s *RateLimitStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// StartCleanup sweeps expired keys every interval until ctx is done.
func (s *RateLimitStore) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				s.Sweep(now)
			}
		}
	}()
}

package redis

import (
	"context"
	"fmt"
	"time"

	"portfolio-backend/internal/domain"

	goredis "github.com/redis/go-redis/v9"
)

// Lua script for atomic increment with TTL on first set
// KEYS[1] = counter key
// ARGV[1] = window in milliseconds
// Returns: [current_count, pttl_remaining]
var rateLimitScript = goredis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
if ttl < 0 then
    redis.call('PEXPIRE', KEYS[1], ARGV[1])
    ttl = tonumber(ARGV[1])
end
return {count, ttl}
`)

// RateLimitStore keeps fixed-window counters in Redis so several instances
// share one budget per client.
type RateLimitStore struct {
	client    goredis.Scripter
	keyPrefix string
	limit     int
	window    time.Duration
}

func NewRateLimitStore(client goredis.Scripter, keyPrefix string, limit int, window time.Duration) *RateLimitStore {
	return &RateLimitStore{
		client:    client,
		keyPrefix: keyPrefix,
		limit:     limit,
		window:    window,
	}
}

func (s *RateLimitStore) Increment(ctx context.Context, key string, now time.Time) (domain.RateLimitResult, error) {
	result, err := rateLimitScript.Run(ctx, s.client, []string{s.keyPrefix + key}, s.window.Milliseconds()).Int64Slice()
	if err != nil {
		return domain.RateLimitResult{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}
	if len(result) < 2 {
		return domain.RateLimitResult{}, fmt.Errorf("unexpected redis result format: %v", result)
	}

	count := int(result[0])
	ttl := time.Duration(result[1]) * time.Millisecond

	return domain.RateLimitResult{
		Count:   count,
		Limit:   s.limit,
		Allowed: count <= s.limit,
		ResetAt: now.Add(ttl),
	}, nil
}

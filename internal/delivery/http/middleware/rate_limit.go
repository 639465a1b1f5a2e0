package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Primary counter store (Redis or memory)
	Store domain.RateLimitStore
	// Used when Store errors and FailClosed is false
	Fallback domain.RateLimitStore
	// Whether to reject (503) when Store is unavailable
	FailClosed bool
	// Custom key extractor (default: client IP)
	KeyFunc func(*gin.Context) string
	// Body of the 429
	Message string
	// Clock, replaceable in tests
	Now    func() time.Time
	Logger *security.SecurityLogger
}

// ContactRateLimitConfig returns the contact form policy around the given stores
func ContactRateLimitConfig(store, fallback domain.RateLimitStore, failClosed bool) RateLimitConfig {
	return RateLimitConfig{
		Store:      store,
		Fallback:   fallback,
		FailClosed: failClosed,
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
		Message: "Too many contact form submissions, please try again later.",
		Now:     time.Now,
		Logger:  security.DefaultLogger(),
	}
}

// RateLimitMiddleware counts every request that reaches it, before the body
// is read, and aborts with 429 once the key's window is exhausted.
func RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	if config.KeyFunc == nil {
		config.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.Logger == nil {
		config.Logger = security.DefaultLogger()
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := config.KeyFunc(c)
		now := config.Now()

		result, err := config.Store.Increment(ctx, key, now)
		if err != nil {
			config.Logger.Log(ctx, security.SecurityEvent{
				Event:     security.EventRateLimitDegraded,
				IP:        c.ClientIP(),
				RequestID: c.GetString(response.RequestIDKey),
				Details:   map[string]interface{}{"error": err.Error(), "fail_closed": config.FailClosed},
			})
			if config.FailClosed {
				response.Error(c, http.StatusServiceUnavailable, "Service temporarily unavailable. Please try again.", "")
				c.Abort()
				return
			}
			if config.Fallback == nil {
				c.Next()
				return
			}
			if result, err = config.Fallback.Increment(ctx, key, now); err != nil {
				c.Next()
				return
			}
		}

		reset := ceilSeconds(result.RetryAfter(now))
		c.Header("RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("RateLimit-Remaining", strconv.Itoa(result.Remaining()))
		c.Header("RateLimit-Reset", strconv.Itoa(reset))

		if !result.Allowed {
			if reset < 1 {
				reset = 1
			}
			c.Header("Retry-After", strconv.Itoa(reset))

			config.Logger.LogRateLimitTriggered(ctx,
				c.ClientIP(),
				c.GetHeader("User-Agent"),
				c.GetString(response.RequestIDKey),
				c.FullPath(),
			)

			response.RateLimited(c, config.Message, FormatRetryAfter(result.RetryAfter(now)))
			c.Abort()
			return
		}

		c.Next()
	}
}

// FormatRetryAfter renders a wait as "15 minutes" or "30 seconds", rounding up.
func FormatRetryAfter(d time.Duration) string {
	if d < time.Minute {
		secs := ceilSeconds(d)
		if secs < 1 {
			secs = 1
		}
		return plural(secs, "second")
	}
	return plural(int(math.Ceil(d.Minutes())), "minute")
}

func ceilSeconds(d time.Duration) int {
	return int(math.Ceil(d.Seconds()))
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

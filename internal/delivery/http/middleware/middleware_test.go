package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"portfolio-backend/internal/delivery/http/middleware"
	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/repository/memory"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type failingStore struct{}

func (failingStore) Increment(ctx context.Context, key string, now time.Time) (domain.RateLimitResult, error) {
	return domain.RateLimitResult{}, errors.New("redis: connection refused")
}

func limitedRouter(cfg middleware.RateLimitConfig) *gin.Engine {
	r := gin.New()
	r.POST("/contact", middleware.RateLimitMiddleware(cfg), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func post(r *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/contact", nil))
	return w
}

func TestFormatRetryAfter(t *testing.T) {
	cases := map[time.Duration]string{
		15 * time.Minute:               "15 minutes",
		14*time.Minute + 1*time.Second: "15 minutes",
		time.Minute:                    "1 minute",
		30 * time.Second:               "30 seconds",
		1500 * time.Millisecond:        "2 seconds",
		time.Second:                    "1 second",
		0:                              "1 second",
	}
	for in, want := range cases {
		assert.Equal(t, want, middleware.FormatRetryAfter(in), in.String())
	}
}

func TestRateLimitFallsBackWhenStoreFails(t *testing.T) {
	fallback := memory.NewRateLimitStore(1, time.Minute)
	r := limitedRouter(middleware.RateLimitConfig{
		Store:    failingStore{},
		Fallback: fallback,
		Message:  "slow down",
	})

	assert.Equal(t, http.StatusOK, post(r).Code)
	assert.Equal(t, http.StatusTooManyRequests, post(r).Code)
	assert.Equal(t, 1, fallback.Len())
}

func TestRateLimitFailClosed(t *testing.T) {
	r := limitedRouter(middleware.RateLimitConfig{
		Store:      failingStore{},
		Fallback:   memory.NewRateLimitStore(5, time.Minute),
		FailClosed: true,
	})

	w := post(r)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRateLimitWithoutFallbackAllows(t *testing.T) {
	r := limitedRouter(middleware.RateLimitConfig{Store: failingStore{}})

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, post(r).Code)
	}
}

func TestCORSReflectsOriginWhenUnconfigured(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORSMiddleware(""))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", w.Header().Get("Vary"))
}

func TestCORSTrailingSlashIgnored(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORSMiddleware("https://portfolio.example.com/"))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://portfolio.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "https://portfolio.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDReusesValidHeader(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	const id = "4b1c5d8e-2f3a-4c6b-9d7e-1a2b3c4d5e6f"
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(middleware.RequestIDHeader, id)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, id, w.Header().Get(middleware.RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(middleware.RequestIDHeader, "not-a-uuid")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	got := w.Header().Get(middleware.RequestIDHeader)
	require.NotEmpty(t, got)
	assert.NotEqual(t, "not-a-uuid", got)
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(middleware.BodyLimit(8))
	r.POST("/echo", func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"message":"far too long"}`)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

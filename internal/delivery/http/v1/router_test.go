package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"portfolio-backend/config"
	"portfolio-backend/internal/delivery/http/middleware"
	"portfolio-backend/internal/delivery/http/response"
	v1 "portfolio-backend/internal/delivery/http/v1"
	"portfolio-backend/internal/repository/memory"
	"portfolio-backend/internal/usecase"
	"portfolio-backend/pkg/email"
	"portfolio-backend/pkg/security"
	"portfolio-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Verify(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockTransport) Send(ctx context.Context, msg *email.Message) error {
	return m.Called(ctx, msg).Error(0)
}

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

type testServer struct {
	router    *gin.Engine
	transport *MockTransport
	clock     *fakeClock
}

func newTestServer(t *testing.T, verbose bool) *testServer {
	t.Helper()

	cfg := &config.Config{
		VerboseErrors:   verbose,
		AllowedOrigin:   "https://portfolio.example.com",
		MailUser:        "portfolio@example.com",
		RecipientEmail:  "owner@example.com",
		RateLimitMax:    5,
		RateLimitWindow: 15 * time.Minute,
		Owner:           config.OwnerProfile{Name: "Owner", Title: "Engineer"},
	}

	transport := new(MockTransport)
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}

	contactUC := usecase.NewContactUsecase(
		validation.New(),
		email.NewComposer(cfg),
		email.NewDispatcher(transport, time.Second),
		security.DefaultLogger(),
	)

	limiter := middleware.ContactRateLimitConfig(memory.NewRateLimitStore(cfg.RateLimitMax, cfg.RateLimitWindow), nil, false)
	limiter.Now = clock.Now

	router := v1.NewRouter(v1.RouterDeps{
		ContactUC:   contactUC,
		HealthUC:    usecase.NewHealthUsecase(),
		RateLimiter: middleware.RateLimitMiddleware(limiter),
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config:      cfg,
	})

	return &testServer{router: router, transport: transport, clock: clock}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func contactRequest(t *testing.T, body any) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/contact", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func validBody() map[string]string {
	return map[string]string{
		"name":    "Al",
		"email":   "a@b.com",
		"subject": "Hello there",
		"message": "This is a test message.",
	}
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, false)

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body response.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "OK", body.Status)
	assert.Equal(t, usecase.ServiceName, body.Service)
	assert.Equal(t, usecase.ServiceVersion, body.Version)
	_, err := time.Parse(time.RFC3339, body.Timestamp)
	assert.NoError(t, err)
}

func TestContactSuccess(t *testing.T) {
	s := newTestServer(t, false)
	s.transport.On("Verify", mock.Anything).Return(nil).Once()
	s.transport.On("Send", mock.Anything, mock.Anything).Return(nil).Twice()

	w := s.do(contactRequest(t, validBody()))

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, v1.SuccessMessage, body["message"])
	assert.NotEmpty(t, body["timestamp"])
	assert.Equal(t, "5", w.Header().Get("RateLimit-Limit"))
	assert.Equal(t, "4", w.Header().Get("RateLimit-Remaining"))
	s.transport.AssertExpectations(t)
}

func TestContactValidationFailure(t *testing.T) {
	s := newTestServer(t, false)

	w := s.do(contactRequest(t, map[string]string{
		"name":    "A",
		"email":   "bad",
		"subject": "Hi",
		"message": "short",
	}))

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Validation failed", body["message"])

	errs, ok := body["errors"].([]any)
	require.True(t, ok)
	require.Len(t, errs, 4)
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.(map[string]any)["field"].(string))
	}
	assert.Equal(t, []string{"name", "email", "subject", "message"}, fields)
	s.transport.AssertNotCalled(t, "Verify", mock.Anything)
}

func TestContactMalformedBody(t *testing.T) {
	s := newTestServer(t, false)

	req := httptest.NewRequest(http.MethodPost, "/api/contact", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := s.do(req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Invalid request body", body["message"])
}

func TestContactVerificationFailure(t *testing.T) {
	t.Run("hides detail when not verbose", func(t *testing.T) {
		s := newTestServer(t, false)
		s.transport.On("Verify", mock.Anything).Return(errors.New("535 auth failed"))

		w := s.do(contactRequest(t, validBody()))

		require.Equal(t, http.StatusInternalServerError, w.Code)
		body := decode(t, w)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, usecase.SendFailedMessage, body["message"])
		assert.NotContains(t, body, "error")
		assert.NotContains(t, body, "errors")
		s.transport.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("includes detail when verbose", func(t *testing.T) {
		s := newTestServer(t, true)
		s.transport.On("Verify", mock.Anything).Return(errors.New("535 auth failed"))

		w := s.do(contactRequest(t, validBody()))

		require.Equal(t, http.StatusInternalServerError, w.Code)
		body := decode(t, w)
		assert.Contains(t, body["error"], "535 auth failed")
	})
}

func TestContactRateLimit(t *testing.T) {
	s := newTestServer(t, false)
	s.transport.On("Verify", mock.Anything).Return(nil)
	s.transport.On("Send", mock.Anything, mock.Anything).Return(nil)

	for i := 0; i < 5; i++ {
		w := s.do(contactRequest(t, validBody()))
		require.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
	}

	w := s.do(contactRequest(t, validBody()))
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	var limited response.RateLimitResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &limited))
	assert.Equal(t, "Too many contact form submissions, please try again later.", limited.Error)
	assert.Equal(t, "15 minutes", limited.RetryAfter)
	assert.Equal(t, "900", w.Header().Get("Retry-After"))
	assert.Equal(t, "0", w.Header().Get("RateLimit-Remaining"))

	// Other clients keep their own window
	other := contactRequest(t, validBody())
	other.RemoteAddr = "198.51.100.7:4000"
	assert.Equal(t, http.StatusOK, s.do(other).Code)

	s.clock.Advance(15 * time.Minute)
	w = s.do(contactRequest(t, validBody()))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitCountsInvalidRequests(t *testing.T) {
	s := newTestServer(t, false)

	for i := 0; i < 5; i++ {
		w := s.do(contactRequest(t, map[string]string{"name": "A"}))
		require.Equal(t, http.StatusBadRequest, w.Code)
	}

	w := s.do(contactRequest(t, validBody()))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	s.transport.AssertNotCalled(t, "Verify", mock.Anything)
}

func TestNotFound(t *testing.T) {
	s := newTestServer(t, false)

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/unknown", nil))

	require.Equal(t, http.StatusNotFound, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Endpoint not found", body["message"])
	assert.Equal(t, []any{"GET /api/health", "POST /api/contact"}, body["availableEndpoints"])
}

func TestPanicRecovery(t *testing.T) {
	s := newTestServer(t, false)
	s.router.GET("/api/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/panic", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Internal server error", body["message"])
	assert.NotContains(t, body, "error")
}

func TestRequestIDAndCORS(t *testing.T) {
	s := newTestServer(t, false)

	req := httptest.NewRequest(http.MethodOptions, "/api/contact", nil)
	req.Header.Set("Origin", "https://portfolio.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := s.do(req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://portfolio.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	req = httptest.NewRequest(http.MethodOptions, "/api/contact", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = s.do(req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

package response

import (
	"net/http"
	"time"

	"portfolio-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "RequestID"

// Response standardizes the API JSON response
type Response struct {
	Success            bool                  `json:"success"`
	Message            string                `json:"message"`
	Data               interface{}           `json:"data,omitempty"`
	Errors             []apperror.FieldError `json:"errors,omitempty"`
	Error              string                `json:"error,omitempty"`
	Timestamp          string                `json:"timestamp,omitempty"`
	AvailableEndpoints []string              `json:"availableEndpoints,omitempty"`
	RequestID          string                `json:"request_id,omitempty"`
}

// RateLimitResponse is the body of a 429.
type RateLimitResponse struct {
	Error      string `json:"error"`
	RetryAfter string `json:"retryAfter"`
}

// HealthResponse is the body of the health endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Service   string `json:"service"`
	Version   string `json:"version"`
}

// Timestamp formats t the way every response reports time.
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

func requestID(c *gin.Context) string {
	reqID, _ := c.Get(RequestIDKey)
	idStr, _ := reqID.(string)
	return idStr
}

// Success sends a success response
func Success(c *gin.Context, code int, message string, at time.Time) {
	c.JSON(code, Response{
		Success:   true,
		Message:   message,
		Timestamp: Timestamp(at),
		RequestID: requestID(c),
	})
}

// Error sends an error response; detail is omitted when empty
func Error(c *gin.Context, code int, message string, detail string) {
	c.JSON(code, Response{
		Success:   false,
		Message:   message,
		Error:     detail,
		RequestID: requestID(c),
	})
}

// ValidationError sends a 400 with per-field errors
func ValidationError(c *gin.Context, code int, message string, fields []apperror.FieldError) {
	c.JSON(code, Response{
		Success:   false,
		Message:   message,
		Errors:    fields,
		RequestID: requestID(c),
	})
}

// NotFound lists the routes the API serves.
func NotFound(c *gin.Context, endpoints []string) {
	c.JSON(http.StatusNotFound, Response{
		Success:            false,
		Message:            "Endpoint not found",
		AvailableEndpoints: endpoints,
		RequestID:          requestID(c),
	})
}

// RateLimited sends a 429 with a human readable retry hint
func RateLimited(c *gin.Context, message, retryAfter string) {
	c.JSON(http.StatusTooManyRequests, RateLimitResponse{
		Error:      message,
		RetryAfter: retryAfter,
	})
}

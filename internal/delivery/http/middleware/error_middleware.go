package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

const internalErrorMessage = "Internal server error"

// ErrorHandler renders the last error a handler attached with c.Error.
// Underlying error text reaches the client only when verbose is set.
func ErrorHandler(logger *slog.Logger, verbose bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if !errors.As(err, &appErr) {
			appErr = apperror.Internal(err)
		}

		if len(appErr.Fields) > 0 {
			response.ValidationError(c, appErr.Code, appErr.Message, appErr.Fields)
			return
		}

		if appErr.Code >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request.Context(), "request failed",
				"status", appErr.Code,
				"path", c.Request.URL.Path,
				"request_id", c.GetString(response.RequestIDKey),
				"error", err,
			)
		}

		detail := ""
		if verbose && appErr.Err != nil {
			detail = appErr.Err.Error()
		}
		response.Error(c, appErr.Code, appErr.Message, detail)
	}
}

// Recovery turns a panic into the generic 500 envelope.
func Recovery(logger *slog.Logger, verbose bool) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		logger.ErrorContext(c.Request.Context(), "panic recovered",
			"path", c.Request.URL.Path,
			"request_id", c.GetString(response.RequestIDKey),
			"panic", fmt.Sprint(recovered),
		)

		detail := ""
		if verbose {
			detail = fmt.Sprint(recovered)
		}
		response.Error(c, http.StatusInternalServerError, internalErrorMessage, detail)
		c.Abort()
	})
}

// BodyLimit caps request bodies at maxBytes.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

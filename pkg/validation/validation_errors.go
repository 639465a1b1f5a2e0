package validation

import (
	"errors"
	"fmt"

	"portfolio-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

// FieldMessages maps a JSON field name to the single message shown for any
// rule that field violates.
type FieldMessages map[string]string

// FormatFieldErrors converts validator errors into one FieldError per field,
// keeping struct declaration order.
func FormatFieldErrors(err error, messages FieldMessages) []apperror.FieldError {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		// Not a validation error, return generic message
		return []apperror.FieldError{{Message: err.Error()}}
	}

	seen := make(map[string]bool, len(validationErrors))
	out := make([]apperror.FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		field := e.Field()
		if seen[field] {
			continue
		}
		seen[field] = true

		msg, ok := messages[field]
		if !ok {
			msg = formatSingleError(e)
		}
		out = append(out, apperror.FieldError{Field: field, Message: msg})
	}
	return out
}

// formatSingleError formats a single validation error to a user-friendly message
func formatSingleError(e validator.FieldError) string {
	field := e.Field()
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, param)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	default:
		// Fallback for unknown tags
		return fmt.Sprintf("%s is invalid (%s)", field, e.Tag())
	}
}

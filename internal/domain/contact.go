package domain

import (
	"context"
	"time"

	"portfolio-backend/pkg/apperror"
)

// ContactRequest represents a contact form submission
type ContactRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,min=5,max=200"`
	Message string `json:"message" validate:"required,min=10,max=2000"`
}

// Submission is a ContactRequest that passed validation, with every field
// trimmed and normalized. Only a Submission can be turned into mail.
type Submission struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// ValidationResult is the outcome of checking a ContactRequest.
// Errors are ordered name, email, subject, message.
type ValidationResult struct {
	Valid  bool
	Errors []apperror.FieldError
}

// ContactReceipt is returned once both messages were accepted by the provider.
type ContactReceipt struct {
	Timestamp time.Time
}

// ContactUsecase defines the interface for contact form operations
type ContactUsecase interface {
	// Validate checks and normalizes a submission without sending anything.
	Validate(req *ContactRequest) (*Submission, ValidationResult)
	// Submit validates, composes and dispatches the owner notification and
	// the sender acknowledgment. source identifies the client (IP address).
	Submit(ctx context.Context, req *ContactRequest, source string) (*ContactReceipt, error)
}

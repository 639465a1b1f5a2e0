package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/email"
	"portfolio-backend/pkg/security"
	"portfolio-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// SendFailedMessage is the only detail a client gets when dispatch fails.
const SendFailedMessage = "Sorry, there was an error sending your message. Please try again later or contact me directly."

// contactFieldMessages is the one message shown per violated field.
var contactFieldMessages = validation.FieldMessages{
	"name":    "Name must be between 2 and 100 characters",
	"email":   "Please provide a valid email address",
	"subject": "Subject must be between 5 and 200 characters",
	"message": "Message must be between 10 and 2000 characters",
}

// MailDispatcher hands composed messages to the mail provider as one unit.
type MailDispatcher interface {
	Dispatch(ctx context.Context, msgs ...*email.Message) error
}

type contactUsecase struct {
	validate   *validator.Validate
	composer   *email.Composer
	dispatcher MailDispatcher
	secLog     *security.SecurityLogger
	now        func() time.Time
}

// NewContactUsecase creates a new contact usecase
func NewContactUsecase(validate *validator.Validate, composer *email.Composer, dispatcher MailDispatcher, secLog *security.SecurityLogger) domain.ContactUsecase {
	if secLog == nil {
		secLog = security.DefaultLogger()
	}
	return &contactUsecase{
		validate:   validate,
		composer:   composer,
		dispatcher: dispatcher,
		secLog:     secLog,
		now:        time.Now,
	}
}

// Validate trims and checks every field. The returned Submission is nil
// unless the result is valid.
func (uc *contactUsecase) Validate(req *domain.ContactRequest) (*domain.Submission, domain.ValidationResult) {
	trimmed := domain.ContactRequest{
		Name:    validation.CollapseControl(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Subject: validation.CollapseControl(req.Subject),
		Message: strings.TrimSpace(req.Message),
	}

	if err := uc.validate.Struct(&trimmed); err != nil {
		return nil, domain.ValidationResult{
			Valid:  false,
			Errors: validation.FormatFieldErrors(err, contactFieldMessages),
		}
	}

	return &domain.Submission{
		Name:    trimmed.Name,
		Email:   strings.ToLower(trimmed.Email),
		Subject: trimmed.Subject,
		Message: trimmed.Message,
	}, domain.ValidationResult{Valid: true}
}

// Submit validates the request, composes both emails and dispatches them together
func (uc *contactUsecase) Submit(ctx context.Context, req *domain.ContactRequest, source string) (*domain.ContactReceipt, error) {
	sub, result := uc.Validate(req)
	if !result.Valid {
		fields := make([]string, 0, len(result.Errors))
		for _, e := range result.Errors {
			fields = append(fields, e.Field)
		}
		uc.secLog.LogValidationFailed(ctx, source, fields)
		return nil, apperror.Validation(result.Errors)
	}

	mail, err := uc.composer.Compose(email.ContactEmailData{
		SenderName:  sub.Name,
		SenderEmail: sub.Email,
		Subject:     sub.Subject,
		Message:     sub.Message,
		SourceIP:    source,
		ReceivedAt:  uc.now(),
	})
	if err != nil {
		return nil, apperror.Internal(err)
	}

	if err := uc.dispatcher.Dispatch(ctx, mail.All()...); err != nil {
		uc.secLog.LogDispatchFailed(ctx, sub.Email, source, err)
		return nil, apperror.New(http.StatusInternalServerError, SendFailedMessage, err)
	}

	uc.secLog.LogContactSent(ctx, sub.Email, source)
	return &domain.ContactReceipt{Timestamp: uc.now()}, nil
}

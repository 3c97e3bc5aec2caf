// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound       = errors.New("resource not found")
	ErrDuplicateKey   = errors.New("duplicate key")
	ErrConflict       = errors.New("conflict")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInvalidInput   = errors.New("invalid input")
	ErrSessionInvalid = errors.New("session invalid")
	ErrUnavailable    = errors.New("service unavailable")
)

const (
	CodeBadRequest   = "BAD_REQUEST"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeRateLimited  = "RATE_LIMITED"
	CodeInternal     = "INTERNAL_ERROR"
)

// AppError is an error that knows how it should be rendered to an API
// client.
type AppError struct {
	Err        error
	Message    string
	StatusCode int
	Code       string
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(err error, message string, status int, code string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: status,
		Code:       code,
	}
}

func BadRequestError(message string) *AppError {
	return NewAppError(ErrInvalidInput, message, http.StatusBadRequest, CodeBadRequest)
}

func UnauthorizedError(message string) *AppError {
	if message == "" {
		message = "authentication required"
	}
	return NewAppError(ErrUnauthorized, message, http.StatusUnauthorized, CodeUnauthorized)
}

func ForbiddenError(message string) *AppError {
	if message == "" {
		message = "access denied"
	}
	return NewAppError(ErrForbidden, message, http.StatusForbidden, CodeForbidden)
}

func NotFoundError(resource string) *AppError {
	return NewAppError(
		ErrNotFound,
		resource+" not found",
		http.StatusNotFound,
		CodeNotFound,
	)
}

func DuplicateError(field string) *AppError {
	return NewAppError(
		ErrDuplicateKey,
		field+" already exists",
		http.StatusConflict,
		CodeConflict,
	)
}

func InternalError(err error) *AppError {
	return NewAppError(
		err,
		"internal server error",
		http.StatusInternalServerError,
		CodeInternal,
	)
}

// ToAppError maps a sentinel-wrapped service error to its HTTP rendering.
// resource names the entity used in NotFound messages.
func ToAppError(err error, resource string) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return NotFoundError(resource)
	case errors.Is(err, ErrForbidden):
		return ForbiddenError("")
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrSessionInvalid):
		return UnauthorizedError("")
	case errors.Is(err, ErrInvalidInput):
		return BadRequestError(invalidInputMessage(err))
	case errors.Is(err, ErrDuplicateKey), errors.Is(err, ErrConflict):
		return NewAppError(err, resource+" already exists", http.StatusConflict, CodeConflict)
	default:
		return InternalError(err)
	}
}

// invalidInputMessage returns the message of the first *InputError in the
// chain, as built by Invalid. A bare ErrInvalidInput wrap carries no
// client-safe detail and renders as "invalid input".
func invalidInputMessage(err error) string {
	var detail *InputError
	if errors.As(err, &detail) {
		return detail.Message
	}
	return ErrInvalidInput.Error()
}

// InputError carries a client-safe validation message.
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

func Invalid(format string, args ...any) error {
	return &InputError{Message: fmt.Sprintf(format, args...)}
}

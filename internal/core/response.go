// AngelaMos | 2026
// response.go

package core

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, data)
}

func Message(w http.ResponseWriter, message string) {
	JSON(w, http.StatusOK, MessageResponse{Message: message})
}

func JSONError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = InternalError(err)
	}

	if appErr.StatusCode >= http.StatusInternalServerError {
		slog.Error("request failed", "error", appErr.Err)
	}

	JSON(w, appErr.StatusCode, ErrorResponse{
		Error: appErr.Message,
		Code:  appErr.Code,
	})
}

func BadRequest(w http.ResponseWriter, message string) {
	JSONError(w, BadRequestError(message))
}

func Unauthorized(w http.ResponseWriter, message string) {
	JSONError(w, UnauthorizedError(message))
}

func Forbidden(w http.ResponseWriter, message string) {
	JSONError(w, ForbiddenError(message))
}

func NotFound(w http.ResponseWriter, resource string) {
	JSONError(w, NotFoundError(resource))
}

func InternalServerError(w http.ResponseWriter, err error) {
	JSONError(w, InternalError(err))
}

// FormatValidationError turns validator errors into a single readable
// message, e.g. "username is required; password must be at least 6".
func FormatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request"
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := lowerFirst(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "min":
			msgs = append(msgs, field+" must be at least "+fe.Param())
		case "max":
			msgs = append(msgs, field+" must be at most "+fe.Param())
		case "oneof":
			msgs = append(msgs, field+" must be one of "+fe.Param())
		case "alphanumunderscore":
			msgs = append(msgs, field+" may only contain letters, digits, '_' and '-'")
		case "url":
			msgs = append(msgs, field+" must be a valid URL")
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}

	return strings.Join(msgs, "; ")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

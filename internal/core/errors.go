// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidInput = errors.New("invalid input")
)

// AppError is an error that maps directly onto an HTTP response. The wire
// envelope is {"error":{"code":<status>,"message":...}} with code mirroring
// the HTTP status.
type AppError struct {
	Err     error
	Status  int
	Message string
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

func NewAppError(err error, status int, message string) *AppError {
	return &AppError{Err: err, Status: status, Message: message}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func BadRequestError(message string) *AppError {
	return NewAppError(ErrInvalidInput, http.StatusBadRequest, message)
}

// ConflictError reports duplicate emails, usernames and tag names. Conflicts
// surface as 400, not 409, matching the public API contract.
func ConflictError(message string) *AppError {
	return NewAppError(ErrDuplicateKey, http.StatusBadRequest, message)
}

func UnauthorizedError(message string) *AppError {
	if message == "" {
		message = "Token not provided."
	}
	return NewAppError(ErrUnauthorized, http.StatusUnauthorized, message)
}

func ForbiddenError(message string) *AppError {
	if message == "" {
		message = "Insufficient permissions."
	}
	return NewAppError(ErrForbidden, http.StatusForbidden, message)
}

func NotFoundError(message string) *AppError {
	return NewAppError(ErrNotFound, http.StatusNotFound, message)
}

func TokenInvalidError() *AppError {
	return NewAppError(ErrTokenInvalid, http.StatusUnauthorized, "Invalid token.")
}

func TokenExpiredError() *AppError {
	return NewAppError(ErrTokenExpired, http.StatusUnauthorized, "Invalid token.")
}

// FormatValidationError renders the first failed field of a validator error,
// preserving the declaration order of the request struct as the priority
// order of the reported field.
func FormatValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return "Invalid request body."
	}

	fe := validationErrs[0]
	field := strings.ToLower(fe.Field())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The field `%s` is mandatory.", field)
	case "email":
		return fmt.Sprintf("The field `%s` is not a valid email address.", field)
	case "min", "max", "len":
		return fmt.Sprintf("The field `%s` has an invalid length.", field)
	default:
		return fmt.Sprintf("The field `%s` is invalid.", field)
	}
}

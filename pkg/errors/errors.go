package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies an application error
type ErrorCode int

const (
	ErrValidation ErrorCode = iota + 1000
	ErrNotFound
	ErrConflict
	ErrUnauthenticated
	ErrForbidden
	ErrUpstream
	ErrInternal
)

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
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

// HTTPStatus maps the error code to an HTTP status
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case ErrValidation:
		return http.StatusBadRequest
	case ErrNotFound:
		return http.StatusNotFound
	case ErrConflict:
		return http.StatusConflict
	case ErrUnauthenticated:
		return http.StatusUnauthorized
	case ErrForbidden:
		return http.StatusForbidden
	case ErrUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func Validation(message string, err error) *AppError {
	return &AppError{Code: ErrValidation, Message: message, Err: err}
}

func NotFound(resource string, err error) *AppError {
	return &AppError{Code: ErrNotFound, Message: fmt.Sprintf("%s not found", resource), Err: err}
}

func Conflict(message string, err error) *AppError {
	return &AppError{Code: ErrConflict, Message: message, Err: err}
}

func Unauthenticated(message string, err error) *AppError {
	if message == "" {
		message = "unauthorized"
	}
	return &AppError{Code: ErrUnauthenticated, Message: message, Err: err}
}

func Forbidden(message string, err error) *AppError {
	return &AppError{Code: ErrForbidden, Message: message, Err: err}
}

func Upstream(message string, err error) *AppError {
	return &AppError{Code: ErrUpstream, Message: message, Err: err}
}

func Internal(err error) *AppError {
	return &AppError{Code: ErrInternal, Message: "internal server error", Err: err}
}

// As unwraps err into an *AppError if possible
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether err carries the given code
func IsCode(err error, code ErrorCode) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}

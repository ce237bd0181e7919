package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies a failure from the remote API.
type ErrorCode int

const (
	ErrNotFound ErrorCode = iota + 1000
	ErrConflict
	ErrBadRequest
	ErrUnavailable
	ErrInternal
)

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Status  int       `json:"-"`
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

// Error constructors
func NewNotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Status:  http.StatusNotFound,
		Err:     err,
	}
}

func NewConflict(message string, err error) *AppError {
	return &AppError{
		Code:    ErrConflict,
		Message: message,
		Status:  http.StatusConflict,
		Err:     err,
	}
}

func NewBadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    ErrBadRequest,
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     err,
	}
}

func NewUnavailable(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrUnavailable,
		Message: fmt.Sprintf("%s request failed", resource),
		Status:  http.StatusServiceUnavailable,
		Err:     err,
	}
}

func NewInternal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal error",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// FromStatus maps a non-2xx HTTP response status into the error taxonomy.
// The transport status is preserved so callers can still branch on it.
func FromStatus(resource string, status int, err error) *AppError {
	switch status {
	case http.StatusNotFound:
		e := NewNotFound(resource, err)
		e.Status = status
		return e
	case http.StatusConflict:
		e := NewConflict(fmt.Sprintf("%s already exists", resource), err)
		e.Status = status
		return e
	case http.StatusBadRequest:
		e := NewBadRequest(fmt.Sprintf("invalid %s request", resource), err)
		e.Status = status
		return e
	default:
		e := NewUnavailable(resource, err)
		e.Status = status
		return e
	}
}

// IsNotFound reports whether err classifies as a 404.
func IsNotFound(err error) bool {
	return hasCode(err, ErrNotFound)
}

// IsConflict reports whether err classifies as a 409.
func IsConflict(err error) bool {
	return hasCode(err, ErrConflict)
}

func hasCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// Package errors holds the error values that reach HTTP clients. Domain
// packages keep their own sentinels; use cases translate them into AppError.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation_error"
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	ErrorTypeForbidden    ErrorType = "forbidden"
	ErrorTypeRateLimited  ErrorType = "rate_limited"
	ErrorTypeUnavailable  ErrorType = "service_unavailable"
	ErrorTypeInternal     ErrorType = "internal_error"
)

var statusByType = map[ErrorType]int{
	ErrorTypeValidation:   http.StatusBadRequest,
	ErrorTypeNotFound:     http.StatusNotFound,
	ErrorTypeUnauthorized: http.StatusUnauthorized,
	ErrorTypeForbidden:    http.StatusForbidden,
	ErrorTypeRateLimited:  http.StatusTooManyRequests,
	ErrorTypeUnavailable:  http.StatusServiceUnavailable,
	ErrorTypeInternal:     http.StatusInternalServerError,
}

// AppError is an error with a client-facing type and HTTP status.
type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    int       `json:"code"`
	Details string    `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// New builds an AppError of type t. Only the first detail is kept.
func New(t ErrorType, message string, details ...string) *AppError {
	code, ok := statusByType[t]
	if !ok {
		code = http.StatusInternalServerError
	}
	e := &AppError{Type: t, Message: message, Code: code}
	if len(details) > 0 {
		e.Details = details[0]
	}
	return e
}

func NewValidationError(message string, details ...string) *AppError {
	return New(ErrorTypeValidation, message, details...)
}

func NewNotFoundError(message string, details ...string) *AppError {
	return New(ErrorTypeNotFound, message, details...)
}

func NewUnauthorizedError(message string, details ...string) *AppError {
	return New(ErrorTypeUnauthorized, message, details...)
}

func NewForbiddenError(message string, details ...string) *AppError {
	return New(ErrorTypeForbidden, message, details...)
}

func NewRateLimitedError(message string, details ...string) *AppError {
	return New(ErrorTypeRateLimited, message, details...)
}

func NewUnavailableError(message string, details ...string) *AppError {
	return New(ErrorTypeUnavailable, message, details...)
}

func NewInternalError(message string, details ...string) *AppError {
	return New(ErrorTypeInternal, message, details...)
}

// GetAppError returns the first AppError in err's chain, or nil.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

func IsNotFoundError(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypeNotFound
}

var duplicateMarkers = []string{
	"Duplicate entry",          // mysql 1062
	"UNIQUE constraint failed", // sqlite
}

// IsDuplicateError reports whether err is a unique-key violation from MySQL or SQLite.
func IsDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, m := range duplicateMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

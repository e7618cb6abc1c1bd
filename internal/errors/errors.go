package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeUnauthorized indicates the backend rejected the session credential.
	ErrCodeUnauthorized ErrorCode = "unauthorized"
	// ErrCodeForbidden indicates the backend denied access to a resource.
	ErrCodeForbidden ErrorCode = "forbidden"
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeValidation indicates the backend rejected the submitted data.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeConflict indicates a conflict with existing data.
	ErrCodeConflict ErrorCode = "conflict"
	// ErrCodeUnavailable indicates the backend could not be reached.
	ErrCodeUnavailable ErrorCode = "unavailable"
	// ErrCodeInternal indicates an internal or backend server error.
	ErrCodeInternal ErrorCode = "internal"
)

// AppError represents a structured application error with a code, message,
// and optional cause. It supports error wrapping and unwrapping for use with
// errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message. For backend failures this
	// carries the server-provided detail when one was present.
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Unauthorized creates a new Unauthorized error.
func Unauthorized(message string) *AppError {
	return &AppError{Code: ErrCodeUnauthorized, Message: message}
}

// Forbidden creates a new Forbidden error.
func Forbidden(message string) *AppError {
	return &AppError{Code: ErrCodeForbidden, Message: message}
}

// NotFound creates a new NotFound error.
func NotFound(message string) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: message}
}

// NotFoundf creates a new NotFound error with formatted message.
func NotFoundf(format string, args ...any) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Validation creates a new Validation error.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message}
}

// Conflict creates a new Conflict error.
func Conflict(message string) *AppError {
	return &AppError{Code: ErrCodeConflict, Message: message}
}

// Unavailable creates a new Unavailable error.
func Unavailable(message string) *AppError {
	return &AppError{Code: ErrCodeUnavailable, Message: message}
}

// Internal creates a new Internal error.
func Internal(message string) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: message}
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsUnauthorized checks if an error is an Unauthorized error.
func IsUnauthorized(err error) bool {
	return isCode(err, ErrCodeUnauthorized)
}

// IsForbidden checks if an error is a Forbidden error.
func IsForbidden(err error) bool {
	return isCode(err, ErrCodeForbidden)
}

// IsNotFound checks if an error is a NotFound error.
func IsNotFound(err error) bool {
	return isCode(err, ErrCodeNotFound)
}

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool {
	return isCode(err, ErrCodeValidation)
}

// IsConflict checks if an error is a Conflict error.
func IsConflict(err error) bool {
	return isCode(err, ErrCodeConflict)
}

// IsUnavailable checks if an error is an Unavailable error.
func IsUnavailable(err error) bool {
	return isCode(err, ErrCodeUnavailable)
}

// Detail returns the human-readable message carried by err when it is an
// AppError, or the fallback otherwise. Handlers use this to surface backend
// detail messages on forms without leaking raw error chains.
func Detail(err error, fallback string) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}

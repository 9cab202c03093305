package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeAuthentication indicates the login endpoint rejected the
	// credentials. User-correctable; the message is shown verbatim.
	ErrCodeAuthentication ErrorCode = "authentication"
	// ErrCodeProtocol indicates a malformed success response from the login
	// endpoint (missing token or user). Not user-correctable.
	ErrCodeProtocol ErrorCode = "protocol"
	// ErrCodeStorageCorruption indicates stored session data failed
	// sanitization. Never propagated outward; recovered by collapsing to the
	// absent session.
	ErrCodeStorageCorruption ErrorCode = "storage_corruption"
	// ErrCodeValidation indicates invalid input data.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeInternal indicates an unexpected internal failure.
	ErrCodeInternal ErrorCode = "internal"
)

// AppError is a structured application error with a code, message, and
// optional cause. It supports errors.Is and errors.As via Unwrap.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
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

// Authentication creates a new authentication error. The message is the
// server-provided rejection detail when one is available.
func Authentication(message string) *AppError {
	return &AppError{Code: ErrCodeAuthentication, Message: message}
}

// Protocol creates a new protocol error.
func Protocol(message string) *AppError {
	return &AppError{Code: ErrCodeProtocol, Message: message}
}

// Protocolf creates a new protocol error with a formatted message.
func Protocolf(format string, args ...any) *AppError {
	return &AppError{Code: ErrCodeProtocol, Message: fmt.Sprintf(format, args...)}
}

// StorageCorruption creates a new storage corruption error.
func StorageCorruption(message string) *AppError {
	return &AppError{Code: ErrCodeStorageCorruption, Message: message}
}

// Validation creates a new validation error.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message}
}

// Internal creates a new internal error.
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

// IsAuthentication checks if an error is an authentication error.
func IsAuthentication(err error) bool {
	return isCode(err, ErrCodeAuthentication)
}

// IsProtocol checks if an error is a protocol error.
func IsProtocol(err error) bool {
	return isCode(err, ErrCodeProtocol)
}

// IsStorageCorruption checks if an error is a storage corruption error.
func IsStorageCorruption(err error) bool {
	return isCode(err, ErrCodeStorageCorruption)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return isCode(err, ErrCodeValidation)
}

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Depot errors
	ErrDepotAccess  ErrorCode = "DEPOT_ACCESS"
	ErrDepotInvalid ErrorCode = "DEPOT_INVALID"

	// Relocation errors
	ErrRelocate  ErrorCode = "RELOCATE"
	ErrCopy      ErrorCode = "COPY"
	ErrDirCreate ErrorCode = "DIR_CREATE"

	// Lock errors
	ErrLockAcquire ErrorCode = "LOCK_ACQUIRE"
	ErrLockTimeout ErrorCode = "LOCK_TIMEOUT"
)

// DepotError represents a structured error with code and details
type DepotError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *DepotError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *DepotError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *DepotError) Is(target error) bool {
	var targetErr *DepotError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new DepotError with the given code and message
func New(code ErrorCode, message string) *DepotError {
	return &DepotError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new DepotError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *DepotError {
	return &DepotError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a DepotError
func Wrap(err error, code ErrorCode, message string) *DepotError {
	if err == nil {
		return nil
	}
	return &DepotError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *DepotError {
	if err == nil {
		return nil
	}
	return &DepotError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *DepotError) WithDetail(key string, value interface{}) *DepotError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var depotErr *DepotError
	if errors.As(err, &depotErr) {
		return depotErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a DepotError
func GetErrorCode(err error) ErrorCode {
	var depotErr *DepotError
	if errors.As(err, &depotErr) {
		return depotErr.Code
	}
	return ErrUnknown
}

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
	ErrUnknown        ErrorCode = "UNKNOWN"
	ErrInternal       ErrorCode = "INTERNAL"
	ErrInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrAlreadyExists  ErrorCode = "ALREADY_EXISTS"
	ErrNotImplemented ErrorCode = "NOT_IMPLEMENTED"

	// Manifest errors
	ErrManifestLoad  ErrorCode = "MANIFEST_LOAD"
	ErrManifestEmpty ErrorCode = "MANIFEST_EMPTY"

	// Metadata errors
	ErrMetadataLoad  ErrorCode = "METADATA_LOAD"
	ErrMetadataParse ErrorCode = "METADATA_PARSE"

	// Selection errors
	ErrInvalidExclude ErrorCode = "INVALID_EXCLUDE"
	ErrGroupFinalized ErrorCode = "GROUP_FINALIZED"

	// Ordering errors
	ErrOrderingCycle ErrorCode = "ORDERING_CYCLE"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
)

// ModselectError represents a structured error with code and details
type ModselectError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *ModselectError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *ModselectError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *ModselectError) Is(target error) bool {
	var targetErr *ModselectError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new ModselectError with the given code and message
func New(code ErrorCode, message string) *ModselectError {
	return &ModselectError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new ModselectError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *ModselectError {
	return &ModselectError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a ModselectError
func Wrap(err error, code ErrorCode, message string) *ModselectError {
	if err == nil {
		return nil
	}
	return &ModselectError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *ModselectError {
	if err == nil {
		return nil
	}
	return &ModselectError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *ModselectError) WithDetail(key string, value interface{}) *ModselectError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *ModselectError) WithDetails(details map[string]interface{}) *ModselectError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var mErr *ModselectError
	if errors.As(err, &mErr) {
		return mErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a ModselectError
func GetErrorCode(err error) ErrorCode {
	var mErr *ModselectError
	if errors.As(err, &mErr) {
		return mErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a ModselectError
func GetErrorDetails(err error) map[string]interface{} {
	var mErr *ModselectError
	if errors.As(err, &mErr) {
		return mErr.Details
	}
	return nil
}

package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a specific error type for scheduling operations.
type ErrorCode string

const (
	// ErrCodeInvalidArgument indicates invalid input parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeValidationFailed indicates a meeting failed validation.
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	// ErrCodeSubmissionFailed indicates the calendar rejected an event.
	ErrCodeSubmissionFailed ErrorCode = "SUBMISSION_FAILED"
	// ErrCodeNotFound indicates the requested resource does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeRateLimited indicates the submission rate limit was hit.
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
	// ErrCodeTimeout indicates the operation timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeContextCanceled indicates the operation was canceled.
	ErrCodeContextCanceled ErrorCode = "CONTEXT_CANCELED"
	// ErrCodeServiceUnavailable indicates the calendar backend is not available.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
)

// CodedError represents a structured error for scheduling operations.
type CodedError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *CodedError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error.
func (e *CodedError) WithContext(key string, value any) *CodedError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// GetCode returns the error code.
func (e *CodedError) GetCode() ErrorCode {
	return e.Code
}

// Convenience constructors for common error types.

// InvalidArgument creates an invalid argument error.
func InvalidArgument(msg string) *CodedError {
	return &CodedError{Code: ErrCodeInvalidArgument, Message: msg}
}

// ValidationFailed creates a validation error.
func ValidationFailed(msg string) *CodedError {
	return &CodedError{Code: ErrCodeValidationFailed, Message: msg}
}

// SubmissionFailed creates a submission error.
func SubmissionFailed(msg string, cause error) *CodedError {
	return &CodedError{Code: ErrCodeSubmissionFailed, Message: msg, Cause: cause}
}

// NotFound creates a not found error.
func NotFound(msg string) *CodedError {
	return &CodedError{Code: ErrCodeNotFound, Message: msg}
}

// RateLimited creates a rate limited error.
func RateLimited(msg string, cause error) *CodedError {
	return &CodedError{Code: ErrCodeRateLimited, Message: msg, Cause: cause}
}

// Timeout creates a timeout error.
func Timeout(msg string, cause error) *CodedError {
	return &CodedError{Code: ErrCodeTimeout, Message: msg, Cause: cause}
}

// ContextCanceled creates a context canceled error.
func ContextCanceled(cause error) *CodedError {
	return &CodedError{Code: ErrCodeContextCanceled, Message: "operation canceled", Cause: cause}
}

// ServiceUnavailable creates a service unavailable error.
func ServiceUnavailable(msg string, cause error) *CodedError {
	return &CodedError{Code: ErrCodeServiceUnavailable, Message: msg, Cause: cause}
}

// Wrap wraps an existing error with additional context.
func Wrap(cause error, code ErrorCode, msg string) *CodedError {
	return &CodedError{Code: code, Message: msg, Cause: cause}
}

// IsCode checks if an error, or any error it wraps, is of a specific code.
func IsCode(err error, code ErrorCode) bool {
	var coded *CodedError
	if stderrors.As(err, &coded) {
		return coded.Code == code
	}
	return false
}

// GetCodeFromError extracts the error code from any error.
// Returns the provided default code if no CodedError is found in the chain.
func GetCodeFromError(err error, defaultCode ErrorCode) ErrorCode {
	var coded *CodedError
	if stderrors.As(err, &coded) {
		return coded.Code
	}
	return defaultCode
}

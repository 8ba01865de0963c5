package domain

import (
	"errors"
	"fmt"
)

// ErrorCode is the machine-readable error code carried in API responses.
// The wire enum is deliberately small; every failure collapses onto one of
// these four.
type ErrorCode string

const (
	ErrorCodeBadRequest   ErrorCode = "BAD_REQUEST_ERROR"
	ErrorCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrorCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrorCodeInternal     ErrorCode = "INTERNAL_ERROR"
)

// DomainError is a structured error with a wire code and a human-readable
// description. Handlers map the code to an HTTP status.
type DomainError struct {
	Err         error
	Code        ErrorCode
	Description string
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Description, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewBadRequest returns a validation error.
func NewBadRequest(description string) *DomainError {
	return &DomainError{Code: ErrorCodeBadRequest, Description: description}
}

// NewNotFound returns a scope-miss error. Cross-merchant access surfaces as
// not found, never as forbidden.
func NewNotFound(resource string) *DomainError {
	return &DomainError{Code: ErrorCodeNotFound, Description: resource + " not found"}
}

// NewUnauthorized returns an authentication error.
func NewUnauthorized(description string) *DomainError {
	return &DomainError{Code: ErrorCodeUnauthorized, Description: description}
}

// WrapInternal wraps an unexpected store/queue error. The description shown
// to clients stays generic; the cause is preserved for logging.
func WrapInternal(err error) *DomainError {
	return &DomainError{Code: ErrorCodeInternal, Description: "internal server error", Err: err}
}

// CodeOf extracts the wire code from an error, defaulting to INTERNAL_ERROR
// for anything that is not a DomainError.
func CodeOf(err error) ErrorCode {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ErrorCodeInternal
}

// DescriptionOf extracts the client-facing description from an error.
func DescriptionOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Description
	}
	return "internal server error"
}

// IsNotFoundError reports whether err carries the NOT_FOUND code.
func IsNotFoundError(err error) bool {
	return CodeOf(err) == ErrorCodeNotFound
}

// IsValidationError reports whether err carries the BAD_REQUEST_ERROR code.
func IsValidationError(err error) bool {
	return CodeOf(err) == ErrorCodeBadRequest
}

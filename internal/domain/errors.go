package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeEmptyResult   = "EMPTY_RESULT"
	ErrCodeUpstream      = "UPSTREAM_ERROR"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrMissingFoodName = NewDomainError(ErrCodeValidation, "food name is required")
	ErrMissingUserID   = NewDomainError(ErrCodeValidation, "user id is required")
	ErrMissingLogDate  = NewDomainError(ErrCodeValidation, "log date is required")
	ErrMissingQuery    = NewDomainError(ErrCodeValidation, "search query is required")
)

// Empty result errors
var (
	// ErrNoLogEntries is returned by export when the log relation is empty.
	// Deleting a nonexistent entry is not an error; an empty relation is
	// rejected only here.
	ErrNoLogEntries = NewDomainError(ErrCodeEmptyResult, "no log entries")
)

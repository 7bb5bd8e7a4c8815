package services

import (
	"errors"
	"fmt"
)

// ErrorType represents the type/category of error
type ErrorType string

const (
	ErrorTypeAuthentication ErrorType = "authentication"
	ErrorTypeFetch          ErrorType = "fetch"
	ErrorTypeWrite          ErrorType = "write"
	ErrorTypePostCondition  ErrorType = "postcondition"
)

// DomainError represents a structured error with additional context.
// Every error class here is fatal: the run aborts on the first one and
// nothing is retried within an invocation.
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type && (t.Message == "" || e.Message == t.Message)
}

// NewDomainError creates a new domain error
func NewDomainError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

// Domain error variables

var (
	// Authentication errors
	ErrMissingCredentials = NewDomainError(ErrorTypeAuthentication, "credentials not found in environment", nil)
	ErrLoginFailed        = NewDomainError(ErrorTypeAuthentication, "login to platform failed", nil)
	ErrNotAuthenticated   = NewDomainError(ErrorTypeAuthentication, "no authenticated session", nil)

	// Fetch errors
	ErrProviderCommand = NewDomainError(ErrorTypeFetch, "provider command failed", nil)
	ErrMalformedOutput = NewDomainError(ErrorTypeFetch, "malformed provider output", nil)
	ErrTooManyPages    = NewDomainError(ErrorTypeFetch, "event pages exceed configured limit", nil)

	// Write errors
	ErrExportDirUnwritable = NewDomainError(ErrorTypeWrite, "export directory is not writable", nil)

	// Post-condition errors
	ErrRawFileMissing = NewDomainError(ErrorTypePostCondition, "raw export file missing after run", nil)
)

// Error type checking helper functions

// IsAuthenticationError checks if an error is an authentication error
func IsAuthenticationError(err error) bool {
	return isType(err, ErrorTypeAuthentication)
}

// IsFetchError checks if an error is a fetch error
func IsFetchError(err error) bool {
	return isType(err, ErrorTypeFetch)
}

// IsWriteError checks if an error is a write error
func IsWriteError(err error) bool {
	return isType(err, ErrorTypeWrite)
}

// IsPostConditionError checks if an error is a post-condition error
func IsPostConditionError(err error) bool {
	return isType(err, ErrorTypePostCondition)
}

func isType(err error, errType ErrorType) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == errType
	}
	return false
}

// GetErrorType returns the ErrorType of a domain error, or empty string if not a domain error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ""
}

// WrapAuth wraps an error as an authentication error
func WrapAuth(message string, err error) error {
	return NewDomainError(ErrorTypeAuthentication, message, err)
}

// WrapFetch wraps an error as a fetch error
func WrapFetch(message string, err error) error {
	return NewDomainError(ErrorTypeFetch, message, err)
}

// WrapWrite wraps an error as a write error
func WrapWrite(message string, err error) error {
	return NewDomainError(ErrorTypeWrite, message, err)
}

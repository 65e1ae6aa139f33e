package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a service failure
type ErrorKind string

// Failure kinds surfaced to callers
const (
	KindInvalidCredentials ErrorKind = "invalid_credentials" // Bad username/password pair
	KindUnauthenticated    ErrorKind = "unauthenticated"     // No principal on the request
	KindForbidden          ErrorKind = "forbidden"           // Authenticated but role lacks the action
	KindDuplicateKey       ErrorKind = "duplicate_key"       // Unique constraint violated
	KindPolicyViolation    ErrorKind = "policy_violation"    // Input rejected by a business rule
	KindNotFound           ErrorKind = "not_found"           // Referenced record does not exist
	KindTransaction        ErrorKind = "transaction_failure" // Multi-row write failed and was rolled back
)

// ServiceError carries the failure kind plus, for DuplicateKey and
// PolicyViolation, the offending field and a human-readable reason.
type ServiceError struct {
	Kind    ErrorKind // Classification of the failure
	Field   string    // Offending field for field-level failures, empty otherwise
	Message string    // Human-readable reason
	Cause   error     // Underlying error, opaque to callers
}

// Error implements the error interface
func (e *ServiceError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As chains
func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// Errf builds a ServiceError with a formatted message
func Errf(kind ErrorKind, field, format string, args ...any) *ServiceError {
	return &ServiceError{Kind: kind, Field: field, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind from an error chain, or "" if the error did not
// originate in this package.
func KindOf(err error) ErrorKind {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

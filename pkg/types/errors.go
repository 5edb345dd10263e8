package types

import "fmt"

// ErrorKind discriminates application error variants.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindConflict   ErrorKind = "conflict"
	KindInfra      ErrorKind = "infrastructure"
)

// Known conflict reasons.
const (
	ReasonDuplicateOrderID = "duplicate_order_id"
)

// AppError is the single error type crossing component boundaries for
// expected failures. Callers branch on Kind; fields of unrelated
// variants stay empty.
type AppError struct {
	Kind     ErrorKind
	Message  string
	Field    string // validation: offending field when known
	Resource string // not found: resource type, e.g. "Order"
	ID       string // not found: addressed identifier
	Reason   string // conflict: machine-readable reason
	Cause    error  // infrastructure: original cause, for logs only
}

func (e *AppError) Error() string {
	switch e.Kind {
	case KindValidation:
		if e.Field != "" {
			return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
		}
		return fmt.Sprintf("validation failed: %s", e.Message)
	case KindNotFound:
		return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
	case KindConflict:
		return fmt.Sprintf("conflict (%s): %s", e.Reason, e.Message)
	case KindInfra:
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return e.Message
}

// Unwrap exposes the infrastructure cause to errors.Is/As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Validation builds a validation error for an offending field.
func Validation(message, field string) *AppError {
	return &AppError{Kind: KindValidation, Message: message, Field: field}
}

// NotFound builds a not-found error for an addressed resource.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Kind:     KindNotFound,
		Resource: resource,
		ID:       id,
		Message:  fmt.Sprintf("%s %s not found", resource, id),
	}
}

// Conflict builds a conflict error with a machine-readable reason.
func Conflict(message, reason string) *AppError {
	return &AppError{Kind: KindConflict, Message: message, Reason: reason}
}

// Infra wraps an unexpected storage/network/sink failure.
func Infra(message string, cause error) *AppError {
	return &AppError{Kind: KindInfra, Message: message, Cause: cause}
}

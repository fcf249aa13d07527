package services

import (
	"fmt"
)

// ValidationError reports malformed or missing input. The field name gives
// the caller enough detail to resubmit.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// AuthorizationError reports a denied decision. It deliberately carries no
// detail: the caller only learns that the action was not permitted.
type AuthorizationError struct{}

func (e *AuthorizationError) Error() string {
	return "not permitted"
}

// ErrNotPermitted is the shared denial returned by all authorization checks.
var ErrNotPermitted = &AuthorizationError{}

// ConflictError reports a mutation that would violate a structural
// invariant, with a human-readable reason.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}

// NewConflictError creates a ConflictError with the given reason.
func NewConflictError(reason string) *ConflictError {
	return &ConflictError{Reason: reason}
}

// NotFoundError reports a resource id that does not resolve, or one outside
// the actor's visibility. The two cases are indistinguishable on purpose.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// NewNotFoundError creates a NotFoundError for the given resource kind.
func NewNotFoundError(resource string) *NotFoundError {
	return &NotFoundError{Resource: resource}
}

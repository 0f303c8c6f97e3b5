package domain

import (
	"errors"
)

// Error kinds. Every error the services return for a client mistake unwraps
// to exactly one of these; handlers translate the kind into a status code.
var (
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")
	ErrNotFound   = errors.New("not found")
	ErrDependency = errors.New("dependency failure")
)

type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

func NewValidationError(message string) *Error {
	return &Error{Kind: ErrValidation, Message: message}
}

func NewConflictError(message string) *Error {
	return &Error{Kind: ErrConflict, Message: message}
}

func NewForbiddenError(message string) *Error {
	return &Error{Kind: ErrForbidden, Message: message}
}

func NewNotFoundError(message string) *Error {
	return &Error{Kind: ErrNotFound, Message: message}
}

// DependencyError marks a failed secondary effect (notification, counter,
// mail) that ran after the primary mutation was already committed.
func DependencyError(effect string, cause error) *Error {
	return &Error{Kind: ErrDependency, Message: effect, Cause: cause}
}

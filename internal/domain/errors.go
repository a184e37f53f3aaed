package domain

import (
	"errors"
	"fmt"
)

// Error kinds shared by entities, stores and services.
// Callers match them with errors.Is; the concrete types below carry the details.
var (
	// ErrInvalidField is returned when an input value fails a domain constraint.
	// It is raised synchronously by entity construction or update and is never retried.
	ErrInvalidField = errors.New("invalid field")

	// ErrUniqueField is returned when persisting a value would break a uniqueness invariant.
	ErrUniqueField = errors.New("unique field violation")

	// ErrNotFound is returned when a lookup finds no eligible row.
	ErrNotFound = errors.New("not found")
)

// FieldError describes a constraint violation on a single field.
type FieldError struct {
	Field  string // The offending field (e.g., "name")
	Reason string // Human readable explanation
	Err    error  // ErrInvalidField or ErrUniqueField
}

// Error implements the error interface for FieldError.
func (e *FieldError) Error() string {
	return fmt.Sprintf("%v: %s %s", e.Err, e.Field, e.Reason)
}

// Unwrap returns the error kind to support errors.Is.
func (e *FieldError) Unwrap() error {
	return e.Err
}

// NewInvalidFieldError creates a FieldError of kind ErrInvalidField.
func NewInvalidFieldError(field, reason string) *FieldError {
	return &FieldError{Field: field, Reason: reason, Err: ErrInvalidField}
}

// NewUniqueFieldError creates a FieldError of kind ErrUniqueField.
func NewUniqueFieldError(field, reason string) *FieldError {
	return &FieldError{Field: field, Reason: reason, Err: ErrUniqueField}
}

// NotFoundError reports that an entity could not be located.
type NotFoundError struct {
	Entity string // e.g. "station"
	Detail string // e.g. "id 4"
}

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s %v", e.Entity, ErrNotFound)
	}
	return fmt.Sprintf("%s %v: %s", e.Entity, ErrNotFound, e.Detail)
}

// Unwrap lets errors.Is(err, ErrNotFound) succeed.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewNotFoundError creates a NotFoundError for the given entity.
func NewNotFoundError(entity, detail string) *NotFoundError {
	return &NotFoundError{Entity: entity, Detail: detail}
}

// IsInvalidField reports whether err is an invalid field error.
func IsInvalidField(err error) bool {
	return errors.Is(err, ErrInvalidField)
}

// IsUniqueField reports whether err is a uniqueness violation.
func IsUniqueField(err error) bool {
	return errors.Is(err, ErrUniqueField)
}

// IsNotFound reports whether err is any kind of not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

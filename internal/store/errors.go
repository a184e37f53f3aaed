package store

import (
	"errors"
	"fmt"

	"github.com/phrazzld/transit-api/internal/domain"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is the domain not found kind, re-exported for store callers.
	// Stores return *domain.NotFoundError values that match it.
	ErrNotFound = domain.ErrNotFound

	// ErrDuplicate is returned when the underlying store rejects a write
	// because of its own unique constraint.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed is returned when a unit of work fails to begin or commit.
	ErrTransactionFailed = errors.New("transaction failed")
)

// Entity names used in NotFound errors and StoreError values.
const (
	EntityStation     = "station"
	EntityCard        = "card"
	EntityTransaction = "transaction"
)

// StationNotFound builds the not found error for a station ID.
func StationNotFound(id int64) error {
	return domain.NewNotFoundError(EntityStation, fmt.Sprintf("id %d", id))
}

// CardNotFound builds the not found error for a card ID.
func CardNotFound(id int64) error {
	return domain.NewNotFoundError(EntityCard, fmt.Sprintf("id %d", id))
}

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is a store level duplicate error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "station", "card")
	Operation string // The operation that failed (e.g., "save", "delete_all")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Entity,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation, message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

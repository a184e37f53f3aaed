package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/transit-api/internal/domain"
)

// ErrNilDependency is returned by constructors when a required collaborator is missing.
var ErrNilDependency = errors.New("required dependency is nil")

// StationServiceError is a custom error type for station service errors.
type StationServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for StationServiceError.
func (e *StationServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("station service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("station service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StationServiceError) Unwrap() error {
	return e.Err
}

// NewStationServiceError creates a new StationServiceError.
func NewStationServiceError(operation, message string, err error) *StationServiceError {
	return &StationServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// CardServiceError is a custom error type for card service errors.
type CardServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for CardServiceError.
func (e *CardServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("card service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("card service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *CardServiceError) Unwrap() error {
	return e.Err
}

// NewCardServiceError creates a new CardServiceError.
func NewCardServiceError(operation, message string, err error) *CardServiceError {
	return &CardServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// isDomainError reports whether err is one of the domain error kinds, which
// services pass through unwrapped.
func isDomainError(err error) bool {
	return errors.Is(err, domain.ErrInvalidField) ||
		errors.Is(err, domain.ErrUniqueField) ||
		errors.Is(err, domain.ErrNotFound)
}

func nilDependency(name string) error {
	return fmt.Errorf("%w: %s", ErrNilDependency, name)
}

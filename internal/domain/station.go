package domain

import (
	"fmt"
	"unicode/utf8"
)

// Length bounds shared by every named field in the domain.
const (
	MinNameLength = 3
	MaxNameLength = 32
)

// Station represents a stop on a transit line.
// Stations are never removed by users; "delete" only marks them inactive
// so that the row can later be restored or reused.
type Station struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Line      string `json:"line"`
	IsDeleted bool   `json:"is_deleted"`
}

// StationChanges holds the fields to apply in a partial station update.
// Nil fields are left unchanged.
type StationChanges struct {
	Name *string
	Line *string
}

// NewStation creates an active, not yet persisted Station.
// Returns an InvalidField error if name or line is out of range.
func NewStation(name, line string) (*Station, error) {
	station := &Station{
		Name: name,
		Line: line,
	}

	if err := station.Validate(); err != nil {
		return nil, err
	}

	return station, nil
}

// Validate checks the name and line length bounds.
func (s *Station) Validate() error {
	if err := validateLength("name", s.Name); err != nil {
		return err
	}
	return validateLength("line", s.Line)
}

// Update applies the present fields of changes.
// If the result is invalid the station is left as it was.
func (s *Station) Update(changes StationChanges) error {
	next := *s
	if changes.Name != nil {
		next.Name = *changes.Name
	}
	if changes.Line != nil {
		next.Line = *changes.Line
	}

	if err := next.Validate(); err != nil {
		return err
	}

	*s = next
	return nil
}

// Delete marks the station as deleted. Idempotent.
func (s *Station) Delete() {
	s.IsDeleted = true
}

// Restore marks the station as active. Idempotent.
func (s *Station) Restore() {
	s.IsDeleted = false
}

// IsPersisted reports whether a repository has assigned the station an identity.
func (s *Station) IsPersisted() bool {
	return s.ID != 0
}

// validateLength checks that value has between MinNameLength and MaxNameLength characters.
func validateLength(field, value string) error {
	n := utf8.RuneCountInString(value)
	if n < MinNameLength || n > MaxNameLength {
		return NewInvalidFieldError(field,
			fmt.Sprintf("must be between %d and %d characters", MinNameLength, MaxNameLength))
	}
	return nil
}

package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/phrazzld/transit-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "generic error", err: errors.New("some error"), expected: false},
		{name: "ErrNotFound", err: ErrNotFound, expected: true},
		{name: "station not found", err: StationNotFound(3), expected: true},
		{name: "wrapped card not found", err: fmt.Errorf("load: %w", CardNotFound(1)), expected: true},
		{name: "domain not found", err: domain.NewNotFoundError("card", ""), expected: true},
		{name: "duplicate", err: ErrDuplicate, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsNotFoundError(tt.err))
		})
	}
}

func TestNotFoundMessages(t *testing.T) {
	assert.EqualError(t, StationNotFound(3), "station not found: id 3")
	assert.EqualError(t, CardNotFound(12), "card not found: id 12")
}

func TestIsDuplicateError(t *testing.T) {
	assert.True(t, IsDuplicateError(ErrDuplicate))
	assert.True(t, IsDuplicateError(fmt.Errorf("%w: name", ErrDuplicate)))
	assert.False(t, IsDuplicateError(ErrNotFound))
	assert.False(t, IsDuplicateError(nil))
}

func TestStoreError(t *testing.T) {
	cause := errors.New("connection reset")

	err := NewStoreError(EntityStation, "save", "failed to insert station", cause)
	assert.Equal(t, "save operation on station failed: failed to insert station: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)

	var storeErr *StoreError
	assert.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &storeErr))
	assert.Equal(t, "save", storeErr.Operation)

	bare := NewStoreError(EntityCard, "find_by_id", "row missing", nil)
	assert.Equal(t, "find_by_id operation on card failed: row missing", bare.Error())
	assert.Nil(t, bare.Unwrap())
}

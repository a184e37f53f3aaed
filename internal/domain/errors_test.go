package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	t.Parallel()

	invalid := NewInvalidFieldError("name", "must be between 3 and 32 characters")
	unique := NewUniqueFieldError("name", "already in use")
	missing := NewNotFoundError("station", "id 9")

	assert.EqualError(t, invalid, "invalid field: name must be between 3 and 32 characters")
	assert.EqualError(t, unique, "unique field violation: name already in use")
	assert.EqualError(t, missing, "station not found: id 9")
	assert.EqualError(t, NewNotFoundError("card", ""), "card not found")

	wrapped := fmt.Errorf("add station: %w", unique)
	assert.True(t, IsUniqueField(wrapped))
	assert.False(t, IsInvalidField(wrapped))
	assert.False(t, IsNotFound(wrapped))

	assert.True(t, IsInvalidField(invalid))
	assert.True(t, IsNotFound(fmt.Errorf("lookup: %w", missing)))
	assert.True(t, errors.Is(missing, ErrNotFound))
}

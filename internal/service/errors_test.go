package service

import (
	"errors"
	"testing"

	"github.com/phrazzld/transit-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestServiceErrorMessages(t *testing.T) {
	cause := errors.New("boom")

	assert.Equal(t, "station service add failed: failed to add station: boom",
		NewStationServiceError("add", "failed to add station", cause).Error())
	assert.Equal(t, "card service get failed: missing",
		NewCardServiceError("get", "missing", nil).Error())
}

func TestIsDomainError(t *testing.T) {
	assert.True(t, isDomainError(domain.NewInvalidFieldError("name", "too short")))
	assert.True(t, isDomainError(domain.NewUniqueFieldError("name", "taken")))
	assert.True(t, isDomainError(domain.NewNotFoundError("card", "id 1")))
	assert.False(t, isDomainError(errors.New("boom")))
}

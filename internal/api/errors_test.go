package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/phrazzld/transit-api/internal/api/shared"
	"github.com/phrazzld/transit-api/internal/domain"
	"github.com/phrazzld/transit-api/internal/service"
	"github.com/phrazzld/transit-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"malformed request", malformed("bad", nil), http.StatusBadRequest},
		{"invalid field", domain.NewInvalidFieldError("name", "too short"), http.StatusBadRequest},
		{"wrapped invalid entity", fmt.Errorf("save: %w", store.ErrInvalidEntity), http.StatusBadRequest},
		{"station not found", store.StationNotFound(1), http.StatusNotFound},
		{"card not found", store.CardNotFound(1), http.StatusNotFound},
		{"unique field", domain.NewUniqueFieldError("name", "taken"), http.StatusConflict},
		{
			"duplicate inside store error",
			store.NewStoreError(store.EntityStation, "insert", "failed", store.ErrDuplicate),
			http.StatusConflict,
		},
		{
			"service error wrapping storage failure",
			&service.StationServiceError{Operation: "list", Message: "failed", Err: errors.New("boom")},
			http.StatusInternalServerError,
		},
		{"transaction failure", store.ErrTransactionFailed, http.StatusInternalServerError},
		{"context cancelled", context.Canceled, http.StatusInternalServerError},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "An unexpected error occurred"},
		{"field error verbatim", domain.NewInvalidFieldError("line", "must be between 3 and 32 characters"),
			"invalid field: line must be between 3 and 32 characters"},
		{"not found verbatim", store.StationNotFound(12), "station not found: id 12"},
		{"malformed message", malformed("id must be a positive integer", errors.New("strconv")),
			"id must be a positive integer"},
		{"duplicate", store.ErrDuplicate, "Resource already exists"},
		{"invalid entity", store.ErrInvalidEntity, "Invalid entity data"},
		{"internal details hidden", errors.New("pq: relation stations does not exist"),
			"An unexpected error occurred"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, GetSafeErrorMessage(tc.err))
		})
	}
}

func TestMalformedUnwrap(t *testing.T) {
	t.Parallel()

	cause := shared.ErrEmptyBody
	err := malformed("Invalid request format", cause)
	assert.ErrorIs(t, err, errMalformedRequest)
	assert.ErrorIs(t, err, cause)

	bare := malformed("id is required", nil)
	assert.ErrorIs(t, bare, errMalformedRequest)
	var fieldErr *domain.FieldError
	assert.False(t, errors.As(bare, &fieldErr))
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	err := shared.ValidateRequest(&CreateStationRequest{Line: "red line"})
	assert.Equal(t, "Invalid name: required field", SanitizeValidationError(err))

	err = shared.ValidateRequest(&UpdateCardRequest{})
	assert.Equal(t, "Invalid name: at least one field must be provided", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("other")))
}

package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/transit-api/internal/api/shared"
	"github.com/phrazzld/transit-api/internal/domain"
	"github.com/phrazzld/transit-api/internal/store"
)

// errMalformedRequest marks body and path parameter problems found before a use case runs.
var errMalformedRequest = errors.New("malformed request")

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, errMalformedRequest),
		errors.Is(err, domain.ErrInvalidField),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrUniqueField),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err. Domain errors
// describe the caller's own input and are returned verbatim; everything else
// gets a generic message.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var fieldErr *domain.FieldError
	var notFound *domain.NotFoundError
	switch {
	case errors.As(err, &fieldErr):
		return fieldErr.Error()
	case errors.As(err, &notFound):
		return notFound.Error()
	case errors.Is(err, errMalformedRequest):
		return err.Error()
	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"
	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the error response for err. fallback replaces the
// generic message of server errors when set.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// malformed wraps a decoding or validation failure as a 400 error.
func malformed(message string, err error) error {
	return &requestError{message: message, err: err}
}

type requestError struct {
	message string
	err     error
}

func (e *requestError) Error() string { return e.message }

func (e *requestError) Unwrap() []error {
	if e.err == nil {
		return []error{errMalformedRequest}
	}
	return []error{errMalformedRequest, e.err}
}

// SanitizeValidationError turns validator output into a short message naming
// the first failing field.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Validation error"
	}

	fe := verrs[0]
	return "Invalid " + strings.ToLower(fe.Field()) + ": " + validationTagMessage(fe.Tag())
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "required_without":
		return "at least one field must be provided"
	case "min":
		return "too short"
	case "max":
		return "too long"
	default:
		return "validation failed"
	}
}

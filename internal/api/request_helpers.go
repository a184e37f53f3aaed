package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/transit-api/internal/api/shared"
)

// getPathID extracts a positive integer ID from the URL path parameters.
func getPathID(r *http.Request, paramName string) (int64, error) {
	raw := chi.URLParam(r, paramName)
	if raw == "" {
		return 0, malformed(paramName+" is required", nil)
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, malformed(paramName+" must be a positive integer", err)
	}
	return id, nil
}

// decodeAndValidate reads the JSON body into v and runs the struct validator.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if err := shared.DecodeJSON(w, r, v); err != nil {
		return malformed("Invalid request format", err)
	}
	if err := shared.ValidateRequest(v); err != nil {
		return malformed(SanitizeValidationError(err), err)
	}
	return nil
}

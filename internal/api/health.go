package api

import (
	"context"
	"net/http"
	"time"

	"github.com/phrazzld/transit-api/internal/api/shared"
)

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
}

// Pinger reports whether a backing connection is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler answers liveness checks. When a Pinger is set the storage
// connection is checked too.
func HealthHandler(backend string, pinger Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if pinger != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := pinger.PingContext(ctx); err != nil {
				shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable, "Storage unavailable", err)
				return
			}
		}

		shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "ok", Backend: backend})
	}
}

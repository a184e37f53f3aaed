package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/transit-api/internal/api/shared"
	"github.com/phrazzld/transit-api/internal/platform/logger"
	"github.com/phrazzld/transit-api/internal/service"
)

// StationHandler handles station-related HTTP requests
type StationHandler struct {
	stations service.StationService
	logger   *slog.Logger
}

// NewStationHandler creates a new StationHandler
func NewStationHandler(stations service.StationService, logger *slog.Logger) *StationHandler {
	if stations == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("stations cannot be nil for StationHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &StationHandler{
		stations: stations,
		logger:   logger.With(slog.String("component", "station_handler")),
	}
}

// Routes registers the station endpoints on r.
func (h *StationHandler) Routes(r chi.Router) {
	r.Post("/", h.CreateStation)
	r.Get("/", h.ListStations)
	r.Delete("/", h.RemoveAllStations)
	r.Post("/restore", h.RestoreAllStations)
	r.Get("/{id}", h.GetStation)
	r.Put("/{id}", h.UpdateStation)
	r.Delete("/{id}", h.RemoveStation)
}

// CreateStation handles POST /api/stations
func (h *StationHandler) CreateStation(w http.ResponseWriter, r *http.Request) {
	var req CreateStationRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	station, err := h.stations.Add(r.Context(), service.AddStationInput{Name: req.Name, Line: req.Line})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create station")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, stationToResponse(station))
}

// ListStations handles GET /api/stations
func (h *StationHandler) ListStations(w http.ResponseWriter, r *http.Request) {
	stations, err := h.stations.List(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list stations")
		return
	}

	response := make([]StationResponse, 0, len(stations))
	for _, station := range stations {
		response = append(response, stationToResponse(station))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// GetStation handles GET /api/stations/{id}
func (h *StationHandler) GetStation(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	station, err := h.stations.Get(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get station")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stationToResponse(station))
}

// UpdateStation handles PUT /api/stations/{id}
func (h *StationHandler) UpdateStation(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateStationRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	station, err := h.stations.Update(r.Context(), id, service.UpdateStationInput{Name: req.Name, Line: req.Line})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update station")
		return
	}

	log.Debug("station updated via API", slog.Int64("station_id", id))
	shared.RespondWithJSON(w, r, http.StatusOK, stationToResponse(station))
}

// RemoveStation handles DELETE /api/stations/{id}
func (h *StationHandler) RemoveStation(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.stations.Remove(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to remove station")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveAllStations handles DELETE /api/stations
func (h *StationHandler) RemoveAllStations(w http.ResponseWriter, r *http.Request) {
	n, err := h.stations.RemoveAll(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to remove stations")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, BulkResponse{Affected: n})
}

// RestoreAllStations handles POST /api/stations/restore
func (h *StationHandler) RestoreAllStations(w http.ResponseWriter, r *http.Request) {
	n, err := h.stations.RestoreAll(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to restore stations")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, BulkResponse{Affected: n})
}

package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/transit-api/internal/api"
	apiMiddleware "github.com/phrazzld/transit-api/internal/api/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	stationHandler := api.NewStationHandler(app.stationService, app.logger)
	cardHandler := api.NewCardHandler(app.cardService, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Route("/stations", stationHandler.Routes)
		r.Route("/cards", cardHandler.Routes)
	})

	var pinger api.Pinger
	if app.stores.DB != nil {
		pinger = app.stores.DB
	}
	r.Get("/health", api.HealthHandler(app.stores.Kind.String(), pinger))
	r.Handle("/metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))

	return r
}

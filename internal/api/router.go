package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"itinerary-builder-service/internal/api/handlers"
	"itinerary-builder-service/internal/ports"
	"itinerary-builder-service/internal/services"
)

// RouterDeps gathers everything the HTTP surface needs. Handlers stay
// unaware of concrete adapters; this is the API composition root.
type RouterDeps struct {
	Log       *zap.Logger
	Geocoder  ports.Geocoder
	Hours     ports.OpeningHoursProvider
	Travel    ports.TravelTimeProvider
	Finder    ports.RestaurantFinder
	Scenarios ports.ScenarioRepository
	Planner   *services.Planner
}

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. Routes are method-scoped, so handlers carry no method
// guards of their own.
func NewRouter(deps RouterDeps) http.Handler {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	locations := &handlers.LocationsHandler{Geocoder: deps.Geocoder, Log: log}
	hours := &handlers.HoursHandler{Provider: deps.Hours, Log: log}
	restaurants := &handlers.RestaurantsHandler{Finder: deps.Finder, Log: log}
	matrix := &handlers.MatrixHandler{Travel: deps.Travel, Log: log}
	itineraries := &handlers.ItinerariesHandler{Planner: deps.Planner, Log: log}
	scenarios := &handlers.ScenariosHandler{Repo: deps.Scenarios, Planner: deps.Planner, Log: log}

	r := mux.NewRouter()
	r.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)

	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.HandleFunc("/locations/search", locations.Search).Methods(http.MethodGet)
	apiRouter.HandleFunc("/opening-hours", hours.Get).Methods(http.MethodGet)
	apiRouter.HandleFunc("/restaurants/nearby", restaurants.Nearby).Methods(http.MethodGet)
	apiRouter.HandleFunc("/travel-matrix", matrix.Compute).Methods(http.MethodPost)
	apiRouter.HandleFunc("/itineraries", itineraries.Build).Methods(http.MethodPost)
	apiRouter.HandleFunc("/itineraries/plan", itineraries.Plan).Methods(http.MethodPost)
	apiRouter.HandleFunc("/scenarios", scenarios.List).Methods(http.MethodGet)
	apiRouter.HandleFunc("/scenarios/{key}", scenarios.Get).Methods(http.MethodGet)

	return requestMiddleware(log, r)
}

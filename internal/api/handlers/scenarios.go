package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"itinerary-builder-service/internal/api/dto"
	"itinerary-builder-service/internal/domain"
	"itinerary-builder-service/internal/ports"
	"itinerary-builder-service/internal/services"
)

// ScenariosHandler serves the seeded demo scenarios: a key listing, and
// per-key materialization into a ready-to-build request payload.
type ScenariosHandler struct {
	Repo    ports.ScenarioRepository
	Planner *services.Planner
	Log     *zap.Logger
}

func (h *ScenariosHandler) List(w http.ResponseWriter, r *http.Request) {
	scenarios, err := h.Repo.ListScenarios(r.Context())
	if err != nil {
		h.Log.Error("list scenarios failed", zap.Error(err))
		writeError(h.Log, w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListScenariosResponse{Scenarios: make([]dto.ScenarioSummaryResponse, 0, len(scenarios))}
	for _, sc := range scenarios {
		res.Scenarios = append(res.Scenarios, dto.ScenarioSummaryResponse{
			Key:       sc.Key,
			City:      sc.City,
			StartTime: sc.StartMinute,
			Stops:     len(sc.Entries),
		})
	}

	writeJSON(h.Log, w, r, http.StatusOK, res)
}

// Get materializes one scenario through live geocoding and travel lookups.
// A valid key whose fixture cannot be resolved right now is a server-side
// problem, so everything but a missing key maps to 500.
func (h *ScenariosHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	sc, err := h.Repo.GetScenario(r.Context(), key)
	if err != nil {
		if errors.Is(err, domain.ErrScenarioNotFound) {
			writeError(h.Log, w, r, http.StatusNotFound, "scenario not found")
			return
		}
		h.Log.Error("get scenario failed", zap.String("key", key), zap.Error(err))
		writeError(h.Log, w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	payload, err := h.Planner.MaterializeScenario(r.Context(), sc)
	if err != nil {
		h.Log.Error("materialize scenario failed", zap.String("key", key), zap.Error(err))
		writeError(h.Log, w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ScenarioResponse{
		Key:        sc.Key,
		City:       sc.City,
		Locations:  make([]dto.LocationPayload, 0, len(payload.Locations)),
		TravelTime: payload.Travel,
		StartIdx:   payload.StartIdx,
		StartTime:  payload.StartMinute,
		Warnings:   payload.Warnings,
	}
	for _, loc := range payload.Locations {
		p := dto.LocationPayload{
			Name:      loc.Name,
			OpenTime:  loc.Window.Open,
			CloseTime: loc.Window.Close,
			Duration:  loc.Duration,
			Address:   loc.Address,
			Tags:      loc.Tags,
		}
		if loc.Coords != nil {
			lat, lon := loc.Coords.Lat, loc.Coords.Lon
			p.Lat, p.Lon = &lat, &lon
		}
		res.Locations = append(res.Locations, p)
	}

	writeJSON(h.Log, w, r, http.StatusOK, res)
}

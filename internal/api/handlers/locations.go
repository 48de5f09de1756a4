package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"itinerary-builder-service/internal/api/dto"
	"itinerary-builder-service/internal/ports"
)

// LocationsHandler exposes read-only geocoding lookups.
type LocationsHandler struct {
	Geocoder ports.Geocoder
	Log      *zap.Logger
}

const maxSearchLimit = 20

// Search resolves a free-text query to ranked place candidates.
func (h *LocationsHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		writeError(h.Log, w, r, http.StatusBadRequest, "query is required")
		return
	}

	limit, err := intParam(r, "limit", 5)
	if err != nil {
		writeError(h.Log, w, r, http.StatusBadRequest, err.Error())
		return
	}
	if limit < 1 || limit > maxSearchLimit {
		writeError(h.Log, w, r, http.StatusBadRequest, "limit must be between 1 and 20")
		return
	}

	places, err := h.Geocoder.Search(r.Context(), query, limit)
	if err != nil {
		h.Log.Error("location search failed", zap.String("query", query), zap.Error(err))
		writeError(h.Log, w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.SearchLocationsResponse{Results: make([]dto.PlaceResponse, 0, len(places))}
	for _, p := range places {
		res.Results = append(res.Results, dto.PlaceResponse{
			Name:    p.Name,
			Address: p.Address,
			Lat:     p.Coords.Lat,
			Lon:     p.Coords.Lon,
			Kind:    p.Kind,
			Class:   p.Class,
			PlaceID: p.PlaceID,
		})
	}

	writeJSON(h.Log, w, r, http.StatusOK, res)
}

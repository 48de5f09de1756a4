package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"itinerary-builder-service/internal/api/dto"
	"itinerary-builder-service/internal/domain"
	"itinerary-builder-service/internal/ports"
)

// RestaurantsHandler lists eateries near a coordinate, closest first.
type RestaurantsHandler struct {
	Finder ports.RestaurantFinder
	Log    *zap.Logger
}

const maxRestaurantLimit = 20

func (h *RestaurantsHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	lat, err := floatParam(r, "lat")
	if err != nil {
		writeError(h.Log, w, r, http.StatusBadRequest, err.Error())
		return
	}
	lon, err := floatParam(r, "lon")
	if err != nil {
		writeError(h.Log, w, r, http.StatusBadRequest, err.Error())
		return
	}
	at := domain.Coordinates{Lat: lat, Lon: lon}
	if !at.Valid() {
		writeError(h.Log, w, r, http.StatusBadRequest, "lat/lon out of range")
		return
	}

	radius, err := intParam(r, "radius", 0) // 0 lets the finder apply its default
	if err != nil {
		writeError(h.Log, w, r, http.StatusBadRequest, err.Error())
		return
	}
	if radius < 0 {
		writeError(h.Log, w, r, http.StatusBadRequest, "radius must not be negative")
		return
	}
	limit, err := intParam(r, "limit", 5)
	if err != nil {
		writeError(h.Log, w, r, http.StatusBadRequest, err.Error())
		return
	}
	if limit < 1 || limit > maxRestaurantLimit {
		writeError(h.Log, w, r, http.StatusBadRequest, "limit must be between 1 and 20")
		return
	}

	restaurants, err := h.Finder.ListNear(r.Context(), at, radius, limit)
	if err != nil {
		h.Log.Error("restaurant lookup failed", zap.Float64("lat", lat), zap.Float64("lon", lon), zap.Error(err))
		writeError(h.Log, w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListRestaurantsResponse{Restaurants: make([]dto.RestaurantResponse, 0, len(restaurants))}
	for _, rest := range restaurants {
		res.Restaurants = append(res.Restaurants, dto.RestaurantResponse{
			Name:           rest.Name,
			Address:        rest.Address,
			Lat:            rest.Coords.Lat,
			Lon:            rest.Coords.Lon,
			OpenTime:       rest.Window.Open,
			CloseTime:      rest.Window.Close,
			DistanceMeters: rest.DistanceMeters,
		})
	}

	writeJSON(h.Log, w, r, http.StatusOK, res)
}

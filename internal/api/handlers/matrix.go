package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"itinerary-builder-service/internal/api/dto"
	"itinerary-builder-service/internal/domain"
	"itinerary-builder-service/internal/ports"
)

// MatrixHandler computes pairwise travel minutes for a coordinate list.
type MatrixHandler struct {
	Travel ports.TravelTimeProvider
	Log    *zap.Logger
}

func (h *MatrixHandler) Compute(w http.ResponseWriter, r *http.Request) {
	var req dto.TravelMatrixRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(h.Log, w, r, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Coordinates) < 2 {
		writeError(h.Log, w, r, http.StatusBadRequest, "at least 2 coordinates are required")
		return
	}

	coords := make([]domain.Coordinates, len(req.Coordinates))
	for i, c := range req.Coordinates {
		coords[i] = domain.Coordinates{Lat: c.Lat, Lon: c.Lon}
	}

	matrix, err := h.Travel.Matrix(r.Context(), coords)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(h.Log, w, r, http.StatusBadRequest, err.Error())
			return
		}
		h.Log.Error("travel matrix failed", zap.Int("points", len(coords)), zap.Error(err))
		writeError(h.Log, w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(h.Log, w, r, http.StatusOK, dto.TravelMatrixResponse{Matrix: matrix})
}

package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"itinerary-builder-service/internal/api/dto"
	"itinerary-builder-service/internal/domain"
	"itinerary-builder-service/internal/ports"
)

// HoursHandler reports opening hours for a coordinate. The provider is
// total, so this endpoint never fails on upstream trouble; it just answers
// with a keyword or default window.
type HoursHandler struct {
	Provider ports.OpeningHoursProvider
	Log      *zap.Logger
}

func (h *HoursHandler) Get(w http.ResponseWriter, r *http.Request) {
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
	name := strings.TrimSpace(r.URL.Query().Get("name"))

	window := h.Provider.OpeningHours(r.Context(), at, name)

	writeJSON(h.Log, w, r, http.StatusOK, dto.OpeningHoursResponse{
		Name:          name,
		OpenTime:      window.Open,
		CloseTime:     window.Close,
		OpenTimeText:  domain.FormatClock(window.Open),
		CloseTimeText: domain.FormatClock(window.Close),
	})
}

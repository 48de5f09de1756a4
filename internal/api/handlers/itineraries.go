package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"itinerary-builder-service/internal/api/dto"
	"itinerary-builder-service/internal/domain"
	"itinerary-builder-service/internal/services"
)

// ItinerariesHandler exposes the two planning entry points: Build over
// explicit locations and Plan over bare place names.
type ItinerariesHandler struct {
	Planner *services.Planner
	Log     *zap.Logger
}

// Build schedules a day over caller-supplied locations and an optional
// travel matrix.
func (h *ItinerariesHandler) Build(w http.ResponseWriter, r *http.Request) {
	var req dto.BuildItineraryRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(h.Log, w, r, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Locations) == 0 {
		writeError(h.Log, w, r, http.StatusBadRequest, "locations must not be empty")
		return
	}
	if !validLunchDuration(req.LunchDuration) {
		writeError(h.Log, w, r, http.StatusBadRequest, "lunch_duration must be 60 or 90")
		return
	}

	locations := make([]domain.Location, len(req.Locations))
	for i, p := range req.Locations {
		locations[i] = toDomainLocation(p)
	}

	itin, err := h.Planner.Build(r.Context(), services.BuildItineraryRequest{
		Locations:     locations,
		Travel:        req.TravelTime,
		StartIdx:      req.StartIdx,
		StartMinute:   req.StartTime,
		LunchDuration: req.LunchDuration,
		ReturnToStart: req.ReturnToStart,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(h.Log, w, r, http.StatusBadRequest, err.Error())
			return
		}
		h.Log.Error("build itinerary failed", zap.Error(err))
		writeError(h.Log, w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(h.Log, w, r, http.StatusOK, toItineraryResponse(itin))
}

// Plan runs the full pipeline from place names: concurrent geocoding,
// opening hours, one travel matrix, then the same scheduling as Build.
func (h *ItinerariesHandler) Plan(w http.ResponseWriter, r *http.Request) {
	var req dto.PlanItineraryRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(h.Log, w, r, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Names) == 0 {
		writeError(h.Log, w, r, http.StatusBadRequest, "names must not be empty")
		return
	}
	if !validLunchDuration(req.LunchDuration) {
		writeError(h.Log, w, r, http.StatusBadRequest, "lunch_duration must be 60 or 90")
		return
	}

	itin, err := h.Planner.Plan(r.Context(), services.PlanRequest{
		Names:         req.Names,
		City:          req.City,
		StartMinute:   req.StartTime,
		LunchDuration: req.LunchDuration,
		ReturnToStart: req.ReturnToStart,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(h.Log, w, r, http.StatusBadRequest, err.Error())
			return
		}
		h.Log.Error("plan itinerary failed", zap.Strings("names", req.Names), zap.Error(err))
		writeError(h.Log, w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(h.Log, w, r, http.StatusOK, toItineraryResponse(itin))
}

// validLunchDuration accepts the two supported lunch conventions; zero
// keeps the configured default.
func validLunchDuration(minutes int) bool {
	return minutes == 0 || minutes == 60 || minutes == 90
}

func toDomainLocation(p dto.LocationPayload) domain.Location {
	loc := domain.Location{
		Name:     p.Name,
		Window:   domain.TimeWindow{Open: p.OpenTime, Close: p.CloseTime},
		Duration: p.Duration,
		Address:  p.Address,
		Tags:     p.Tags,
	}
	if p.Lat != nil && p.Lon != nil {
		loc.Coords = &domain.Coordinates{Lat: *p.Lat, Lon: *p.Lon}
	}
	return loc
}

func toItineraryResponse(itin *domain.Itinerary) dto.ItineraryResponse {
	stops := make([]dto.StopResponse, 0, len(itin.Items))
	for _, item := range itin.Items {
		stop := dto.StopResponse{
			Name:            item.Name,
			ArrivalTime:     item.Arrival,
			DepartureTime:   item.Departure,
			Time:            domain.FormatClock(item.Arrival),
			Duration:        domain.FormatDuration(item.Duration),
			DurationMinutes: item.Duration,
			Address:         item.Address,
			OpenTime:        item.Window.Open,
			CloseTime:       item.Window.Close,
			Tags:            item.Tags,
		}
		if item.Meal != domain.StopVisit {
			stop.Meal = item.Meal.String()
		}
		if item.Coords != nil {
			lat, lon := item.Coords.Lat, item.Coords.Lon
			stop.Lat, stop.Lon = &lat, &lon
		}
		stops = append(stops, stop)
	}

	res := dto.ItineraryResponse{
		Stops:            stops,
		Warnings:         itin.Warnings,
		StartTimeMinutes: itin.StartMinute,
		EndTimeMinutes:   itin.EndMinute,
		Summary: dto.ItinerarySummaryResponse{
			TotalStops: len(stops),
			StartTime:  domain.FormatClock(itin.StartMinute),
			EndTime:    domain.FormatClock(itin.EndMinute),
			Duration:   domain.FormatDuration(itin.TotalMinutes()),
		},
		GoogleMapsURL: itin.MapsURL,
	}

	res.Lunch = toMealTime(itin.Meals.Lunch)
	res.Dinner = toMealTime(itin.Meals.Dinner)

	for _, s := range itin.Skipped {
		res.Skipped = append(res.Skipped, dto.SkippedLocationResponse{Name: s.Name, Reason: s.Reason})
	}
	for _, wp := range itin.Waypoints {
		res.Waypoints = append(res.Waypoints, dto.CoordinatesPayload{Lat: wp.Lat, Lon: wp.Lon})
	}
	return res
}

func toMealTime(rec *domain.MealRecord) *dto.MealTimeResponse {
	if rec == nil {
		return nil
	}
	return &dto.MealTimeResponse{
		Time:     rec.Minute,
		TimeText: domain.FormatClock(rec.Minute),
		Location: rec.Name,
		Address:  rec.Address,
	}
}

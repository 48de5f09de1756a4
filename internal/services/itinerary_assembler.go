package services

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"itinerary-builder-service/internal/domain"
)

// AssembleItinerary shapes a timed schedule into the presentation result:
// one item per scheduled stop, the intermediate waypoints for mapping, and
// a Google Maps directions link over the whole day.
func AssembleItinerary(locations []domain.Location, sched *domain.Schedule, warnings []string) domain.Itinerary {
	items := make([]domain.ItineraryItem, 0, len(sched.Stops))
	for _, s := range sched.Stops {
		items = append(items, itineraryItem(locations, s))
	}
	return domain.Itinerary{
		Items:       items,
		Meals:       sched.Meals,
		Skipped:     sched.Skipped,
		Warnings:    warnings,
		StartMinute: sched.StartMinute,
		EndMinute:   sched.EndMinute,
		Waypoints:   intermediateWaypoints(items),
		MapsURL:     MapsDirectionsURL(items),
	}
}

func itineraryItem(locations []domain.Location, s domain.ScheduledStop) domain.ItineraryItem {
	if s.IsMeal() {
		r := s.Restaurant
		coords := r.Coords
		return domain.ItineraryItem{
			Name:      r.Name,
			Arrival:   s.Arrival,
			Departure: s.Departure,
			Duration:  s.Departure - s.Arrival,
			Address:   r.Address,
			Window:    r.Window,
			Tags:      []string{mealTag(s.Kind)},
			Meal:      s.Kind,
			Coords:    &coords,
		}
	}
	loc := locations[s.Index]
	return domain.ItineraryItem{
		Name:      loc.Name,
		Arrival:   s.Arrival,
		Departure: s.Departure,
		Duration:  s.Departure - s.Arrival,
		Address:   loc.Address,
		Window:    loc.Window,
		Tags:      loc.Tags,
		Meal:      domain.StopVisit,
		Coords:    loc.Coords,
	}
}

func mealTag(k domain.StopKind) string {
	if k == domain.StopDinner {
		return "Dinner"
	}
	return "Lunch"
}

// intermediateWaypoints collects the stop coordinates between the first and
// last item, deduplicated at map precision. The first and last points are
// the origin and destination of the mapping payload and are excluded here,
// as are any revisits of them mid-route.
func intermediateWaypoints(items []domain.ItineraryItem) []domain.Coordinates {
	pts := make([]domain.Coordinates, 0, len(items))
	for _, it := range items {
		if it.Coords != nil {
			pts = append(pts, *it.Coords)
		}
	}
	if len(pts) < 3 {
		return nil
	}
	seen := map[[2]float64]bool{
		coordKey(pts[0]):          true,
		coordKey(pts[len(pts)-1]): true,
	}
	var out []domain.Coordinates
	for _, p := range pts[1 : len(pts)-1] {
		k := coordKey(p)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, p)
	}
	return out
}

// coordKey rounds to six decimal places, about 0.1 m, so that the same
// physical point coming from two providers compares equal.
func coordKey(c domain.Coordinates) [2]float64 {
	return [2]float64{
		math.Round(c.Lat*1e6) / 1e6,
		math.Round(c.Lon*1e6) / 1e6,
	}
}

// MapsDirectionsURL builds a Google Maps directions link visiting every
// item in order. Stops with known coordinates contribute a lat,lon pair;
// the rest fall back to an escaped name plus address. The link is centered
// on the average of the coordinate stops. Returns "" for an empty plan.
func MapsDirectionsURL(items []domain.ItineraryItem) string {
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("https://www.google.com/maps/dir")
	var latSum, lonSum float64
	located := 0
	for _, it := range items {
		b.WriteByte('/')
		if it.Coords != nil {
			b.WriteString(formatCoord(it.Coords.Lat))
			b.WriteByte(',')
			b.WriteString(formatCoord(it.Coords.Lon))
			latSum += it.Coords.Lat
			lonSum += it.Coords.Lon
			located++
			continue
		}
		if it.Address != "" {
			b.WriteString(url.QueryEscape(it.Name + ", " + it.Address))
			continue
		}
		b.WriteString(url.QueryEscape(it.Name))
	}
	if located > 0 {
		n := float64(located)
		b.WriteString("/@")
		b.WriteString(formatCoord(latSum / n))
		b.WriteByte(',')
		b.WriteString(formatCoord(lonSum / n))
		b.WriteString(",14z")
	}
	return b.String()
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

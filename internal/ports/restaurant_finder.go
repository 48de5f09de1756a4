package ports

import (
	"context"

	"itinerary-builder-service/internal/domain"
)

// Contract for locating eateries near a coordinate. A nonpositive radius
// asks the implementation to apply its own default.
//
// FindNear never returns an empty restaurant alongside a nil error: when no
// real candidate exists the implementation synthesizes a fallback, so meal
// insertion has no "nothing found" branch to handle.
type RestaurantFinder interface {
	FindNear(ctx context.Context, at domain.Coordinates, radiusMeters int) (domain.Restaurant, error)

	// Return up to limit candidates ordered by distance. Unlike FindNear,
	// an empty slice is a legitimate answer.
	ListNear(ctx context.Context, at domain.Coordinates, radiusMeters, limit int) ([]domain.Restaurant, error)
}

package ports

import (
	"context"

	"itinerary-builder-service/internal/domain"
)

// Contract for resolving free-text place queries to candidate places.
// Implementations may call external APIs (e.g. Nominatim), serve cached
// values, or fabricate results for testing.
type Geocoder interface {
	// Return up to limit matches, best first. An empty slice is a miss,
	// not an error; errors are reserved for transport failures.
	Search(ctx context.Context, query string, limit int) ([]domain.Place, error)
}

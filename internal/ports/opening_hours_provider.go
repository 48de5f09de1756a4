package ports

import (
	"context"

	"itinerary-builder-service/internal/domain"
)

// Contract for resolving a place to its [open, close) window in minutes from
// midnight. Lookups are total: implementations return a documented default
// window on any failure or timeout, and the same default every time for the
// same failing backend, so a degraded provider can never stall or perturb
// itinerary construction.
type OpeningHoursProvider interface {
	OpeningHours(ctx context.Context, at domain.Coordinates, name string) domain.TimeWindow
}

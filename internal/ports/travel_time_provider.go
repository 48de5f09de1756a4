package ports

import (
	"context"

	"itinerary-builder-service/internal/domain"
)

// Contract for computing the pairwise travel-time matrix, in minutes, over a
// list of coordinates. The returned matrix is square, fully populated, has a
// zero diagonal, and is not required to be symmetric.
//
// Implementations degrade cell by cell to straight-line estimates instead of
// surfacing backend failures, so a non-nil error signals misuse rather than
// a slow or unreachable routing service.
type TravelTimeProvider interface {
	Matrix(ctx context.Context, coords []domain.Coordinates) ([][]int, error)
}

package travel

import (
	"context"
	"fmt"

	"itinerary-builder-service/internal/domain"
)

// HaversineProvider implements TravelTimeProvider purely from straight-line
// estimates. It serves deployments without a routing API key, and doubles as
// the reference for what a degraded ORSTravelProvider converges to.
type HaversineProvider struct{}

func (HaversineProvider) Matrix(ctx context.Context, coords []domain.Coordinates) ([][]int, error) {
	for i, c := range coords {
		if !c.Valid() {
			return nil, fmt.Errorf("%w: coordinates #%d out of range: %v", domain.ErrInvalidInput, i, c)
		}
	}

	n := len(coords)
	matrix := make([][]int, n)
	for i := range matrix {
		matrix[i] = make([]int, n)
		for j := 0; j < n; j++ {
			if i != j {
				matrix[i][j] = domain.EstimateLegMinutes(coords[i], coords[j])
			}
		}
	}
	return matrix, nil
}

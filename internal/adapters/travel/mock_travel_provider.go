package travel

import (
	"context"

	"itinerary-builder-service/internal/domain"
)

// MockTravelProvider returns a fixed matrix when set, otherwise a uniform
// matrix with Leg minutes on every off-diagonal cell.
type MockTravelProvider struct {
	Fixed [][]int
	Leg   int
	Err   error
	Calls int
}

func (p *MockTravelProvider) Matrix(ctx context.Context, coords []domain.Coordinates) ([][]int, error) {
	p.Calls++
	if p.Err != nil {
		return nil, p.Err
	}
	if p.Fixed != nil {
		return p.Fixed, nil
	}
	n := len(coords)
	m := make([][]int, n)
	for i := range m {
		m[i] = make([]int, n)
		for j := range m[i] {
			if i != j {
				m[i][j] = p.Leg
			}
		}
	}
	return m, nil
}

package services

import (
	"fmt"
	"math"

	"itinerary-builder-service/internal/domain"
)

// Build a visiting order using greedy nearest-feasible-next selection with
// time-window pruning.
//
// At each step the algorithm picks the unvisited location minimizing travel
// plus waiting time from the current position, skipping candidates that
// cannot be reached before they close. It does not attempt global route
// optimization (e.g. TSP solvers): the design prioritizes determinism and
// simplicity over optimality, and a decision is never revisited.
//
// The returned order always begins with startIdx; the second result is the
// clock minute at which the last visit finishes. Locations whose window can
// never be reached are silently absent from the order.
func BuildRoute(
	locations []domain.Location,
	travel [][]int,
	startIdx int,
	startMinute int,
) ([]int, int, error) {
	if err := ValidateBuildInput(locations, travel, startIdx, startMinute); err != nil {
		return nil, 0, fmt.Errorf("build route: %w", err)
	}

	n := len(locations)
	visited := make([]bool, n)
	visited[startIdx] = true

	order := make([]int, 0, n)
	order = append(order, startIdx)

	current := startIdx
	now := startMinute

	for {
		best := -1
		bestArrival := 0
		minCost := math.MaxInt

		// Select next stop by minimum travel plus waiting (greedy step.)
		for i := 0; i < n; i++ {
			if visited[i] {
				continue
			}

			tr := travel[current][i]
			arrival := now + tr
			if arrival < locations[i].Window.Open {
				arrival = locations[i].Window.Open // wait for opening
			}
			if arrival >= locations[i].Window.Close {
				continue // arrives at or after closing, infeasible
			}

			waiting := locations[i].Window.Open - (now + tr)
			if waiting < 0 {
				waiting = 0
			}

			// Strictly-smaller comparison keeps the lowest index on ties,
			// making the ordering deterministic.
			if cost := tr + waiting; cost < minCost {
				minCost = cost
				best = i
				bestArrival = arrival
			}
		}

		// No feasible candidate left is the only termination condition
		// besides exhausting all locations.
		if best == -1 {
			break
		}

		now = bestArrival + locations[best].Duration
		visited[best] = true
		order = append(order, best)
		current = best
	}

	return order, now, nil
}

// ValidateBuildInput rejects structurally invalid routing input before any
// construction begins. Every violation wraps domain.ErrInvalidInput.
func ValidateBuildInput(locations []domain.Location, travel [][]int, startIdx, startMinute int) error {
	if len(locations) == 0 {
		return fmt.Errorf("%w: no locations", domain.ErrInvalidInput)
	}
	if startIdx < 0 || startIdx >= len(locations) {
		return fmt.Errorf("%w: start index %d out of range [0, %d)", domain.ErrInvalidInput, startIdx, len(locations))
	}
	if startMinute < 0 || startMinute >= domain.MinutesPerDay {
		return fmt.Errorf("%w: start time %d out of range [0, %d)", domain.ErrInvalidInput, startMinute, domain.MinutesPerDay)
	}
	if len(travel) != len(locations) {
		return fmt.Errorf("%w: travel matrix has %d rows for %d locations", domain.ErrInvalidInput, len(travel), len(locations))
	}
	for i, row := range travel {
		if len(row) != len(locations) {
			return fmt.Errorf("%w: travel matrix row %d has %d columns for %d locations", domain.ErrInvalidInput, i, len(row), len(locations))
		}
		for j, cell := range row {
			if cell < 0 {
				return fmt.Errorf("%w: negative travel time %d at [%d][%d]", domain.ErrInvalidInput, cell, i, j)
			}
		}
	}
	for _, loc := range locations {
		if err := loc.Validate(); err != nil {
			return err
		}
	}
	return nil
}

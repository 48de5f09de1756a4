package domain

import "errors"

// Sentinel errors shared by the planning packages. Callers classify with
// errors.Is; everything else travels wrapped via fmt.Errorf("…: %w", err).
var (
	// ErrInvalidInput marks structurally invalid requests: empty location
	// sets, out-of-range start indices, malformed travel matrices. Rejected
	// before any route construction begins.
	ErrInvalidInput = errors.New("itinerary: invalid input")

	// ErrNotFound marks a cache or repository miss.
	ErrNotFound = errors.New("itinerary: not found")

	// ErrScenarioNotFound reports an unknown demo scenario key.
	ErrScenarioNotFound = errors.New("itinerary: scenario not found")
)

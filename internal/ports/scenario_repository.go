package ports

import (
	"context"

	"itinerary-builder-service/internal/domain"
)

// Port: a boundary for retrieving seeded demo scenarios from a data source.
type ScenarioRepository interface {
	// Retrieve all scenarios, ordered by key.
	ListScenarios(ctx context.Context) ([]domain.Scenario, error)

	// Retrieve one scenario; a missing key wraps domain.ErrScenarioNotFound.
	GetScenario(ctx context.Context, key string) (domain.Scenario, error)
}

package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"itinerary-builder-service/internal/domain"
)

// ScenarioPayload is a stored scenario resolved into a ready-to-build
// request: concrete locations, one travel matrix over them, and the start
// state the fixture prescribes. Clients can feed it straight back into
// itinerary construction.
type ScenarioPayload struct {
	Locations   []domain.Location
	Travel      [][]int
	StartIdx    int
	StartMinute int
	Warnings    []string
}

// MaterializeScenario resolves a scenario's entries through live geocoding
// and opening hours, then fetches one travel matrix over the results. Visit
// durations come from the fixture, not from name keywords.
//
// Entries that do not resolve become warnings and drop out, except the
// first: the lodging anchors the day, so losing it fails the whole
// materialization.
func (p *Planner) MaterializeScenario(ctx context.Context, sc domain.Scenario) (*ScenarioPayload, error) {
	const op = "services.MaterializeScenario"

	if len(sc.Entries) == 0 {
		return nil, fmt.Errorf("%s: %w: scenario %q has no entries", op, domain.ErrInvalidInput, sc.Key)
	}

	names := make([]string, len(sc.Entries))
	for i, e := range sc.Entries {
		names[i] = e.Name
	}
	results, err := p.resolveNames(ctx, names, sc.City)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !results[0].ok {
		return nil, fmt.Errorf("%s: %w: could not resolve start location %q",
			op, domain.ErrInvalidInput, sc.Entries[0].Name)
	}

	locations := make([]domain.Location, 0, len(results))
	var warnings []string
	for i, r := range results {
		if !r.ok {
			warnings = append(warnings, fmt.Sprintf("could not find %q, left out of the scenario", sc.Entries[i].Name))
			continue
		}
		loc := r.loc
		loc.Duration = sc.Entries[i].Duration
		locations = append(locations, loc)
	}

	coords := make([]domain.Coordinates, len(locations))
	for i, loc := range locations {
		coords[i] = *loc.Coords
	}
	travel, err := p.travel.Matrix(ctx, coords)
	if err != nil {
		return nil, fmt.Errorf("%s: travel matrix: %w", op, err)
	}

	start := sc.StartMinute
	if start <= 0 {
		start = defaultStartMinute
	}

	p.log.Info("scenario materialized",
		zap.String("key", sc.Key),
		zap.Int("locations", len(locations)),
		zap.Int("unresolved", len(warnings)),
	)
	return &ScenarioPayload{
		Locations:   locations,
		Travel:      travel,
		StartIdx:    0,
		StartMinute: start,
		Warnings:    warnings,
	}, nil
}

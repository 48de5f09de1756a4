package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"itinerary-builder-service/internal/domain"
	"itinerary-builder-service/internal/platform/obs"
)

// SQLScenarioRepository reads seeded demo scenarios. Like the caches it
// sticks to $N placeholders so PostgreSQL and SQLite share one
// implementation.
type SQLScenarioRepository struct {
	db  *sql.DB
	log *zap.Logger
}

func NewSQLScenarioRepository(db *sql.DB, log *zap.Logger) *SQLScenarioRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &SQLScenarioRepository{db: db, log: log}
}

// ListScenarios returns every stored scenario ordered by key, entries in
// seeded order.
func (r *SQLScenarioRepository) ListScenarios(ctx context.Context) (_ []domain.Scenario, err error) {
	defer obs.Time(r.log, "scenarios.List")(&err)

	if r.db == nil {
		return nil, errors.New("scenario repository: db is nil")
	}

	rows, err := r.db.QueryContext(ctx, `
	SELECT key, city, start_minute
	FROM scenarios
	ORDER BY key;
	`)
	if err != nil {
		return nil, fmt.Errorf("scenario repository: query scenarios table: %w", err)
	}
	defer rows.Close()

	var scenarios []domain.Scenario
	byKey := make(map[string]int)
	for rows.Next() {
		var sc domain.Scenario
		if err := rows.Scan(&sc.Key, &sc.City, &sc.StartMinute); err != nil {
			return nil, fmt.Errorf("scenario repository: scan scenario row: %w", err)
		}
		byKey[sc.Key] = len(scenarios)
		scenarios = append(scenarios, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scenario repository: scenario row iteration: %w", err)
	}
	if len(scenarios) == 0 {
		return nil, nil
	}

	entryRows, err := r.db.QueryContext(ctx, `
	SELECT scenario_key, name, duration_minutes
	FROM scenario_entries
	ORDER BY scenario_key, position;
	`)
	if err != nil {
		return nil, fmt.Errorf("scenario repository: query scenario_entries table: %w", err)
	}
	defer entryRows.Close()

	for entryRows.Next() {
		var key string
		var e domain.ScenarioEntry
		if err := entryRows.Scan(&key, &e.Name, &e.Duration); err != nil {
			return nil, fmt.Errorf("scenario repository: scan entry row: %w", err)
		}
		if i, ok := byKey[key]; ok {
			scenarios[i].Entries = append(scenarios[i].Entries, e)
		}
	}
	if err := entryRows.Err(); err != nil {
		return nil, fmt.Errorf("scenario repository: entry row iteration: %w", err)
	}

	return scenarios, nil
}

// GetScenario returns one scenario by key, wrapping
// domain.ErrScenarioNotFound when no row matches.
func (r *SQLScenarioRepository) GetScenario(ctx context.Context, key string) (_ domain.Scenario, err error) {
	defer obs.Time(r.log, "scenarios.Get")(&err)

	if r.db == nil {
		return domain.Scenario{}, errors.New("scenario repository: db is nil")
	}

	var sc domain.Scenario
	err = r.db.QueryRowContext(ctx, `
	SELECT key, city, start_minute
	FROM scenarios
	WHERE key = $1;
	`, key).Scan(&sc.Key, &sc.City, &sc.StartMinute)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Scenario{}, fmt.Errorf("scenario repository: %q: %w", key, domain.ErrScenarioNotFound)
	}
	if err != nil {
		return domain.Scenario{}, fmt.Errorf("scenario repository: query scenario %q: %w", key, err)
	}

	rows, err := r.db.QueryContext(ctx, `
	SELECT name, duration_minutes
	FROM scenario_entries
	WHERE scenario_key = $1
	ORDER BY position;
	`, key)
	if err != nil {
		return domain.Scenario{}, fmt.Errorf("scenario repository: query entries of %q: %w", key, err)
	}
	defer rows.Close()

	for rows.Next() {
		var e domain.ScenarioEntry
		if err := rows.Scan(&e.Name, &e.Duration); err != nil {
			return domain.Scenario{}, fmt.Errorf("scenario repository: scan entry row: %w", err)
		}
		sc.Entries = append(sc.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return domain.Scenario{}, fmt.Errorf("scenario repository: entry row iteration: %w", err)
	}

	return sc, nil
}

package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"itinerary-builder-service/internal/domain"
)

// InitSchema creates every table the service persists into. Statements use
// only syntax both supported engines (PostgreSQL, SQLite) accept, so the
// same schema pass runs against either DSN.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
        query TEXT NOT NULL,
        rank INTEGER NOT NULL,
        name TEXT NOT NULL,
        address TEXT NOT NULL,
        lat DOUBLE PRECISION NOT NULL,
        lon DOUBLE PRECISION NOT NULL,
        kind TEXT NOT NULL,
        class TEXT NOT NULL,
        place_id TEXT NOT NULL,
        PRIMARY KEY (query, rank)
    );
	`

	createTravelCacheQuery := `
	CREATE TABLE IF NOT EXISTS travel_cache (
        origin TEXT NOT NULL,
        destination TEXT NOT NULL,
        minutes INTEGER NOT NULL,
        PRIMARY KEY (origin, destination)
    );
	`

	createScenariosQuery := `
	CREATE TABLE IF NOT EXISTS scenarios (
        key TEXT PRIMARY KEY,
        city TEXT NOT NULL,
        start_minute INTEGER NOT NULL
    );
	`

	createScenarioEntriesQuery := `
	CREATE TABLE IF NOT EXISTS scenario_entries (
        scenario_key TEXT NOT NULL,
        position INTEGER NOT NULL,
        name TEXT NOT NULL,
        duration_minutes INTEGER NOT NULL,
        PRIMARY KEY (scenario_key, position)
    );
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_travel_cache_destination_origin
    ON travel_cache(destination, origin);
	`

	statements := []string{
		createGeocodeCacheQuery,
		createTravelCacheQuery,
		createScenariosQuery,
		createScenarioEntriesQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type scenarioEntrySeed struct {
	Name     string `json:"name"`
	Duration int    `json:"duration"`
}

type scenarioSeed struct {
	Key         string              `json:"key"`
	City        string              `json:"city"`
	StartMinute int                 `json:"start_minute"`
	Entries     []scenarioEntrySeed `json:"entries"`
}

// SeedScenariosFromJSON loads the demo scenario fixtures into storage and
// returns how many scenarios it wrote. Reseeding replaces each scenario's
// entry list wholesale, so a shrunk fixture never leaves stale rows behind.
func SeedScenariosFromJSON(db *sql.DB, jsonPath string) (int, error) {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed scenarios: read %q: %w", jsonPath, err)
	}

	var seeds []scenarioSeed
	if err := json.Unmarshal(raw, &seeds); err != nil {
		return 0, fmt.Errorf("seed scenarios: parse json: %w", err)
	}

	for i, sc := range seeds {
		if strings.TrimSpace(sc.Key) == "" {
			return 0, fmt.Errorf("seed scenarios: scenario #%d: key cannot be empty", i+1)
		}
		if strings.TrimSpace(sc.City) == "" {
			return 0, fmt.Errorf("seed scenarios: scenario %q: city cannot be empty", sc.Key)
		}
		if sc.StartMinute < 0 || sc.StartMinute >= domain.MinutesPerDay {
			return 0, fmt.Errorf("seed scenarios: scenario %q: start_minute %d out of range", sc.Key, sc.StartMinute)
		}
		if len(sc.Entries) == 0 {
			return 0, fmt.Errorf("seed scenarios: scenario %q: no entries", sc.Key)
		}
		for j, e := range sc.Entries {
			if strings.TrimSpace(e.Name) == "" {
				return 0, fmt.Errorf("seed scenarios: scenario %q: entry #%d: name cannot be empty", sc.Key, j+1)
			}
			if e.Duration < 0 {
				return 0, fmt.Errorf("seed scenarios: scenario %q: entry %q: negative duration", sc.Key, e.Name)
			}
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("seed scenarios: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	upsertScenario, err := tx.Prepare(`
	INSERT INTO scenarios (key, city, start_minute)
	VALUES ($1, $2, $3)
	ON CONFLICT (key) DO UPDATE
	SET city = excluded.city, start_minute = excluded.start_minute;
	`)
	if err != nil {
		return 0, fmt.Errorf("seed scenarios: prepare scenario upsert: %w", err)
	}
	defer upsertScenario.Close()

	insertEntry, err := tx.Prepare(`
	INSERT INTO scenario_entries (scenario_key, position, name, duration_minutes)
	VALUES ($1, $2, $3, $4);
	`)
	if err != nil {
		return 0, fmt.Errorf("seed scenarios: prepare entry insert: %w", err)
	}
	defer insertEntry.Close()

	for _, sc := range seeds {
		if _, err := upsertScenario.Exec(sc.Key, sc.City, sc.StartMinute); err != nil {
			return 0, fmt.Errorf("seed scenarios: upsert %q: %w", sc.Key, err)
		}
		if _, err := tx.Exec(`DELETE FROM scenario_entries WHERE scenario_key = $1;`, sc.Key); err != nil {
			return 0, fmt.Errorf("seed scenarios: clear entries of %q: %w", sc.Key, err)
		}
		for pos, e := range sc.Entries {
			if _, err := insertEntry.Exec(sc.Key, pos, e.Name, e.Duration); err != nil {
				return 0, fmt.Errorf("seed scenarios: insert %q entry #%d: %w", sc.Key, pos, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("seed scenarios: commit tx: %w", err)
	}

	return len(seeds), nil
}

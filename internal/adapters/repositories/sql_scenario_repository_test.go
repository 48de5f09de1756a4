package repositories

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"itinerary-builder-service/internal/domain"
)

// openTestDB opens a fresh in-memory database with the schema applied.
// MaxOpenConns(1) keeps database/sql from handing out a second connection,
// which for :memory: would be a second, empty database.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if err := InitSchema(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	return db
}

func writeFixture(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "scenarios.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

const twoCityFixture = `[
  {
    "key": "paris",
    "city": "Paris",
    "start_minute": 540,
    "entries": [
      {"name": "Hotel Ritz Paris", "duration": 0},
      {"name": "Louvre Museum", "duration": 180},
      {"name": "Eiffel Tower", "duration": 120}
    ]
  },
  {
    "key": "new_york",
    "city": "New York",
    "start_minute": 540,
    "entries": [
      {"name": "Hotel Pennsylvania", "duration": 0},
      {"name": "Central Park", "duration": 120}
    ]
  }
]`

func TestSeedAndGetScenario(t *testing.T) {
	db := openTestDB(t)

	n, err := SeedScenariosFromJSON(db, writeFixture(t, twoCityFixture))
	if err != nil {
		t.Fatalf("seed scenarios: %v", err)
	}
	if n != 2 {
		t.Fatalf("seeded %d scenarios, want 2", n)
	}

	repo := NewSQLScenarioRepository(db, nil)
	sc, err := repo.GetScenario(context.Background(), "paris")
	if err != nil {
		t.Fatalf("get scenario: %v", err)
	}

	if sc.City != "Paris" || sc.StartMinute != 540 {
		t.Errorf("got city=%q start=%d, want Paris/540", sc.City, sc.StartMinute)
	}
	want := []domain.ScenarioEntry{
		{Name: "Hotel Ritz Paris", Duration: 0},
		{Name: "Louvre Museum", Duration: 180},
		{Name: "Eiffel Tower", Duration: 120},
	}
	if len(sc.Entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(sc.Entries), len(want))
	}
	for i, e := range want {
		if sc.Entries[i] != e {
			t.Errorf("entry #%d = %+v, want %+v", i, sc.Entries[i], e)
		}
	}
}

func TestGetScenarioUnknownKey(t *testing.T) {
	db := openTestDB(t)
	repo := NewSQLScenarioRepository(db, nil)

	_, err := repo.GetScenario(context.Background(), "atlantis")
	if !errors.Is(err, domain.ErrScenarioNotFound) {
		t.Fatalf("err = %v, want ErrScenarioNotFound", err)
	}
}

func TestListScenariosOrderedByKey(t *testing.T) {
	db := openTestDB(t)
	if _, err := SeedScenariosFromJSON(db, writeFixture(t, twoCityFixture)); err != nil {
		t.Fatalf("seed scenarios: %v", err)
	}

	repo := NewSQLScenarioRepository(db, nil)
	scenarios, err := repo.ListScenarios(context.Background())
	if err != nil {
		t.Fatalf("list scenarios: %v", err)
	}

	if len(scenarios) != 2 {
		t.Fatalf("got %d scenarios, want 2", len(scenarios))
	}
	if scenarios[0].Key != "new_york" || scenarios[1].Key != "paris" {
		t.Errorf("keys = %q, %q; want new_york, paris", scenarios[0].Key, scenarios[1].Key)
	}
	if len(scenarios[0].Entries) != 2 {
		t.Errorf("new_york has %d entries, want 2", len(scenarios[0].Entries))
	}
}

func TestReseedReplacesEntries(t *testing.T) {
	db := openTestDB(t)
	if _, err := SeedScenariosFromJSON(db, writeFixture(t, twoCityFixture)); err != nil {
		t.Fatalf("first seed: %v", err)
	}

	// The reseeded paris fixture is shorter; leftover rows from the first
	// pass must not survive.
	shrunk := `[
  {
    "key": "paris",
    "city": "Paris",
    "start_minute": 600,
    "entries": [
      {"name": "Hotel Ritz Paris", "duration": 0}
    ]
  }
]`
	if _, err := SeedScenariosFromJSON(db, writeFixture(t, shrunk)); err != nil {
		t.Fatalf("reseed: %v", err)
	}

	repo := NewSQLScenarioRepository(db, nil)
	sc, err := repo.GetScenario(context.Background(), "paris")
	if err != nil {
		t.Fatalf("get scenario: %v", err)
	}
	if sc.StartMinute != 600 {
		t.Errorf("start_minute = %d, want 600 after reseed", sc.StartMinute)
	}
	if len(sc.Entries) != 1 {
		t.Errorf("got %d entries after reseed, want 1", len(sc.Entries))
	}
}

func TestSeedRejectsBadFixtures(t *testing.T) {
	cases := []struct {
		name    string
		fixture string
	}{
		{"empty key", `[{"key": " ", "city": "Paris", "start_minute": 540, "entries": [{"name": "X", "duration": 0}]}]`},
		{"empty city", `[{"key": "paris", "city": "", "start_minute": 540, "entries": [{"name": "X", "duration": 0}]}]`},
		{"start out of range", `[{"key": "paris", "city": "Paris", "start_minute": 1440, "entries": [{"name": "X", "duration": 0}]}]`},
		{"no entries", `[{"key": "paris", "city": "Paris", "start_minute": 540, "entries": []}]`},
		{"blank entry name", `[{"key": "paris", "city": "Paris", "start_minute": 540, "entries": [{"name": "", "duration": 0}]}]`},
		{"negative duration", `[{"key": "paris", "city": "Paris", "start_minute": 540, "entries": [{"name": "X", "duration": -5}]}]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db := openTestDB(t)
			if _, err := SeedScenariosFromJSON(db, writeFixture(t, tc.fixture)); err == nil {
				t.Fatal("seed accepted a bad fixture")
			}
		})
	}
}

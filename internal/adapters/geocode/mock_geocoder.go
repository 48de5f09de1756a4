package geocode

import (
	"context"
	"sync"

	"itinerary-builder-service/internal/domain"
)

// MockGeocoder resolves exact query strings from a registered table. An
// unregistered query is a miss, not an error, matching the port contract.
// Safe for concurrent use; callers fan out lookups.
type MockGeocoder struct {
	mu     sync.Mutex
	places map[string][]domain.Place
	calls  []string
	Err    error
}

func NewMockGeocoder() *MockGeocoder {
	return &MockGeocoder{places: make(map[string][]domain.Place)}
}

// Add registers matches for an exact query string.
func (g *MockGeocoder) Add(query string, places ...domain.Place) {
	g.places[query] = places
}

// Calls returns every query seen so far, in arrival order.
func (g *MockGeocoder) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

func (g *MockGeocoder) Search(ctx context.Context, query string, limit int) ([]domain.Place, error) {
	g.mu.Lock()
	g.calls = append(g.calls, query)
	g.mu.Unlock()

	if g.Err != nil {
		return nil, g.Err
	}
	matches := g.places[query]
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

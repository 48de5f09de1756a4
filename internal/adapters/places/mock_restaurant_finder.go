package places

import (
	"context"

	"itinerary-builder-service/internal/domain"
)

// MockRestaurantFinder serves scripted restaurants for tests. Each FindNear
// call consumes the next queued entry; the last entry is sticky once the
// queue runs dry, and an empty queue synthesizes the same fallback the real
// finder would. A non-nil Err is returned instead.
type MockRestaurantFinder struct {
	queue []domain.Restaurant
	Err   error
	Calls int
}

func NewMockRestaurantFinder(queue ...domain.Restaurant) *MockRestaurantFinder {
	return &MockRestaurantFinder{queue: queue}
}

func (f *MockRestaurantFinder) FindNear(ctx context.Context, at domain.Coordinates, radiusMeters int) (domain.Restaurant, error) {
	f.Calls++
	if f.Err != nil {
		return domain.Restaurant{}, f.Err
	}
	if len(f.queue) == 0 {
		return domain.Restaurant{
			Name:   "Nearby Restaurant",
			Coords: domain.Coordinates{Lat: at.Lat + 0.001, Lon: at.Lon + 0.001},
			Window: domain.TimeWindow{Open: 720, Close: 1320},
		}, nil
	}
	r := f.queue[0]
	if len(f.queue) > 1 {
		f.queue = f.queue[1:]
	}
	return r, nil
}

func (f *MockRestaurantFinder) ListNear(ctx context.Context, at domain.Coordinates, radiusMeters, limit int) ([]domain.Restaurant, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	if limit > len(f.queue) {
		limit = len(f.queue)
	}
	return f.queue[:limit], nil
}

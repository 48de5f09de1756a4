package places

import (
	"context"
	"errors"
	"testing"

	"itinerary-builder-service/internal/adapters/geocode"
	"itinerary-builder-service/internal/domain"
)

var testCenter = domain.Coordinates{Lat: 48.8566, Lon: 2.3522}

const (
	restaurantQuery = "restaurant 48.8566,2.3522"
	amenityQuery    = "[amenity=restaurant] 48.8566,2.3522"
)

func TestFindNearPicksClosestEatery(t *testing.T) {
	g := geocode.NewMockGeocoder()
	g.Add(restaurantQuery,
		domain.Place{Name: "Le Savoy Hotel", Kind: "restaurant", Class: "amenity",
			Address: "Le Savoy Hotel, Rue de Rivoli, Paris",
			Coords:  domain.Coordinates{Lat: 48.8576, Lon: 2.3522}},
		domain.Place{Name: "Far Restaurant", Kind: "restaurant", Class: "amenity",
			Address: "Far Restaurant, Somewhere, Paris",
			Coords:  domain.Coordinates{Lat: 48.8766, Lon: 2.3522}},
		domain.Place{Name: "Chez Janou", Kind: "restaurant", Class: "amenity",
			Address: "Chez Janou, Rue Roger Verlomme, Paris",
			Coords:  domain.Coordinates{Lat: 48.8616, Lon: 2.3522}},
		domain.Place{Name: "Café Mila", Kind: "cafe", Class: "amenity",
			Address: "Café Mila, Rue du Temple, Paris",
			Coords:  domain.Coordinates{Lat: 48.8586, Lon: 2.3522}},
		domain.Place{Name: "Café Mila", Kind: "node", Class: "tourism",
			Address: "Café Mila, Rue du Temple, Paris",
			Coords:  domain.Coordinates{Lat: 48.85865, Lon: 2.3522}},
	)
	hours := &MockHoursProvider{Windows: map[string]domain.TimeWindow{
		"Café Mila": {Open: 660, Close: 1380},
	}}

	f := NewNominatimRestaurantFinder(g, hours, nil)
	got, err := f.FindNear(context.Background(), testCenter, 1500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Café Mila" {
		t.Fatalf("expected the closest eatery, got %q", got.Name)
	}
	if got.DistanceMeters != 222 {
		t.Errorf("unexpected distance: %d", got.DistanceMeters)
	}
	if got.Window != (domain.TimeWindow{Open: 660, Close: 1380}) {
		t.Errorf("unexpected window: [%d, %d)", got.Window.Open, got.Window.Close)
	}

	calls := g.Calls()
	if len(calls) != 1 || calls[0] != restaurantQuery {
		t.Errorf("expected a single query variant, got %v", calls)
	}
}

func TestFindNearTriesNextQueryVariant(t *testing.T) {
	g := geocode.NewMockGeocoder()
	g.Add(restaurantQuery,
		domain.Place{Name: "Le Savoy Hotel", Kind: "restaurant", Class: "amenity",
			Address: "Le Savoy Hotel, Rue de Rivoli, Paris",
			Coords:  domain.Coordinates{Lat: 48.8576, Lon: 2.3522}},
	)
	g.Add(amenityQuery,
		domain.Place{Name: "Pasta Bar", Kind: "restaurant", Class: "amenity",
			Address: "Pasta Bar, Rue Saint-Antoine, Paris",
			Coords:  domain.Coordinates{Lat: 48.8616, Lon: 2.3522}},
	)

	f := NewNominatimRestaurantFinder(g, &MockHoursProvider{}, nil)
	got, err := f.FindNear(context.Background(), testCenter, 1500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Pasta Bar" || got.DistanceMeters != 556 {
		t.Fatalf("unexpected result: %+v", got)
	}

	calls := g.Calls()
	if len(calls) != 2 || calls[1] != amenityQuery {
		t.Fatalf("expected both query variants, got %v", calls)
	}
}

func TestFindNearRejectsLodgingByAddress(t *testing.T) {
	g := geocode.NewMockGeocoder()
	g.Add(restaurantQuery,
		domain.Place{Name: "Le Jardin", Kind: "restaurant", Class: "amenity",
			Address: "Le Jardin, Hotel Ritz, Place Vendôme, Paris",
			Coords:  domain.Coordinates{Lat: 48.8586, Lon: 2.3522}},
	)

	f := NewNominatimRestaurantFinder(g, &MockHoursProvider{}, nil)
	got, err := f.FindNear(context.Background(), testCenter, 1500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Nearby Restaurant" {
		t.Fatalf("expected the fallback, got %q", got.Name)
	}
}

func TestFindNearSynthesizesFallback(t *testing.T) {
	g := geocode.NewMockGeocoder()
	g.Err = errors.New("nominatim unreachable")

	f := NewNominatimRestaurantFinder(g, &MockHoursProvider{}, nil)
	got, err := f.FindNear(context.Background(), testCenter, 1500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Nearby Restaurant" {
		t.Errorf("unexpected name: %q", got.Name)
	}
	if got.Address != "Restaurant near coordinates 48.8566, 2.3522" {
		t.Errorf("unexpected address: %q", got.Address)
	}
	if got.Coords.Lat != testCenter.Lat+0.001 || got.Coords.Lon != testCenter.Lon+0.001 {
		t.Errorf("unexpected coords: %+v", got.Coords)
	}
	if got.Window != (domain.TimeWindow{Open: 720, Close: 1320}) {
		t.Errorf("unexpected window: [%d, %d)", got.Window.Open, got.Window.Close)
	}
	if got.DistanceMeters != 100 {
		t.Errorf("unexpected distance: %d", got.DistanceMeters)
	}
}

func TestFindNearAppliesDefaultRadius(t *testing.T) {
	g := geocode.NewMockGeocoder()
	g.Add(restaurantQuery,
		domain.Place{Name: "Chez Janou", Kind: "restaurant", Class: "amenity",
			Address: "Chez Janou, Rue Roger Verlomme, Paris",
			Coords:  domain.Coordinates{Lat: 48.8616, Lon: 2.3522}},
	)

	f := NewNominatimRestaurantFinder(g, &MockHoursProvider{}, nil)
	got, err := f.FindNear(context.Background(), testCenter, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Chez Janou" {
		t.Fatalf("expected the 556 m eatery inside the 1500 m default radius, got %q", got.Name)
	}
}

func TestListNearCapsAndAttachesHours(t *testing.T) {
	g := geocode.NewMockGeocoder()
	g.Add(restaurantQuery,
		domain.Place{Name: "Chez Janou", Kind: "restaurant", Class: "amenity",
			Address: "Chez Janou, Rue Roger Verlomme, Paris",
			Coords:  domain.Coordinates{Lat: 48.8616, Lon: 2.3522}},
		domain.Place{Name: "Café Mila", Kind: "cafe", Class: "amenity",
			Address: "Café Mila, Rue du Temple, Paris",
			Coords:  domain.Coordinates{Lat: 48.8586, Lon: 2.3522}},
		domain.Place{Name: "Breizh Café", Kind: "restaurant", Class: "amenity",
			Address: "Breizh Café, Rue Vieille du Temple, Paris",
			Coords:  domain.Coordinates{Lat: 48.8606, Lon: 2.3522}},
	)
	hours := &MockHoursProvider{Windows: map[string]domain.TimeWindow{
		"Café Mila":   {Open: 660, Close: 1380},
		"Breizh Café": {Open: 690, Close: 1350},
	}}

	f := NewNominatimRestaurantFinder(g, hours, nil)
	got, err := f.ListNear(context.Background(), testCenter, 1500, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}
	if got[0].Name != "Café Mila" || got[1].Name != "Breizh Café" {
		t.Fatalf("unexpected order: %q, %q", got[0].Name, got[1].Name)
	}
	if got[0].DistanceMeters != 222 || got[1].DistanceMeters != 445 {
		t.Errorf("unexpected distances: %d, %d", got[0].DistanceMeters, got[1].DistanceMeters)
	}
	if got[0].Window != (domain.TimeWindow{Open: 660, Close: 1380}) ||
		got[1].Window != (domain.TimeWindow{Open: 690, Close: 1350}) {
		t.Errorf("unexpected windows: %+v, %+v", got[0].Window, got[1].Window)
	}
}

func TestListNearEmptyIsLegitimate(t *testing.T) {
	f := NewNominatimRestaurantFinder(geocode.NewMockGeocoder(), &MockHoursProvider{}, nil)
	got, err := f.ListNear(context.Background(), testCenter, 1500, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no candidates, got %+v", got)
	}
}

package domain

import "fmt"

// Minutes in one day; a window closing at MinutesPerDay runs to midnight.
const MinutesPerDay = 1440

// TimeWindow is a half-open [Open, Close) interval in minutes from midnight
// during which a location accepts visitors.
type TimeWindow struct {
	Open  int
	Close int
}

// FullDay is the always-open window.
func FullDay() TimeWindow { return TimeWindow{Open: 0, Close: MinutesPerDay} }

// AlwaysOpen reports whether the window imposes no constraint at all.
func (w TimeWindow) AlwaysOpen() bool { return w.Open == 0 && w.Close == MinutesPerDay }

// Contains reports whether minute t falls inside the half-open window.
func (w TimeWindow) Contains(t int) bool { return t >= w.Open && t < w.Close }

// Validate rejects windows outside [0, 1440] or with a non-positive span.
func (w TimeWindow) Validate() error {
	if w.Open < 0 || w.Close > MinutesPerDay || w.Open >= w.Close {
		return fmt.Errorf("%w: time window [%d, %d)", ErrInvalidInput, w.Open, w.Close)
	}
	return nil
}

// Location is a point of interest considered for a day itinerary.
//
// Coordinates are optional: route construction works purely on the travel
// matrix, and geographic positions are only needed once meal insertion or
// map output has to measure real distances.
type Location struct {
	Name     string
	Window   TimeWindow
	Duration int // visit length in minutes, 0 for a pure waypoint such as the lodging
	Coords   *Coordinates
	Address  string
	Tags     []string
}

// Validate checks the per-location invariants.
func (l Location) Validate() error {
	if err := l.Window.Validate(); err != nil {
		return fmt.Errorf("location %q: %w", l.Name, err)
	}
	if l.Duration < 0 {
		return fmt.Errorf("%w: location %q has negative duration %d", ErrInvalidInput, l.Name, l.Duration)
	}
	return nil
}

// Place is a single geocoding match for a free-text query.
type Place struct {
	Name    string
	Address string
	Coords  Coordinates
	Kind    string // provider "type" field, e.g. restaurant, attraction
	Class   string // provider "class" field, e.g. amenity, tourism
	PlaceID string
}

// Restaurant is an eatery candidate produced by a finder.
type Restaurant struct {
	Name           string
	Address        string
	Coords         Coordinates
	Window         TimeWindow
	DistanceMeters int
}

package domain

// ItineraryItem is one presentable stop of a finished plan.
type ItineraryItem struct {
	Name      string
	Arrival   int
	Departure int
	Duration  int
	Address   string
	Window    TimeWindow
	Tags      []string
	Meal      StopKind // StopVisit for regular stops
	Coords    *Coordinates
}

// Itinerary is the full planner output: timed stops, meal bookkeeping, skip
// warnings, whole-day aggregates, and the mapping payload.
type Itinerary struct {
	Items       []ItineraryItem
	Meals       MealTimes
	Skipped     []SkippedLocation
	Warnings    []string
	StartMinute int
	EndMinute   int
	Waypoints   []Coordinates
	MapsURL     string
}

// TotalMinutes is the elapsed span of the whole day plan.
func (i Itinerary) TotalMinutes() int { return i.EndMinute - i.StartMinute }

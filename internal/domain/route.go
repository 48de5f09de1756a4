package domain

// StopKind discriminates the variants of a route stop.
type StopKind int

const (
	// StopVisit is a visit to one of the input locations, addressed by index.
	StopVisit StopKind = iota
	// StopLunch and StopDinner are meal breaks synthesized during scheduling.
	StopLunch
	StopDinner
)

func (k StopKind) String() string {
	switch k {
	case StopLunch:
		return "lunch"
	case StopDinner:
		return "dinner"
	default:
		return "visit"
	}
}

// Stop is one entry of a planned route. A visit carries an index into the
// request's location list; a meal stop carries its own restaurant data
// because a synthesized stop has no such index. The two variants replace
// the fragile convention of smuggling meal markers through negative indices.
type Stop struct {
	Kind       StopKind
	Index      int         // valid only when Kind == StopVisit
	Restaurant *Restaurant // set only for meal stops
}

// VisitStop builds the location-visit variant.
func VisitStop(index int) Stop { return Stop{Kind: StopVisit, Index: index} }

// MealStop builds a lunch or dinner variant around a restaurant. Index is
// set out of range so that misreading a meal stop as a visit fails loudly.
func MealStop(kind StopKind, r Restaurant) Stop {
	return Stop{Kind: kind, Index: -1, Restaurant: &r}
}

// IsMeal reports whether the stop was synthesized by meal insertion.
func (s Stop) IsMeal() bool { return s.Kind != StopVisit }

// ScheduledStop pairs a route stop with its computed timing, both in
// minutes from midnight.
type ScheduledStop struct {
	Stop
	Arrival   int
	Departure int
}

// MealRecord captures when and where one meal was taken.
type MealRecord struct {
	Minute  int
	Name    string
	Address string
}

// MealTimes accumulates at most one lunch and one dinner per itinerary.
type MealTimes struct {
	Lunch  *MealRecord
	Dinner *MealRecord
}

// SkippedLocation explains why a routed location was dropped during
// scheduling. Skips are advisory, never errors.
type SkippedLocation struct {
	Index  int
	Name   string
	Reason string
}

// Schedule is a fully timed single-day plan: the output of walking a built
// route and splicing in meals. It is immutable result data.
type Schedule struct {
	Stops       []ScheduledStop
	Meals       MealTimes
	Skipped     []SkippedLocation
	StartMinute int
	EndMinute   int
}

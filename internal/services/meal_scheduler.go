package services

import (
	"context"
	"fmt"

	"itinerary-builder-service/internal/domain"
	"itinerary-builder-service/internal/ports"
)

// Travel minutes assumed for a leg whose destination has no coordinates, so
// not even a straight-line estimate is possible.
const defaultSyntheticLegMinutes = 10

// MealPolicy gathers every tunable of lunch and dinner insertion. The
// constants behind these fields vary between conventions (60- vs 90-minute
// lunches, different dinner floors), so each threshold is a named field with
// a documented default instead of a magic number in the walk.
type MealPolicy struct {
	// LunchWindow is when lunch should happen; restaurant arrival is
	// clamped forward to its start.
	LunchWindow domain.TimeWindow
	// LunchDuration is the fixed lunch length. 60 and 90 minutes are the
	// supported conventions; a caller picks one and applies it throughout.
	LunchDuration int
	// LunchCheckAfter starts lunch consideration once the clock reaches
	// it, even before the window itself opens.
	LunchCheckAfter int
	// LunchLeadTime also triggers lunch when the window opens within this
	// many minutes.
	LunchLeadTime int
	// DinnerEarliestStart is the clamp-forward floor for dinner.
	DinnerEarliestStart int
	// DinnerDuration is the fixed dinner length.
	DinnerDuration int
	// RestaurantRadiusMeters bounds finder queries; nonpositive lets the
	// finder apply its own default.
	RestaurantRadiusMeters int
	// MaxWaitMinutes caps idle time before a stop opens; a longer wait
	// skips the stop during scheduling.
	MaxWaitMinutes int
	// ReturnToStart appends a leg back to the start position at day end.
	ReturnToStart bool
}

// DefaultMealPolicy returns the documented defaults: lunch window
// 12:00-15:00, one-hour lunch considered from 11:00, one-hour dinner no
// earlier than 19:00, 2 km restaurant search, two-hour wait cap.
func DefaultMealPolicy() MealPolicy {
	return MealPolicy{
		LunchWindow:            domain.TimeWindow{Open: 720, Close: 900},
		LunchDuration:          60,
		LunchCheckAfter:        660,
		LunchLeadTime:          60,
		DinnerEarliestStart:    1140,
		DinnerDuration:         60,
		RestaurantRadiusMeters: 2000,
		MaxWaitMinutes:         120,
		ReturnToStart:          true,
	}
}

// ScheduleRequest carries one scheduling pass over an already-built order.
type ScheduleRequest struct {
	Locations   []domain.Location
	Travel      [][]int
	Order       []int // visiting order from BuildRoute, starts with StartIdx
	StartIdx    int
	StartMinute int
	Policy      MealPolicy
}

// ScheduleWithMeals walks a built order, re-derives every timestamp, splices
// in at most one lunch and one dinner, and re-validates each stop against
// its window, recording skips instead of failing.
//
// Matrix travel times apply between input locations; any leg touching a
// synthesized restaurant uses the straight-line estimate, since the matrix
// has no row for it. Finder failures and missing coordinates degrade to
// skipping the meal, never aborting the walk.
func ScheduleWithMeals(
	ctx context.Context,
	req ScheduleRequest,
	finder ports.RestaurantFinder,
) (*domain.Schedule, error) {
	if len(req.Order) == 0 {
		return nil, fmt.Errorf("schedule meals: %w: empty order", domain.ErrInvalidInput)
	}
	for _, idx := range req.Order {
		if idx < 0 || idx >= len(req.Locations) {
			return nil, fmt.Errorf("schedule meals: %w: order index %d out of range", domain.ErrInvalidInput, idx)
		}
	}
	if req.Order[0] != req.StartIdx {
		return nil, fmt.Errorf("schedule meals: %w: order starts at %d, not start index %d", domain.ErrInvalidInput, req.Order[0], req.StartIdx)
	}

	w := &mealWalk{req: req, finder: finder}
	w.now = req.StartMinute
	w.current = req.StartIdx
	w.lastVisit = req.StartIdx

	// The start acts as a pure waypoint: its duration never consumes clock
	// time, matching the builder's arithmetic.
	w.stops = append(w.stops, domain.ScheduledStop{
		Stop:      domain.VisitStop(req.StartIdx),
		Arrival:   req.StartMinute,
		Departure: req.StartMinute,
	})

	for _, idx := range req.Order[1:] {
		w.step(ctx, idx)
	}

	w.insertDinner(ctx)
	w.returnToStart()

	// The walk recomputes every timestamp monotonically, so its clock is
	// the authoritative end of the day; skipped stops legitimately shorten
	// it relative to the builder's estimate.
	return &domain.Schedule{
		Stops:       w.stops,
		Meals:       w.meals,
		Skipped:     w.skipped,
		StartMinute: req.StartMinute,
		EndMinute:   w.now,
	}, nil
}

// mealWalk is the mutable state threaded through one scheduling pass.
type mealWalk struct {
	req    ScheduleRequest
	finder ports.RestaurantFinder

	now        int
	current    int                // last occupied input-location index
	atMeal     *domain.Restaurant // set while positioned at a restaurant
	lastVisit  int                // last real visit appended
	lunchTaken bool

	stops   []domain.ScheduledStop
	meals   domain.MealTimes
	skipped []domain.SkippedLocation
}

// step travels to the location at idx, inserting lunch on the way when the
// policy triggers, and re-validates the visit against its window.
func (w *mealWalk) step(ctx context.Context, idx int) {
	loc := w.req.Locations[idx]
	p := w.req.Policy

	if !w.lunchTaken && w.lunchDue(idx) {
		w.insertLunch(ctx, idx)
	}

	travel := w.legTo(idx)
	rawArrival := w.now + travel
	arrival := rawArrival
	if arrival < loc.Window.Open {
		arrival = loc.Window.Open
	}

	// Re-validate unless the window is unconstrained; builder feasibility
	// was arrival-based, the schedule additionally requires finishing
	// before close and a bounded wait.
	if !loc.Window.AlwaysOpen() {
		switch {
		case rawArrival >= loc.Window.Close:
			w.skip(idx, fmt.Sprintf("arrives at %s, after closing at %s",
				domain.FormatClock(rawArrival), domain.FormatClock(loc.Window.Close)))
			return
		case arrival+loc.Duration > loc.Window.Close:
			w.skip(idx, fmt.Sprintf("cannot finish a %s visit before closing at %s",
				domain.FormatDuration(loc.Duration), domain.FormatClock(loc.Window.Close)))
			return
		case loc.Window.Open-rawArrival > p.MaxWaitMinutes:
			w.skip(idx, fmt.Sprintf("opens at %s, waiting %s exceeds the cap",
				domain.FormatClock(loc.Window.Open), domain.FormatDuration(loc.Window.Open-rawArrival)))
			return
		}
	}

	w.stops = append(w.stops, domain.ScheduledStop{
		Stop:      domain.VisitStop(idx),
		Arrival:   arrival,
		Departure: arrival + loc.Duration,
	})
	w.now = arrival + loc.Duration
	w.current = idx
	w.lastVisit = idx
	w.atMeal = nil

	// Fallback: no trigger fired on the way in, but the visit itself ended
	// inside the lunch window.
	if !w.lunchTaken && p.LunchWindow.Contains(w.now) {
		w.insertLunch(ctx, idx)
	}
}

// lunchDue evaluates the insertion triggers against the next candidate.
func (w *mealWalk) lunchDue(next int) bool {
	p := w.req.Policy
	loc := w.req.Locations[next]

	travel := w.legTo(next)
	arrival := w.now + travel
	if arrival < loc.Window.Open {
		arrival = loc.Window.Open
	}
	finish := arrival + loc.Duration

	switch {
	case w.now >= p.LunchCheckAfter:
		return true
	case finish >= p.LunchWindow.Open:
		return true
	case p.LunchWindow.Contains(arrival):
		return true
	case p.LunchWindow.Open-w.now <= p.LunchLeadTime:
		return true
	}
	return false
}

// insertLunch asks the finder for a restaurant near the walker and splices
// the stop in. Missing coordinates or an unusable candidate leave lunch
// untaken so a later stop can retry.
func (w *mealWalk) insertLunch(ctx context.Context, next int) {
	p := w.req.Policy

	at := w.searchPosition(next)
	if at == nil {
		return // no geographic data anywhere, meals are silently skipped
	}

	r, err := w.finder.FindNear(ctx, *at, p.RestaurantRadiusMeters)
	if err != nil {
		return
	}

	start := w.now + domain.EstimateLegMinutes(*at, r.Coords)
	if start < p.LunchWindow.Open {
		start = p.LunchWindow.Open
	}
	if start < r.Window.Open {
		start = r.Window.Open
	}
	if start+p.LunchDuration > r.Window.Close {
		return // restaurant closes too soon, retry at a later stop
	}

	w.stops = append(w.stops, domain.ScheduledStop{
		Stop:      domain.MealStop(domain.StopLunch, r),
		Arrival:   start,
		Departure: start + p.LunchDuration,
	})
	w.meals.Lunch = &domain.MealRecord{Minute: start, Name: r.Name, Address: r.Address}
	w.now = start + p.LunchDuration
	w.atMeal = &r
	w.lunchTaken = true
}

// insertDinner appends the day-closing meal after the last real stop.
func (w *mealWalk) insertDinner(ctx context.Context) {
	p := w.req.Policy

	// A day that never left the start position has no dinner.
	if w.lastVisit == w.req.StartIdx {
		return
	}
	at := w.req.Locations[w.lastVisit].Coords
	if at == nil {
		return
	}

	r, err := w.finder.FindNear(ctx, *at, p.RestaurantRadiusMeters)
	if err != nil {
		return
	}

	start := w.now + domain.EstimateLegMinutes(*at, r.Coords)
	if start < p.DinnerEarliestStart {
		start = p.DinnerEarliestStart
	}
	if start < r.Window.Open {
		start = r.Window.Open
	}
	if start+p.DinnerDuration > r.Window.Close {
		return
	}

	w.stops = append(w.stops, domain.ScheduledStop{
		Stop:      domain.MealStop(domain.StopDinner, r),
		Arrival:   start,
		Departure: start + p.DinnerDuration,
	})
	w.meals.Dinner = &domain.MealRecord{Minute: start, Name: r.Name, Address: r.Address}
	w.now = start + p.DinnerDuration
	w.atMeal = &r
}

// returnToStart appends the closing leg back to the start position.
func (w *mealWalk) returnToStart() {
	if !w.req.Policy.ReturnToStart || len(w.req.Order) < 2 {
		return
	}
	// Nothing was actually visited, the walker never moved.
	if w.lastVisit == w.req.StartIdx && w.atMeal == nil {
		return
	}

	startCoords := w.req.Locations[w.req.StartIdx].Coords
	var travel int
	switch {
	case w.atMeal != nil && startCoords != nil:
		travel = domain.EstimateLegMinutes(w.atMeal.Coords, *startCoords)
	case w.atMeal != nil:
		travel = defaultSyntheticLegMinutes
	default:
		travel = w.req.Travel[w.current][w.req.StartIdx]
	}

	arrival := w.now + travel
	w.stops = append(w.stops, domain.ScheduledStop{
		Stop:      domain.VisitStop(w.req.StartIdx),
		Arrival:   arrival,
		Departure: arrival,
	})
	w.now = arrival
}

// legTo computes travel minutes from the current position to the location
// at idx: matrix-sourced between input locations, straight-line from a
// restaurant, a fixed assumption when no coordinates exist.
func (w *mealWalk) legTo(idx int) int {
	if w.atMeal == nil {
		return w.req.Travel[w.current][idx]
	}
	if c := w.req.Locations[idx].Coords; c != nil {
		return domain.EstimateLegMinutes(w.atMeal.Coords, *c)
	}
	return defaultSyntheticLegMinutes
}

// searchPosition picks where to look for a restaurant: the current position
// first, then the upcoming stop, then the start, nil when nothing has
// coordinates.
func (w *mealWalk) searchPosition(next int) *domain.Coordinates {
	if w.atMeal != nil {
		return &w.atMeal.Coords
	}
	if c := w.req.Locations[w.current].Coords; c != nil {
		return c
	}
	if c := w.req.Locations[next].Coords; c != nil {
		return c
	}
	return w.req.Locations[w.req.StartIdx].Coords
}

func (w *mealWalk) skip(idx int, reason string) {
	w.skipped = append(w.skipped, domain.SkippedLocation{
		Index:  idx,
		Name:   w.req.Locations[idx].Name,
		Reason: reason,
	})
}

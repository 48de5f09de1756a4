package services

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"itinerary-builder-service/internal/domain"
	"itinerary-builder-service/internal/ports"
)

// maxResolveInFlight bounds concurrent geocoding lookups so a long name
// list does not stampede the upstream service.
const maxResolveInFlight = 5

// defaultStartMinute is when a day starts if the caller does not say:
// 9:00 AM, late enough that most attractions are open or about to be.
const defaultStartMinute = 540

// Planner turns place names into a finished day plan: it resolves names
// concurrently, fetches one travel matrix, derives the visiting order,
// schedules meals, and shapes the result.
type Planner struct {
	log      *zap.Logger
	geocoder ports.Geocoder
	hours    ports.OpeningHoursProvider
	travel   ports.TravelTimeProvider
	finder   ports.RestaurantFinder
	policy   MealPolicy
}

func NewPlanner(
	log *zap.Logger,
	geocoder ports.Geocoder,
	hours ports.OpeningHoursProvider,
	travel ports.TravelTimeProvider,
	finder ports.RestaurantFinder,
	policy MealPolicy,
) *Planner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Planner{
		log:      log,
		geocoder: geocoder,
		hours:    hours,
		travel:   travel,
		finder:   finder,
		policy:   policy,
	}
}

// PlanRequest is one full planning run from bare place names. Names[0] is
// the lodging: it anchors the start of the day and the optional return leg.
type PlanRequest struct {
	Names         []string
	City          string
	StartMinute   int
	LunchDuration int // 0 keeps the policy default
	ReturnToStart bool
}

// Plan resolves every requested name, asks for one travel matrix over the
// resolved coordinates, and runs route construction plus meal scheduling.
//
// Names that cannot be resolved become warnings and drop out of the plan,
// except the lodging: a day has to start somewhere, so an unresolvable
// Names[0] is invalid input.
func (p *Planner) Plan(ctx context.Context, req PlanRequest) (*domain.Itinerary, error) {
	const op = "services.Plan"

	if len(req.Names) == 0 {
		return nil, fmt.Errorf("%s: %w: no location names", op, domain.ErrInvalidInput)
	}
	if req.StartMinute <= 0 {
		req.StartMinute = defaultStartMinute
	}

	logger := p.log.With(
		zap.String("op", op),
		zap.String("city", req.City),
		zap.Int("names", len(req.Names)),
	)

	results, err := p.resolveNames(ctx, req.Names, req.City)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !results[0].ok {
		return nil, fmt.Errorf("%s: %w: could not resolve start location %q",
			op, domain.ErrInvalidInput, req.Names[0])
	}

	locations := make([]domain.Location, 0, len(results))
	var warnings []string
	for i, r := range results {
		if !r.ok {
			warnings = append(warnings, fmt.Sprintf("could not find %q, left out of the plan", req.Names[i]))
			continue
		}
		locations = append(locations, r.loc)
	}

	coords := make([]domain.Coordinates, len(locations))
	for i, loc := range locations {
		coords[i] = *loc.Coords
	}
	matrix, err := p.travel.Matrix(ctx, coords)
	if err != nil {
		return nil, fmt.Errorf("%s: travel matrix: %w", op, err)
	}

	itin, err := p.schedule(ctx, locations, matrix, 0, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	itin.Warnings = warnings

	logger.Info("itinerary planned",
		zap.Int("stops", len(itin.Items)),
		zap.Int("skipped", len(itin.Skipped)),
		zap.String("end", domain.FormatClock(itin.EndMinute)),
	)
	return itin, nil
}

// BuildItineraryRequest plans over caller-supplied locations instead of bare
// names. Travel may be nil when every location has coordinates; the matrix
// is then filled from straight-line estimates.
type BuildItineraryRequest struct {
	Locations     []domain.Location
	Travel        [][]int
	StartIdx      int
	StartMinute   int
	LunchDuration int // 0 keeps the policy default
	ReturnToStart bool
}

// Build runs route construction and meal scheduling over explicit locations,
// skipping the geocoding phase entirely.
func (p *Planner) Build(ctx context.Context, req BuildItineraryRequest) (*domain.Itinerary, error) {
	const op = "services.Build"

	if req.StartMinute <= 0 {
		req.StartMinute = defaultStartMinute
	}

	travel := req.Travel
	if travel == nil {
		var err error
		travel, err = estimateMatrix(req.Locations)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	itin, err := p.schedule(ctx, req.Locations, travel, req.StartIdx, PlanRequest{
		StartMinute:   req.StartMinute,
		LunchDuration: req.LunchDuration,
		ReturnToStart: req.ReturnToStart,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return itin, nil
}

// schedule is the shared back half of Plan and Build: order construction,
// meal scheduling, result assembly.
func (p *Planner) schedule(
	ctx context.Context,
	locations []domain.Location,
	travel [][]int,
	startIdx int,
	req PlanRequest,
) (*domain.Itinerary, error) {
	order, _, err := BuildRoute(locations, travel, startIdx, req.StartMinute)
	if err != nil {
		return nil, err
	}

	policy := p.policy
	if req.LunchDuration > 0 {
		policy.LunchDuration = req.LunchDuration
	}
	policy.ReturnToStart = req.ReturnToStart

	sched, err := ScheduleWithMeals(ctx, ScheduleRequest{
		Locations:   locations,
		Travel:      travel,
		Order:       order,
		StartIdx:    startIdx,
		StartMinute: req.StartMinute,
		Policy:      policy,
	}, p.finder)
	if err != nil {
		return nil, err
	}

	itin := AssembleItinerary(locations, sched, nil)
	return &itin, nil
}

// resolvedName is the fan-out result for one requested place name.
type resolvedName struct {
	idx int
	loc domain.Location
	ok  bool
}

// resolveNames geocodes every name and fetches its opening hours, fanning
// out up to maxResolveInFlight lookups at a time. Results come back keyed
// by input index so the sequential planning phase sees a stable order
// regardless of completion order.
func (p *Planner) resolveNames(ctx context.Context, names []string, city string) ([]resolvedName, error) {
	results := make([]resolvedName, len(names))

	sem := make(chan struct{}, maxResolveInFlight)
	resultsCh := make(chan resolvedName, len(names))
	var wg sync.WaitGroup

	for i, name := range names {
		wg.Add(1)
		go func(idx int, name string) {
			sem <- struct{}{}
			defer wg.Done()
			defer func() { <-sem }()

			loc, ok := p.resolveOne(ctx, name, city)
			resultsCh <- resolvedName{idx: idx, loc: loc, ok: ok}
		}(i, name)
	}

	wg.Wait()
	close(resultsCh)

	for r := range resultsCh {
		results[r.idx] = r
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("resolve names: %w", err)
	}
	return results, nil
}

// resolveOne geocodes a single name and attaches opening hours plus the
// keyword-derived visit duration and tags. Failures resolve to ok=false;
// the caller decides whether that is fatal.
func (p *Planner) resolveOne(ctx context.Context, name, city string) (domain.Location, bool) {
	query := name
	if city != "" {
		query = name + ", " + city
	}
	places, err := p.geocoder.Search(ctx, query, 1)
	if (err != nil || len(places) == 0) && city != "" {
		// Some landmarks geocode better without the city suffix.
		places, err = p.geocoder.Search(ctx, name, 1)
	}
	if err != nil {
		p.log.Warn("geocoding failed", zap.String("name", name), zap.Error(err))
		return domain.Location{}, false
	}
	if len(places) == 0 {
		p.log.Warn("no geocoding match", zap.String("name", name))
		return domain.Location{}, false
	}

	// The plan keeps the name the caller asked for; the geocoder's display
	// name only feeds the address field.
	place := places[0]
	coords := place.Coords
	return domain.Location{
		Name:     name,
		Window:   p.hours.OpeningHours(ctx, place.Coords, name),
		Duration: DefaultVisitDuration(name),
		Coords:   &coords,
		Address:  place.Address,
		Tags:     LocationTags(name),
	}, true
}

// estimateMatrix fills a travel matrix from straight-line estimates when
// the caller did not supply one.
func estimateMatrix(locations []domain.Location) ([][]int, error) {
	for _, loc := range locations {
		if loc.Coords == nil {
			return nil, fmt.Errorf("%w: location %q has no coordinates and no travel matrix was given",
				domain.ErrInvalidInput, loc.Name)
		}
	}
	m := make([][]int, len(locations))
	for i := range locations {
		m[i] = make([]int, len(locations))
		for j := range locations {
			if i != j {
				m[i][j] = domain.EstimateLegMinutes(*locations[i].Coords, *locations[j].Coords)
			}
		}
	}
	return m, nil
}

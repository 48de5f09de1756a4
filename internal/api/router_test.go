package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"itinerary-builder-service/internal/adapters/geocode"
	"itinerary-builder-service/internal/adapters/places"
	"itinerary-builder-service/internal/adapters/travel"
	"itinerary-builder-service/internal/api/dto"
	"itinerary-builder-service/internal/domain"
	"itinerary-builder-service/internal/services"
)

type stubScenarioRepo struct {
	scenarios map[string]domain.Scenario
}

func (s *stubScenarioRepo) ListScenarios(ctx context.Context) ([]domain.Scenario, error) {
	keys := make([]string, 0, len(s.scenarios))
	for k := range s.scenarios {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]domain.Scenario, 0, len(keys))
	for _, k := range keys {
		out = append(out, s.scenarios[k])
	}
	return out, nil
}

func (s *stubScenarioRepo) GetScenario(ctx context.Context, key string) (domain.Scenario, error) {
	sc, ok := s.scenarios[key]
	if !ok {
		return domain.Scenario{}, fmt.Errorf("stub: %q: %w", key, domain.ErrScenarioNotFound)
	}
	return sc, nil
}

type testDeps struct {
	geocoder *geocode.MockGeocoder
	hours    *places.MockHoursProvider
	travel   *travel.MockTravelProvider
	finder   *places.MockRestaurantFinder
	repo     *stubScenarioRepo
}

func newTestRouter(t *testing.T) (http.Handler, *testDeps) {
	t.Helper()

	d := &testDeps{
		geocoder: geocode.NewMockGeocoder(),
		hours:    &places.MockHoursProvider{},
		travel:   &travel.MockTravelProvider{Leg: 10},
		finder:   places.NewMockRestaurantFinder(),
		repo:     &stubScenarioRepo{scenarios: map[string]domain.Scenario{}},
	}
	planner := services.NewPlanner(nil, d.geocoder, d.hours, d.travel, d.finder, services.DefaultMealPolicy())

	router := NewRouter(RouterDeps{
		Geocoder:  d.geocoder,
		Hours:     d.hours,
		Travel:    d.travel,
		Finder:    d.finder,
		Scenarios: d.repo,
		Planner:   planner,
	})
	return router, d
}

func doRequest(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthRoute(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(router, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("X-Request-ID"); got == "" {
		t.Error("missing X-Request-ID header")
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %q, want status ok", rec.Body.String())
	}
}

func TestMethodScoping(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(router, http.MethodPut, "/api/itineraries", "{}")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestBuildItinerary(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{
		"locations": [
			{"name": "Hotel", "open_time": 0, "close_time": 1440, "duration": 0, "lat": 48.851, "lon": 2.327},
			{"name": "Museum", "open_time": 540, "close_time": 1080, "duration": 60, "lat": 48.8599, "lon": 2.3266}
		],
		"start_idx": 0,
		"start_time": 540
	}`
	rec := doRequest(router, http.MethodPost, "/api/itineraries", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}

	var res dto.ItineraryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(res.Stops) < 2 {
		t.Fatalf("got %d stops, want at least hotel and museum", len(res.Stops))
	}
	if res.Stops[0].Name != "Hotel" {
		t.Errorf("first stop = %q, want Hotel", res.Stops[0].Name)
	}
	if res.Stops[0].Time != "9:00 AM" {
		t.Errorf("first stop time = %q, want 9:00 AM", res.Stops[0].Time)
	}
	if res.Summary.TotalStops != len(res.Stops) {
		t.Errorf("summary total_stops = %d, want %d", res.Summary.TotalStops, len(res.Stops))
	}
	if res.StartTimeMinutes != 540 {
		t.Errorf("start_time_minutes = %d, want 540", res.StartTimeMinutes)
	}
	// A full day ends with dinner when a finder is available.
	if res.Dinner == nil {
		t.Error("expected a dinner record")
	}
	if res.GoogleMapsURL == "" {
		t.Error("expected a maps url")
	}
}

func TestBuildItineraryValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	cases := []struct {
		name string
		body string
		want string
	}{
		{"empty locations", `{"locations": []}`, "locations must not be empty"},
		{"unknown field", `{"locations": [{"name": "X"}], "surprise": 1}`, "invalid json body"},
		{"two json values", `{"locations": [{"name": "X"}]}{}`, "only one JSON object"},
		{"bad lunch duration", `{"locations": [{"name": "X", "close_time": 1440, "lat": 1, "lon": 1}], "lunch_duration": 45}`, "lunch_duration must be 60 or 90"},
		{"start index out of range", `{"locations": [{"name": "X", "close_time": 1440, "lat": 1, "lon": 1}], "start_idx": 7}`, "out of range"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(router, http.MethodPost, "/api/itineraries", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400; body: %s", rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tc.want) {
				t.Errorf("body = %q, want mention of %q", rec.Body.String(), tc.want)
			}
		})
	}
}

func TestPlanItinerary(t *testing.T) {
	router, d := newTestRouter(t)

	d.geocoder.Add("Grand Hotel, Testville",
		domain.Place{Name: "Grand Hotel", Address: "1 Plaza Way", Coords: domain.Coordinates{Lat: 48.851, Lon: 2.327}})
	d.geocoder.Add("City Museum, Testville",
		domain.Place{Name: "City Museum", Address: "2 Museum Rd", Coords: domain.Coordinates{Lat: 48.8599, Lon: 2.3266}})

	body := `{"names": ["Grand Hotel", "City Museum", "Lost Cavern"], "city": "Testville", "start_time": 540}`
	rec := doRequest(router, http.MethodPost, "/api/itineraries/plan", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}

	var res dto.ItineraryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "Lost Cavern") {
		t.Errorf("warnings = %v, want one mentioning Lost Cavern", res.Warnings)
	}
	if res.Stops[0].Name != "Grand Hotel" {
		t.Errorf("first stop = %q, want Grand Hotel", res.Stops[0].Name)
	}
}

func TestPlanItineraryUnresolvableStart(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"names": ["Nowhere Inn"], "city": "Testville"}`
	rec := doRequest(router, http.MethodPost, "/api/itineraries/plan", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Nowhere Inn") {
		t.Errorf("body = %q, want the failing name", rec.Body.String())
	}
}

func TestSearchLocationsRoute(t *testing.T) {
	router, d := newTestRouter(t)
	d.geocoder.Add("eiffel tower",
		domain.Place{Name: "Eiffel Tower", Address: "Paris", Coords: domain.Coordinates{Lat: 48.8584, Lon: 2.2945}, Kind: "attraction", Class: "tourism"})

	rec := doRequest(router, http.MethodGet, "/api/locations/search?query=eiffel+tower", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var res dto.SearchLocationsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(res.Results) != 1 || res.Results[0].Name != "Eiffel Tower" {
		t.Errorf("results = %+v, want the registered place", res.Results)
	}

	rec = doRequest(router, http.MethodGet, "/api/locations/search", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing query: status = %d, want 400", rec.Code)
	}
	rec = doRequest(router, http.MethodGet, "/api/locations/search?query=x&limit=99", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("oversized limit: status = %d, want 400", rec.Code)
	}
}

func TestOpeningHoursRoute(t *testing.T) {
	router, d := newTestRouter(t)
	d.hours.Windows = map[string]domain.TimeWindow{
		"Louvre Museum": {Open: 540, Close: 1080},
	}

	rec := doRequest(router, http.MethodGet, "/api/opening-hours?lat=48.86&lon=2.33&name=Louvre+Museum", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var res dto.OpeningHoursResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.OpenTime != 540 || res.CloseTime != 1080 {
		t.Errorf("window = [%d, %d), want [540, 1080)", res.OpenTime, res.CloseTime)
	}
	if res.OpenTimeText != "9:00 AM" || res.CloseTimeText != "6:00 PM" {
		t.Errorf("texts = %q/%q, want 9:00 AM/6:00 PM", res.OpenTimeText, res.CloseTimeText)
	}

	rec = doRequest(router, http.MethodGet, "/api/opening-hours?lat=abc&lon=2.33", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad lat: status = %d, want 400", rec.Code)
	}
	rec = doRequest(router, http.MethodGet, "/api/opening-hours?lat=95&lon=2.33", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("out-of-range lat: status = %d, want 400", rec.Code)
	}
}

func TestRestaurantsNearbyRoute(t *testing.T) {
	router, d := newTestRouter(t)
	*d.finder = *places.NewMockRestaurantFinder(
		domain.Restaurant{Name: "Le Bistro", Address: "3 Rue A", Coords: domain.Coordinates{Lat: 48.85, Lon: 2.35}, Window: domain.TimeWindow{Open: 660, Close: 1380}, DistanceMeters: 120},
		domain.Restaurant{Name: "Trattoria", Address: "5 Rue B", Coords: domain.Coordinates{Lat: 48.86, Lon: 2.34}, Window: domain.TimeWindow{Open: 720, Close: 1320}, DistanceMeters: 400},
	)

	rec := doRequest(router, http.MethodGet, "/api/restaurants/nearby?lat=48.85&lon=2.35&limit=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	var res dto.ListRestaurantsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(res.Restaurants) != 2 || res.Restaurants[0].Name != "Le Bistro" {
		t.Errorf("restaurants = %+v, want the two queued entries in order", res.Restaurants)
	}

	rec = doRequest(router, http.MethodGet, "/api/restaurants/nearby?lat=48.85&lon=2.35&radius=-5", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("negative radius: status = %d, want 400", rec.Code)
	}
}

func TestTravelMatrixRoute(t *testing.T) {
	router, d := newTestRouter(t)
	d.travel.Fixed = [][]int{{0, 7}, {8, 0}}

	body := `{"coordinates": [{"lat": 48.85, "lon": 2.35}, {"lat": 48.86, "lon": 2.34}]}`
	rec := doRequest(router, http.MethodPost, "/api/travel-matrix", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var res dto.TravelMatrixResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Matrix[0][1] != 7 || res.Matrix[1][0] != 8 {
		t.Errorf("matrix = %v, want the provider's values", res.Matrix)
	}

	rec = doRequest(router, http.MethodPost, "/api/travel-matrix", `{"coordinates": [{"lat": 1, "lon": 2}]}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("single coordinate: status = %d, want 400", rec.Code)
	}
}

func TestScenarioRoutes(t *testing.T) {
	router, d := newTestRouter(t)

	d.repo.scenarios["paris"] = domain.Scenario{
		Key:         "paris",
		City:        "Testville",
		StartMinute: 540,
		Entries: []domain.ScenarioEntry{
			{Name: "Grand Hotel", Duration: 0},
			{Name: "City Museum", Duration: 45},
		},
	}
	d.geocoder.Add("Grand Hotel, Testville",
		domain.Place{Name: "Grand Hotel", Address: "1 Plaza Way", Coords: domain.Coordinates{Lat: 48.851, Lon: 2.327}})
	d.geocoder.Add("City Museum, Testville",
		domain.Place{Name: "City Museum", Address: "2 Museum Rd", Coords: domain.Coordinates{Lat: 48.8599, Lon: 2.3266}})

	rec := doRequest(router, http.MethodGet, "/api/scenarios", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status = %d, want 200", rec.Code)
	}
	var list dto.ListScenariosResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Scenarios) != 1 || list.Scenarios[0].Stops != 2 {
		t.Errorf("list = %+v, want one scenario with 2 stops", list.Scenarios)
	}

	rec = doRequest(router, http.MethodGet, "/api/scenarios/paris", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get: status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	var sc dto.ScenarioResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &sc); err != nil {
		t.Fatalf("decode scenario: %v", err)
	}
	if len(sc.Locations) != 2 {
		t.Fatalf("got %d locations, want 2", len(sc.Locations))
	}
	// Fixture durations override the keyword-derived ones.
	if sc.Locations[1].Duration != 45 {
		t.Errorf("museum duration = %d, want the fixture's 45", sc.Locations[1].Duration)
	}
	if len(sc.TravelTime) != 2 || sc.TravelTime[0][1] != 10 {
		t.Errorf("travel matrix = %v, want 2x2 with mocked legs", sc.TravelTime)
	}
	if sc.StartTime != 540 || sc.StartIdx != 0 {
		t.Errorf("start = %d/%d, want 540/0", sc.StartTime, sc.StartIdx)
	}

	rec = doRequest(router, http.MethodGet, "/api/scenarios/atlantis", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown key: status = %d, want 404", rec.Code)
	}
}

package dto

// LocationPayload is one place in a build request. Lat/lon are pointers so
// a location with no coordinates is distinguishable from one at (0, 0);
// coordinates are required only when no travel matrix accompanies the
// request.
type LocationPayload struct {
	Name      string   `json:"name"`
	OpenTime  int      `json:"open_time"`
	CloseTime int      `json:"close_time"`
	Duration  int      `json:"duration"`
	Lat       *float64 `json:"lat,omitempty"`
	Lon       *float64 `json:"lon,omitempty"`
	Address   string   `json:"address,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

// BuildItineraryRequest plans a day over fully specified locations. An
// omitted travel_time matrix is filled from straight-line estimates; an
// omitted start_time defaults to 9:00 AM.
type BuildItineraryRequest struct {
	Locations     []LocationPayload `json:"locations"`
	TravelTime    [][]int           `json:"travel_time"`
	StartIdx      int               `json:"start_idx"`
	StartTime     int               `json:"start_time"`
	ReturnToStart bool              `json:"return_to_start"`
	LunchDuration int               `json:"lunch_duration"`
}

// PlanItineraryRequest plans a day from bare place names; names[0] is the
// lodging.
type PlanItineraryRequest struct {
	Names         []string `json:"names"`
	City          string   `json:"city"`
	StartTime     int      `json:"start_time"`
	ReturnToStart bool     `json:"return_to_start"`
	LunchDuration int      `json:"lunch_duration"`
}

type CoordinatesPayload struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// StopResponse is one timed stop. Minutes-since-midnight fields carry the
// machine view; time/duration strings carry the presentable one.
type StopResponse struct {
	Name            string   `json:"name"`
	ArrivalTime     int      `json:"arrival_time"`
	DepartureTime   int      `json:"departure_time"`
	Time            string   `json:"time"`
	Duration        string   `json:"duration"`
	DurationMinutes int      `json:"duration_minutes"`
	Address         string   `json:"address,omitempty"`
	OpenTime        int      `json:"open_time"`
	CloseTime       int      `json:"close_time"`
	Tags            []string `json:"tags,omitempty"`
	Meal            string   `json:"meal,omitempty"`
	Lat             *float64 `json:"lat,omitempty"`
	Lon             *float64 `json:"lon,omitempty"`
}

type MealTimeResponse struct {
	Time     int    `json:"time"`
	TimeText string `json:"time_text"`
	Location string `json:"location"`
	Address  string `json:"address,omitempty"`
}

type SkippedLocationResponse struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type ItinerarySummaryResponse struct {
	TotalStops int    `json:"total_stops"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Duration   string `json:"duration"`
}

type ItineraryResponse struct {
	Stops            []StopResponse            `json:"stops"`
	Lunch            *MealTimeResponse         `json:"lunch,omitempty"`
	Dinner           *MealTimeResponse         `json:"dinner,omitempty"`
	Skipped          []SkippedLocationResponse `json:"skipped,omitempty"`
	Warnings         []string                  `json:"warnings,omitempty"`
	StartTimeMinutes int                       `json:"start_time_minutes"`
	EndTimeMinutes   int                       `json:"end_time_minutes"`
	Summary          ItinerarySummaryResponse  `json:"summary"`
	Waypoints        []CoordinatesPayload      `json:"waypoints,omitempty"`
	GoogleMapsURL    string                    `json:"google_maps_url,omitempty"`
}

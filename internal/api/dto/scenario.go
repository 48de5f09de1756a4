package dto

type ScenarioSummaryResponse struct {
	Key       string `json:"key"`
	City      string `json:"city"`
	StartTime int    `json:"start_time"`
	Stops     int    `json:"stops"`
}

type ListScenariosResponse struct {
	Scenarios []ScenarioSummaryResponse `json:"scenarios"`
}

// ScenarioResponse is a materialized scenario: everything a client needs to
// issue a build request, resolved live from the stored entry names.
type ScenarioResponse struct {
	Key        string            `json:"key"`
	City       string            `json:"city"`
	Locations  []LocationPayload `json:"locations"`
	TravelTime [][]int           `json:"travel_time"`
	StartIdx   int               `json:"start_idx"`
	StartTime  int               `json:"start_time"`
	Warnings   []string          `json:"warnings,omitempty"`
}

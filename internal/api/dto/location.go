package dto

type PlaceResponse struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Kind    string  `json:"kind,omitempty"`
	Class   string  `json:"class,omitempty"`
	PlaceID string  `json:"place_id,omitempty"`
}

type SearchLocationsResponse struct {
	Results []PlaceResponse `json:"results"`
}

// OpeningHoursResponse reports a window in minutes since midnight plus its
// clock rendering.
type OpeningHoursResponse struct {
	Name          string `json:"name,omitempty"`
	OpenTime      int    `json:"open_time"`
	CloseTime     int    `json:"close_time"`
	OpenTimeText  string `json:"open_time_text"`
	CloseTimeText string `json:"close_time_text"`
}

type RestaurantResponse struct {
	Name           string  `json:"name"`
	Address        string  `json:"address"`
	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
	OpenTime       int     `json:"open_time"`
	CloseTime      int     `json:"close_time"`
	DistanceMeters int     `json:"distance_meters"`
}

type ListRestaurantsResponse struct {
	Restaurants []RestaurantResponse `json:"restaurants"`
}

type TravelMatrixRequest struct {
	Coordinates []CoordinatesPayload `json:"coordinates"`
}

type TravelMatrixResponse struct {
	Matrix [][]int `json:"matrix"`
}

package domain

import "math"

// Immutable geographic coordinates (latitude, longitude).
type Coordinates struct {
	Lat float64
	Lon float64
}

// Return coordinates as [lon, lat] for external routing API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// Valid reports whether the coordinates fall inside WGS84 bounds.
func (c Coordinates) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

const earthRadiusKm = 6371.0

// HaversineKm computes the great-circle distance between two points in kilometers.
func HaversineKm(a, b Coordinates) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// Assumed pace for straight-line legs, minutes per kilometer.
const estimatePaceMinPerKm = 1.2

// EstimateLegMinutes is the straight-line travel-time strategy: great-circle
// distance scaled by an assumed pace, floored at one minute. Legs that touch
// a synthesized stop have no row in the travel-time matrix, so this estimate
// is the only strategy available for them. Matrix-sourced times are preferred
// whenever both endpoints are input locations.
func EstimateLegMinutes(a, b Coordinates) int {
	minutes := int(HaversineKm(a, b) * estimatePaceMinPerKm)
	if minutes < 1 {
		return 1
	}
	return minutes
}

package services

import "strings"

// Default visit lengths in minutes, keyed on words that usually appear in
// the names of each attraction type. Lodging gets zero because it only
// anchors the day, nobody "visits" their own hotel.
const (
	museumVisitMinutes   = 180
	landmarkVisitMinutes = 90
	outdoorVisitMinutes  = 120
	defaultVisitMinutes  = 60
)

// DefaultVisitDuration guesses how long a visit to the named place takes
// when the caller did not supply a duration.
func DefaultVisitDuration(name string) int {
	switch n := strings.ToLower(name); {
	case containsAny(n, "hotel", "hostel"):
		return 0
	case containsAny(n, "museum", "gallery"):
		return museumVisitMinutes
	case containsAny(n, "tower", "monument", "arc"):
		return landmarkVisitMinutes
	case containsAny(n, "park", "garden", "canyon", "dam"):
		return outdoorVisitMinutes
	default:
		return defaultVisitMinutes
	}
}

// LocationTags derives a coarse presentation tag from a place name. A
// place carries at most one tag; names matching nothing stay untagged.
func LocationTags(name string) []string {
	switch n := strings.ToLower(name); {
	case containsAny(n, "museum", "gallery"):
		return []string{"Cultural"}
	case containsAny(n, "tower", "monument", "arc"):
		return []string{"Landmark"}
	case containsAny(n, "park", "garden", "canyon", "recreation"):
		return []string{"Nature"}
	default:
		return nil
	}
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

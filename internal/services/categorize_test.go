package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultVisitDuration(t *testing.T) {
	cases := []struct {
		name string
		want int
	}{
		{"The Louvre Museum", 180},
		{"National Gallery", 180},
		{"Eiffel Tower", 90},
		{"Washington Monument", 90},
		{"Arc de Triomphe", 90},
		{"Central Park", 120},
		{"Luxembourg Garden", 120},
		{"Grand Canyon Skywalk", 120},
		{"Hoover Dam", 120},
		{"Times Square", 60},
		{"Hotel Le Meurice", 0},
		{"Boston Backpackers Hostel", 0},
		// Lodging wins over any attraction keyword in the same name.
		{"Park Plaza Hotel", 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DefaultVisitDuration(tc.name), tc.name)
	}
}

func TestLocationTags(t *testing.T) {
	cases := []struct {
		name string
		want []string
	}{
		{"The Louvre Museum", []string{"Cultural"}},
		{"Tate Gallery", []string{"Cultural"}},
		{"Eiffel Tower", []string{"Landmark"}},
		{"Washington Monument", []string{"Landmark"}},
		{"Arc de Triomphe", []string{"Landmark"}},
		{"Central Park", []string{"Nature"}},
		{"Golden Gate Recreation Area", []string{"Nature"}},
		{"Times Square", nil},
		// At most one tag; the first matching category wins.
		{"Museum Tower", []string{"Cultural"}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, LocationTags(tc.name), tc.name)
	}
}

package domain

import "testing"

func TestFormatClock(t *testing.T) {
	cases := []struct {
		minute int
		want   string
	}{
		{0, "12:00 AM"},
		{540, "9:00 AM"},
		{660, "11:00 AM"},
		{720, "12:00 PM"},
		{765, "12:45 PM"},
		{1140, "7:00 PM"},
		{1439, "11:59 PM"},
	}

	for _, c := range cases {
		if got := FormatClock(c.minute); got != c.want {
			t.Errorf("FormatClock(%d) = %q, want %q", c.minute, got, c.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		minutes int
		want    string
	}{
		{0, "0 minutes"},
		{1, "1 minute"},
		{45, "45 minutes"},
		{60, "1 hour"},
		{61, "1 hour 1 minute"},
		{120, "2 hours"},
		{135, "2 hours 15 minutes"},
	}

	for _, c := range cases {
		if got := FormatDuration(c.minutes); got != c.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", c.minutes, got, c.want)
		}
	}
}

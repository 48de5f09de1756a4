package domain

import "fmt"

// FormatClock renders minutes from midnight as a 12-hour clock string,
// e.g. 540 → "9:00 AM", 765 → "12:45 PM".
func FormatClock(minute int) string {
	hours := minute / 60
	mins := minute % 60

	period := "AM"
	if hours >= 12 {
		period = "PM"
	}
	display := hours % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%02d %s", display, mins, period)
}

// FormatDuration renders a minute count as prose, e.g. 135 → "2 hours 15 minutes".
func FormatDuration(minutes int) string {
	hours := minutes / 60
	mins := minutes % 60

	switch {
	case hours > 0 && mins > 0:
		return fmt.Sprintf("%d %s %d %s", hours, plural(hours, "hour"), mins, plural(mins, "minute"))
	case hours > 0:
		return fmt.Sprintf("%d %s", hours, plural(hours, "hour"))
	default:
		return fmt.Sprintf("%d %s", mins, plural(mins, "minute"))
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}

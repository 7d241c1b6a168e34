// Package timeutil normalises the wall-clock and date string formats used
// by the roster engine: times are 24-hour "HH:MM" or "HH:MM:SS", dates are
// ISO "YYYY-MM-DD". ISO dates compare correctly as plain strings, so date
// arithmetic never leaves string space.
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
)

// MinuteOfDay parses a time-of-day string into minutes since midnight.
// Seconds, when present, are validated and truncated: roster comparisons
// work at minute precision.
func MinuteOfDay(raw string) (int, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid time %q", raw)
	}

	hour, err := parseComponent(parts[0], 23)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", raw, err)
	}
	minute, err := parseComponent(parts[1], 59)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", raw, err)
	}
	if len(parts) == 3 {
		if _, err := parseComponent(parts[2], 59); err != nil {
			return 0, fmt.Errorf("invalid time %q: %w", raw, err)
		}
	}

	return hour*60 + minute, nil
}

// Normalize returns the canonical "HH:MM:SS" form of a time-of-day string,
// or an error when the input does not parse.
func Normalize(raw string) (string, error) {
	minutes, err := MinuteOfDay(raw)
	if err != nil {
		return "", err
	}
	return FormatMinuteOfDay(minutes), nil
}

// FormatMinuteOfDay renders minutes since midnight as "HH:MM:SS".
func FormatMinuteOfDay(minutes int) string {
	return fmt.Sprintf("%02d:%02d:00", minutes/60, minutes%60)
}

// CompareDates orders two ISO date strings: -1 when a < b, 0 when equal,
// 1 when a > b.
func CompareDates(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

var weekdayNames = [7]string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

// WeekdayName returns the full English weekday name for 0 (Sunday) through
// 6 (Saturday), falling back to "Day N" for out-of-range values.
func WeekdayName(day int) string {
	if day >= 0 && day < len(weekdayNames) {
		return weekdayNames[day]
	}
	return "Day " + strconv.Itoa(day)
}

func parseComponent(raw string, max int) (int, error) {
	if len(raw) == 0 || len(raw) > 2 {
		return 0, fmt.Errorf("component %q must be one or two digits", raw)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("component %q is not numeric", raw)
	}
	if n < 0 || n > max {
		return 0, fmt.Errorf("component %q out of range", raw)
	}
	return n, nil
}

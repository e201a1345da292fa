// Package timezone provides the timezone helpers shared by the API and the CLI.
//
// Message times are resolved in one configured zone; event ranges and
// displayed times are expressed in the same zone.
package timezone

import (
	"fmt"
	"time"
)

// ParseTimezone parses an IANA timezone identifier (e.g., "Asia/Shanghai").
// An empty identifier means the local zone. If the timezone is invalid,
// returns time.Local and an error.
func ParseTimezone(tz string) (*time.Location, error) {
	switch tz {
	case "":
		return time.Local, nil
	case "UTC":
		return time.UTC, nil
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Local, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	return loc, nil
}

// StartOfDay returns the start of the day (00:00:00) in the given timezone.
func StartOfDay(t time.Time, tz *time.Location) time.Time {
	if tz == nil {
		tz = time.UTC
	}
	t = t.In(tz)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, tz)
}

// DefaultRange returns the range listed when callers give no bounds: from the
// start of today in tz, spanning window.
func DefaultRange(now time.Time, tz *time.Location, window time.Duration) (time.Time, time.Time) {
	start := StartOfDay(now, tz)
	return start, start.Add(window)
}

// FormatEventTime formats an event's time for display.
// Rules:
//   - Same day: "2006-01-02 15:04 - 16:00"
//   - Across days: "2006-01-02 15:04 - 2006-01-03 09:00"
func FormatEventTime(start, end time.Time, tz *time.Location) string {
	if tz == nil {
		tz = time.UTC
	}
	start, end = start.In(tz), end.In(tz)

	endLayout := "15:04"
	if !StartOfDay(start, tz).Equal(StartOfDay(end, tz)) {
		endLayout = "2006-01-02 15:04"
	}
	return fmt.Sprintf("%s - %s", start.Format("2006-01-02 15:04"), end.Format(endLayout))
}

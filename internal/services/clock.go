package services

import (
	"fmt"
	"time"
)

// Clock supplies "now" in the clinic's operating timezone. Every working
// hours check goes through this so tests can pin a deterministic time and
// production uses one canonical zone instead of the server's local one.
type Clock interface {
	Now() time.Time
}

type clinicClock struct {
	location *time.Location
}

// NewClinicClock builds a Clock pinned to the named IANA timezone.
func NewClinicClock(zone string) (Clock, error) {
	location, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("invalid clinic timezone %q: %w", zone, err)
	}
	return &clinicClock{location: location}, nil
}

func (c *clinicClock) Now() time.Time {
	return time.Now().In(c.location)
}

// parseTimeOfDay parses an "HH:MM" string into minutes since midnight.
func parseTimeOfDay(value string) (int, error) {
	parsed, err := time.Parse("15:04", value)
	if err != nil {
		return 0, err
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

// minuteOfDay truncates a timestamp to minutes since midnight, dropping
// seconds and sub-second noise carried by stored bookings.
func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// formatMinutes renders minutes since midnight as "HH:MM".
func formatMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

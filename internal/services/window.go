package services

import (
	"medconnect-server/internal/models"
)

// ValidWindow reports whether the pair of "HH:MM" strings forms a
// well-ordered daily window.
func ValidWindow(from, to string) bool {
	fromMinute, err := parseTimeOfDay(from)
	if err != nil {
		return false
	}
	toMinute, err := parseTimeOfDay(to)
	if err != nil {
		return false
	}
	return fromMinute < toMinute
}

// doctorWindow parses the doctor's daily availability window into minutes
// since midnight. It fails closed when the window is unset or malformed,
// so a misconfigured doctor can never be booked.
func doctorWindow(doctor *models.DoctorProfile) (int, int, error) {
	if !doctor.HasAvailability() {
		return 0, 0, UnprocessableError("doctor has no availability configured")
	}
	from, err := parseTimeOfDay(*doctor.AvailableFrom)
	if err != nil {
		return 0, 0, UnprocessableError("doctor availability window is malformed")
	}
	to, err := parseTimeOfDay(*doctor.AvailableTo)
	if err != nil {
		return 0, 0, UnprocessableError("doctor availability window is malformed")
	}
	if from >= to {
		return 0, 0, UnprocessableError("doctor availability window is malformed")
	}
	return from, to, nil
}

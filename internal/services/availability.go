package services

import (
	"time"
)

// AvailabilityService computes a doctor's free time slots for a date from
// the doctor's daily working window and existing bookings.
type AvailabilityService struct {
	store    Store
	clock    Clock
	interval time.Duration
}

// NewAvailabilityService creates an AvailabilityService with the given
// slot granularity.
func NewAvailabilityService(store Store, clock Clock, intervalMinutes int) *AvailabilityService {
	return &AvailabilityService{
		store:    store,
		clock:    clock,
		interval: time.Duration(intervalMinutes) * time.Minute,
	}
}

// AvailableSlotsResult is the resolved slot list for a doctor and date.
type AvailableSlotsResult struct {
	DoctorID       string   `json:"doctorId"`
	Date           string   `json:"date"`
	AvailableSlots []string `json:"availableSlots"`
}

// AvailableSlots resolves the free "HH:MM" start times for the doctor on
// the given "2006-01-02" date; an empty date means today in the clinic
// timezone. Booked non-cancelled consultations are matched on hour:minute
// so stored seconds or timezone noise cannot hide a conflict.
func (s *AvailabilityService) AvailableSlots(doctorID, date string) (*AvailableSlotsResult, error) {
	doctor, err := s.store.FindDoctor(doctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, NotFoundError("doctor not found")
	}

	windowFrom, windowTo, err := doctorWindow(doctor)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	targetDate := now
	if date != "" {
		targetDate, err = time.ParseInLocation("2006-01-02", date, now.Location())
		if err != nil {
			return nil, UnprocessableError("invalid date, expected YYYY-MM-DD")
		}
	}
	isToday := targetDate.Year() == now.Year() && targetDate.YearDay() == now.YearDay()

	// Grid of candidate start times, strictly before closing.
	step := int(s.interval / time.Minute)
	var candidates []int
	for minute := windowFrom; minute < windowTo; minute += step {
		candidates = append(candidates, minute)
	}
	if len(candidates) == 0 {
		// A configured window that produces no slots is a configuration
		// error upstream, not an empty result.
		return nil, UnprocessableError("doctor availability window yields no slots")
	}

	booked, err := s.bookedMinutes(doctorID, targetDate)
	if err != nil {
		return nil, err
	}

	nowMinute := minuteOfDay(now)
	var slots []string
	for _, minute := range candidates {
		if isToday && minute <= nowMinute {
			continue
		}
		if booked[minute] {
			continue
		}
		slots = append(slots, formatMinutes(minute))
	}

	return &AvailableSlotsResult{
		DoctorID:       doctorID,
		Date:           targetDate.Format("2006-01-02"),
		AvailableSlots: slots,
	}, nil
}

func (s *AvailabilityService) bookedMinutes(doctorID string, date time.Time) (map[int]bool, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	consultations, err := s.store.ScheduledBetween(doctorID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	booked := make(map[int]bool, len(consultations))
	for _, consultation := range consultations {
		if consultation.ScheduledAt == nil {
			continue
		}
		booked[minuteOfDay(consultation.ScheduledAt.In(date.Location()))] = true
	}
	return booked, nil
}

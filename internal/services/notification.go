package services

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"medconnect-server/internal/models"
)

// Notifier is a delivery channel (push, email, SMS, WhatsApp). Channel
// mechanics live behind this interface; a Send failure is always caught
// by the dispatcher and never reaches the triggering operation.
type Notifier interface {
	Send(recipient *models.User, kind models.NotificationKind, title, body string) error
}

// LogNotifier is the fallback delivery channel: it writes the
// notification to the structured log. Real channel adapters are wired in
// alongside it in main.
type LogNotifier struct {
	Logger zerolog.Logger
}

func (n *LogNotifier) Send(recipient *models.User, kind models.NotificationKind, title, body string) error {
	n.Logger.Info().
		Str("recipient_id", recipient.ID).
		Str("phone", recipient.PhoneNumber).
		Str("kind", string(kind)).
		Str("title", title).
		Str("body", body).
		Msg("notification dispatched")
	return nil
}

// NotificationService decides when and to whom notifications fire. The
// in-app Notification row doubles as the idempotency ledger, so reminder
// and arrival sweeps send each recipient at most one message per
// consultation and kind.
type NotificationService struct {
	store          Store
	clock          Clock
	notifiers      []Notifier
	logger         zerolog.Logger
	reminderLead   time.Duration
	reminderWindow time.Duration
	arrivalWindow  time.Duration
}

// NotificationConfig carries the sweep windows in minutes.
type NotificationConfig struct {
	ReminderLeadMinutes   int
	ReminderWindowMinutes int
	ArrivalWindowMinutes  int
}

// NewNotificationService creates a NotificationService fanning out to the
// given channels.
func NewNotificationService(store Store, clock Clock, cfg NotificationConfig, logger zerolog.Logger, notifiers ...Notifier) *NotificationService {
	return &NotificationService{
		store:          store,
		clock:          clock,
		notifiers:      notifiers,
		logger:         logger,
		reminderLead:   time.Duration(cfg.ReminderLeadMinutes) * time.Minute,
		reminderWindow: time.Duration(cfg.ReminderWindowMinutes) * time.Minute,
		arrivalWindow:  time.Duration(cfg.ArrivalWindowMinutes) * time.Minute,
	}
}

// NotifyBooked tells the doctor about a new consultation request. Errors
// are logged and swallowed: the booking is already committed.
func (s *NotificationService) NotifyBooked(consultation *models.Consultation, patient *models.PatientProfile, doctor *models.DoctorProfile) {
	title := "New consultation request"
	body := fmt.Sprintf("%s requested a %s consultation", patient.FullName, consultation.CallMode)
	if consultation.ScheduledAt != nil {
		body = fmt.Sprintf("%s for %s", body, consultation.ScheduledAt.Format("2006-01-02 15:04"))
	}
	s.deliver(consultation.ID, doctor.UserID, models.NotificationBookingRequest, title, body)
}

// SweepReminders notifies both parties of consultations whose scheduled
// time enters the look-ahead window. Safe to run repeatedly; already
// notified recipients are skipped.
func (s *NotificationService) SweepReminders() error {
	now := s.clock.Now()
	from := now.Add(s.reminderLead)
	to := from.Add(s.reminderWindow)

	due, err := s.store.DueScheduled(from, to)
	if err != nil {
		return fmt.Errorf("reminder sweep query: %w", err)
	}
	for _, consultation := range due {
		title := "Upcoming consultation"
		body := fmt.Sprintf("Your consultation is scheduled for %s", consultation.ScheduledAt.Format("15:04"))
		s.deliver(consultation.ID, consultation.Patient.UserID, models.NotificationReminder, title, body)
		s.deliver(consultation.ID, consultation.Doctor.UserID, models.NotificationReminder, title, body)
	}
	return nil
}

// SweepArrivals notifies both parties that a consultation's scheduled
// time has arrived, within a narrow window around it.
func (s *NotificationService) SweepArrivals() error {
	now := s.clock.Now()
	from := now.Add(-s.arrivalWindow)
	to := now.Add(s.arrivalWindow)

	due, err := s.store.DueScheduled(from, to)
	if err != nil {
		return fmt.Errorf("arrival sweep query: %w", err)
	}
	for _, consultation := range due {
		title := "Consultation time"
		body := "Your consultation time has arrived, you can join the call now"
		s.deliver(consultation.ID, consultation.Patient.UserID, models.NotificationArrival, title, body)
		s.deliver(consultation.ID, consultation.Doctor.UserID, models.NotificationArrival, title, body)
	}
	return nil
}

// deliver records the in-app notification (which also claims the dedup
// key) and fans out to every channel. Each recipient and channel is
// handled independently so one failure cannot block the others.
func (s *NotificationService) deliver(consultationID, recipientID string, kind models.NotificationKind, title, body string) {
	exists, err := s.store.NotificationExists(consultationID, recipientID, kind)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("consultation_id", consultationID).
			Str("recipient_id", recipientID).
			Msg("notification dedup check failed")
		return
	}
	if exists {
		return
	}

	record := &models.Notification{
		ConsultationID: consultationID,
		RecipientID:    recipientID,
		Kind:           kind,
		Title:          title,
		Body:           body,
	}
	if err := s.store.CreateNotification(record); err != nil {
		// A unique index violation here means a concurrent sweep won the
		// race; either way the recipient is covered.
		s.logger.Warn().Err(err).
			Str("consultation_id", consultationID).
			Str("recipient_id", recipientID).
			Msg("notification record insert failed")
		return
	}

	recipient, err := s.store.FindUser(recipientID)
	if err != nil || recipient == nil {
		s.logger.Warn().Err(err).
			Str("recipient_id", recipientID).
			Msg("notification recipient lookup failed")
		return
	}

	for _, notifier := range s.notifiers {
		if err := notifier.Send(recipient, kind, title, body); err != nil {
			s.logger.Warn().Err(err).
				Str("consultation_id", consultationID).
				Str("recipient_id", recipientID).
				Str("kind", string(kind)).
				Msg("notification channel send failed")
		}
	}
}

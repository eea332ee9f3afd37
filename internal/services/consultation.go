package services

import (
	"time"

	"github.com/rs/zerolog"

	"medconnect-server/internal/models"
)

// ConsultationService owns consultation booking and the
// pending -> in_progress -> completed lifecycle.
type ConsultationService struct {
	store         Store
	clock         Clock
	notifications *NotificationService
	logger        zerolog.Logger
}

// NewConsultationService creates a ConsultationService.
func NewConsultationService(store Store, clock Clock, notifications *NotificationService, logger zerolog.Logger) *ConsultationService {
	return &ConsultationService{
		store:         store,
		clock:         clock,
		notifications: notifications,
		logger:        logger,
	}
}

// BookInput is a validated booking request.
type BookInput struct {
	DoctorID    string
	CallMode    models.CallMode
	ScheduledAt *time.Time
}

// BookResult carries the created consultation; DoctorPhone is surfaced
// only for call_now bookings so the caller can place the call out of band.
type BookResult struct {
	Consultation *models.Consultation `json:"consultation"`
	DoctorPhone  string               `json:"doctorPhone,omitempty"`
}

// Book validates and creates a consultation. All checks and the insert run
// in one transaction; the doctor notification fires after commit and its
// failure never unwinds the booking.
func (s *ConsultationService) Book(identity Identity, input BookInput) (*BookResult, error) {
	var result BookResult
	var patient *models.PatientProfile
	var doctor *models.DoctorProfile

	err := s.store.InTransaction(func(tx Store) error {
		var err error
		doctor, err = tx.FindDoctor(input.DoctorID)
		if err != nil {
			return err
		}
		if doctor == nil {
			return NotFoundError("doctor not found")
		}

		if identity.UserID == "" {
			return UnauthenticatedError("authentication required")
		}
		patient, err = tx.FindPatientByUser(identity.UserID)
		if err != nil {
			return err
		}
		if patient == nil {
			return NotFoundError("no patient profile linked to this account")
		}

		if input.CallMode != models.CallModeNow && input.CallMode != models.CallModeSchedule {
			return UnprocessableError("unknown call mode")
		}
		if input.CallMode == models.CallModeSchedule && input.ScheduledAt == nil {
			return UnprocessableError("scheduled_at is required for scheduled consultations")
		}

		now := s.clock.Now()

		if input.ScheduledAt != nil {
			from, to, err := doctorWindow(doctor)
			if err != nil {
				return err
			}
			minute := minuteOfDay(input.ScheduledAt.In(now.Location()))
			if minute < from || minute > to {
				return UnprocessableError("requested time is outside the doctor's working hours")
			}
		}

		if input.CallMode == models.CallModeNow {
			from, to, err := doctorWindow(doctor)
			if err != nil {
				return err
			}
			minute := minuteOfDay(now)
			if minute < from || minute > to {
				return ConflictError("doctor is not available right now")
			}
			busy, err := tx.ActiveCallNowExists(doctor.ID)
			if err != nil {
				return err
			}
			if busy {
				return ConflictError("doctor is currently busy")
			}
		}

		consultation := &models.Consultation{
			PatientID: patient.ID,
			DoctorID:  doctor.ID,
			CallMode:  input.CallMode,
			Status:    models.ConsultationPending,
		}
		if input.CallMode == models.CallModeNow {
			startTime := now
			consultation.StartTime = &startTime
		} else {
			scheduledAt := input.ScheduledAt.In(now.Location()).Truncate(time.Minute)
			taken, err := tx.ScheduledSlotTaken(doctor.ID, scheduledAt)
			if err != nil {
				return err
			}
			if taken {
				return ConflictError("this slot is already booked")
			}
			consultation.ScheduledAt = &scheduledAt
		}

		if err := tx.CreateConsultation(consultation); err != nil {
			return err
		}
		result.Consultation = consultation
		return nil
	})
	if err != nil {
		return nil, err
	}

	if input.CallMode == models.CallModeNow {
		result.DoctorPhone = doctor.Phone
	}

	// Best-effort; the booking is the durable fact.
	s.notifications.NotifyBooked(result.Consultation, patient, doctor)

	return &result, nil
}

// StartResult reports who triggered the transition and whether the caller
// joined a call the other party already started.
type StartResult struct {
	Consultation *models.Consultation `json:"consultation"`
	IsJoining    bool                 `json:"isJoining"`
	Role         models.Role          `json:"role"`
}

// Start transitions a pending consultation to in_progress. Either party
// may call it; if the other party started first the caller joins instead,
// which is reported rather than rejected.
func (s *ConsultationService) Start(identity Identity, consultationID string) (*StartResult, error) {
	var result StartResult

	err := s.store.InTransaction(func(tx Store) error {
		consultation, role, err := s.findForParty(tx, identity, consultationID)
		if err != nil {
			return err
		}
		result.Role = role

		if consultation.Status == models.ConsultationInProgress {
			result.Consultation = consultation
			result.IsJoining = true
			return nil
		}
		if consultation.Status != models.ConsultationPending {
			return ConflictError("consultation cannot be started in its current state")
		}

		now := s.clock.Now()
		if consultation.CallMode == models.CallModeSchedule {
			if consultation.ScheduledAt == nil {
				return UnprocessableError("scheduled consultation has no scheduled time")
			}
			if now.Before(*consultation.ScheduledAt) {
				return ConflictError("the scheduled time has not arrived yet")
			}
		}

		consultation.Status = models.ConsultationInProgress
		if consultation.StartTime == nil {
			consultation.StartTime = &now
		}
		if err := tx.SaveConsultation(consultation); err != nil {
			return err
		}
		result.Consultation = consultation
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("consultation_id", consultationID).
		Str("role", string(result.Role)).
		Bool("is_joining", result.IsJoining).
		Msg("consultation started")
	return &result, nil
}

// EndResult reports which role completed the consultation.
type EndResult struct {
	Consultation *models.Consultation `json:"consultation"`
	EndedBy      models.Role          `json:"endedBy"`
}

// End transitions an in_progress consultation to completed. No transition
// out of completed is permitted.
func (s *ConsultationService) End(identity Identity, consultationID string) (*EndResult, error) {
	var result EndResult

	err := s.store.InTransaction(func(tx Store) error {
		consultation, role, err := s.findForParty(tx, identity, consultationID)
		if err != nil {
			return err
		}

		if consultation.Status != models.ConsultationInProgress {
			return ConflictError("only an in-progress consultation can be ended")
		}

		consultation.Status = models.ConsultationCompleted
		if err := tx.SaveConsultation(consultation); err != nil {
			return err
		}
		result.Consultation = consultation
		result.EndedBy = role
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("consultation_id", consultationID).
		Str("ended_by", string(result.EndedBy)).
		Msg("consultation ended")
	return &result, nil
}

// List returns the caller's own consultations.
func (s *ConsultationService) List(identity Identity) ([]models.Consultation, error) {
	switch {
	case identity.IsDoctor():
		return s.store.ConsultationsForDoctor(identity.DoctorID)
	case identity.IsPatient():
		return s.store.ConsultationsForPatient(identity.PatientID)
	default:
		return nil, ForbiddenError("no doctor or patient profile linked to this account")
	}
}

// findForParty looks the consultation up scoped to the caller's own
// doctor or patient id, so one party can never act on another's record.
func (s *ConsultationService) findForParty(tx Store, identity Identity, consultationID string) (*models.Consultation, models.Role, error) {
	switch {
	case identity.IsDoctor():
		consultation, err := tx.FindConsultationForDoctor(consultationID, identity.DoctorID)
		if err != nil {
			return nil, "", err
		}
		if consultation == nil {
			return nil, "", NotFoundError("consultation not found")
		}
		return consultation, models.RoleDoctor, nil
	case identity.IsPatient():
		consultation, err := tx.FindConsultationForPatient(consultationID, identity.PatientID)
		if err != nil {
			return nil, "", err
		}
		if consultation == nil {
			return nil, "", NotFoundError("consultation not found")
		}
		return consultation, models.RolePatient, nil
	default:
		return nil, "", ForbiddenError("no doctor or patient profile linked to this account")
	}
}

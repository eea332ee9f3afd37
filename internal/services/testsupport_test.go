package services

import (
	"fmt"
	"time"

	"medconnect-server/internal/models"
)

// fixedClock pins "now" so working-hours checks are deterministic.
type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

// fakeStore is an in-memory Store for exercising the services without a
// database.
type fakeStore struct {
	users         map[string]*models.User
	doctors       map[string]*models.DoctorProfile
	patients      map[string]*models.PatientProfile
	consultations map[string]*models.Consultation
	notifications []*models.Notification
	nextID        int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:         make(map[string]*models.User),
		doctors:       make(map[string]*models.DoctorProfile),
		patients:      make(map[string]*models.PatientProfile),
		consultations: make(map[string]*models.Consultation),
	}
}

func (s *fakeStore) id(prefix string) string {
	s.nextID++
	return fmt.Sprintf("%s-%d", prefix, s.nextID)
}

func (s *fakeStore) addUser(role models.Role, name string) *models.User {
	user := &models.User{FirstName: name, Role: role}
	user.ID = s.id("user")
	s.users[user.ID] = user
	return user
}

func (s *fakeStore) addDoctor(name, phone string, from, to *string) *models.DoctorProfile {
	user := s.addUser(models.RoleDoctor, name)
	doctor := &models.DoctorProfile{
		UserID:        user.ID,
		FullName:      name,
		Phone:         phone,
		AvailableFrom: from,
		AvailableTo:   to,
	}
	doctor.ID = s.id("doctor")
	s.doctors[doctor.ID] = doctor
	return doctor
}

func (s *fakeStore) addPatient(name string) *models.PatientProfile {
	user := s.addUser(models.RolePatient, name)
	patient := &models.PatientProfile{UserID: user.ID, FullName: name}
	patient.ID = s.id("patient")
	s.patients[patient.ID] = patient
	return patient
}

func (s *fakeStore) FindUser(id string) (*models.User, error) {
	return s.users[id], nil
}

func (s *fakeStore) FindDoctor(id string) (*models.DoctorProfile, error) {
	return s.doctors[id], nil
}

func (s *fakeStore) FindDoctorByUser(userID string) (*models.DoctorProfile, error) {
	for _, doctor := range s.doctors {
		if doctor.UserID == userID {
			return doctor, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) FindPatientByUser(userID string) (*models.PatientProfile, error) {
	for _, patient := range s.patients {
		if patient.UserID == userID {
			return patient, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) CreateConsultation(consultation *models.Consultation) error {
	if consultation.ID == "" {
		consultation.ID = s.id("consultation")
	}
	s.consultations[consultation.ID] = consultation
	return nil
}

func (s *fakeStore) SaveConsultation(consultation *models.Consultation) error {
	s.consultations[consultation.ID] = consultation
	return nil
}

func (s *fakeStore) FindConsultationForDoctor(id, doctorID string) (*models.Consultation, error) {
	consultation := s.consultations[id]
	if consultation == nil || consultation.DoctorID != doctorID {
		return nil, nil
	}
	return consultation, nil
}

func (s *fakeStore) FindConsultationForPatient(id, patientID string) (*models.Consultation, error) {
	consultation := s.consultations[id]
	if consultation == nil || consultation.PatientID != patientID {
		return nil, nil
	}
	return consultation, nil
}

func (s *fakeStore) ConsultationsForDoctor(doctorID string) ([]models.Consultation, error) {
	var out []models.Consultation
	for _, consultation := range s.consultations {
		if consultation.DoctorID == doctorID {
			out = append(out, *consultation)
		}
	}
	return out, nil
}

func (s *fakeStore) ConsultationsForPatient(patientID string) ([]models.Consultation, error) {
	var out []models.Consultation
	for _, consultation := range s.consultations {
		if consultation.PatientID == patientID {
			out = append(out, *consultation)
		}
	}
	return out, nil
}

func (s *fakeStore) ScheduledBetween(doctorID string, from, to time.Time) ([]models.Consultation, error) {
	var out []models.Consultation
	for _, consultation := range s.consultations {
		if consultation.DoctorID != doctorID ||
			consultation.CallMode != models.CallModeSchedule ||
			consultation.Status == models.ConsultationCancelled ||
			consultation.ScheduledAt == nil {
			continue
		}
		at := *consultation.ScheduledAt
		if !at.Before(from) && at.Before(to) {
			out = append(out, *consultation)
		}
	}
	return out, nil
}

func (s *fakeStore) ScheduledSlotTaken(doctorID string, at time.Time) (bool, error) {
	for _, consultation := range s.consultations {
		if consultation.DoctorID == doctorID &&
			consultation.Status != models.ConsultationCancelled &&
			consultation.ScheduledAt != nil &&
			consultation.ScheduledAt.Equal(at) {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) ActiveCallNowExists(doctorID string) (bool, error) {
	for _, consultation := range s.consultations {
		if consultation.DoctorID == doctorID &&
			consultation.CallMode == models.CallModeNow &&
			consultation.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) DueScheduled(from, to time.Time) ([]models.Consultation, error) {
	var out []models.Consultation
	for _, consultation := range s.consultations {
		if consultation.CallMode != models.CallModeSchedule ||
			consultation.Status != models.ConsultationPending ||
			consultation.ScheduledAt == nil {
			continue
		}
		at := *consultation.ScheduledAt
		if !at.Before(from) && !at.After(to) {
			copied := *consultation
			if patient := s.patients[copied.PatientID]; patient != nil {
				copied.Patient = *patient
			}
			if doctor := s.doctors[copied.DoctorID]; doctor != nil {
				copied.Doctor = *doctor
			}
			out = append(out, copied)
		}
	}
	return out, nil
}

func (s *fakeStore) NotificationExists(consultationID, recipientID string, kind models.NotificationKind) (bool, error) {
	for _, notification := range s.notifications {
		if notification.ConsultationID == consultationID &&
			notification.RecipientID == recipientID &&
			notification.Kind == kind {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) CreateNotification(notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = s.id("notification")
	}
	s.notifications = append(s.notifications, notification)
	return nil
}

func (s *fakeStore) InTransaction(fn func(Store) error) error {
	return fn(s)
}

func timeOfDay(value string) *string {
	return &value
}

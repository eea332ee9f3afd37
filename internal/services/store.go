package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"medconnect-server/internal/models"
)

// Store is the persistence surface the core services depend on. The gorm
// implementation below is the production one; tests substitute in-memory
// fakes. Lookup methods return (nil, nil) when the record does not exist
// so services own the error taxonomy.
type Store interface {
	FindUser(id string) (*models.User, error)
	FindDoctor(id string) (*models.DoctorProfile, error)
	FindDoctorByUser(userID string) (*models.DoctorProfile, error)
	FindPatientByUser(userID string) (*models.PatientProfile, error)

	CreateConsultation(consultation *models.Consultation) error
	SaveConsultation(consultation *models.Consultation) error
	FindConsultationForDoctor(id, doctorID string) (*models.Consultation, error)
	FindConsultationForPatient(id, patientID string) (*models.Consultation, error)
	ConsultationsForDoctor(doctorID string) ([]models.Consultation, error)
	ConsultationsForPatient(patientID string) ([]models.Consultation, error)

	// ScheduledBetween returns non-cancelled scheduled consultations for a
	// doctor with scheduled_at in [from, to).
	ScheduledBetween(doctorID string, from, to time.Time) ([]models.Consultation, error)
	// ScheduledSlotTaken reports whether a non-cancelled consultation for
	// the doctor already holds the exact timestamp.
	ScheduledSlotTaken(doctorID string, at time.Time) (bool, error)
	// ActiveCallNowExists reports whether the doctor has a call_now
	// consultation still in pending or in_progress.
	ActiveCallNowExists(doctorID string) (bool, error)
	// DueScheduled returns pending schedule-mode consultations (any doctor)
	// with scheduled_at in [from, to], relations preloaded.
	DueScheduled(from, to time.Time) ([]models.Consultation, error)

	NotificationExists(consultationID, recipientID string, kind models.NotificationKind) (bool, error)
	CreateNotification(notification *models.Notification) error

	// InTransaction runs fn against a Store scoped to one database
	// transaction; fn returning an error rolls everything back.
	InTransaction(fn func(Store) error) error
}

// GormStore implements Store on top of gorm.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a Store backed by the given gorm connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) FindUser(id string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, ignoreNotFound(err)
	}
	return &user, nil
}

func (s *GormStore) FindDoctor(id string) (*models.DoctorProfile, error) {
	var doctor models.DoctorProfile
	if err := s.db.First(&doctor, "id = ?", id).Error; err != nil {
		return nil, ignoreNotFound(err)
	}
	return &doctor, nil
}

func (s *GormStore) FindDoctorByUser(userID string) (*models.DoctorProfile, error) {
	var doctor models.DoctorProfile
	if err := s.db.First(&doctor, "user_id = ?", userID).Error; err != nil {
		return nil, ignoreNotFound(err)
	}
	return &doctor, nil
}

func (s *GormStore) FindPatientByUser(userID string) (*models.PatientProfile, error) {
	var patient models.PatientProfile
	if err := s.db.First(&patient, "user_id = ?", userID).Error; err != nil {
		return nil, ignoreNotFound(err)
	}
	return &patient, nil
}

func (s *GormStore) CreateConsultation(consultation *models.Consultation) error {
	return s.db.Create(consultation).Error
}

func (s *GormStore) SaveConsultation(consultation *models.Consultation) error {
	return s.db.Save(consultation).Error
}

func (s *GormStore) FindConsultationForDoctor(id, doctorID string) (*models.Consultation, error) {
	var consultation models.Consultation
	err := s.db.First(&consultation, "id = ? AND doctor_id = ?", id, doctorID).Error
	if err != nil {
		return nil, ignoreNotFound(err)
	}
	return &consultation, nil
}

func (s *GormStore) FindConsultationForPatient(id, patientID string) (*models.Consultation, error) {
	var consultation models.Consultation
	err := s.db.First(&consultation, "id = ? AND patient_id = ?", id, patientID).Error
	if err != nil {
		return nil, ignoreNotFound(err)
	}
	return &consultation, nil
}

func (s *GormStore) ConsultationsForDoctor(doctorID string) ([]models.Consultation, error) {
	var consultations []models.Consultation
	err := s.db.Preload("Patient").
		Where("doctor_id = ?", doctorID).
		Order("created_at desc").
		Find(&consultations).Error
	return consultations, err
}

func (s *GormStore) ConsultationsForPatient(patientID string) ([]models.Consultation, error) {
	var consultations []models.Consultation
	err := s.db.Preload("Doctor").
		Where("patient_id = ?", patientID).
		Order("created_at desc").
		Find(&consultations).Error
	return consultations, err
}

func (s *GormStore) ScheduledBetween(doctorID string, from, to time.Time) ([]models.Consultation, error) {
	var consultations []models.Consultation
	err := s.db.
		Where("doctor_id = ? AND call_mode = ? AND status <> ?", doctorID, models.CallModeSchedule, models.ConsultationCancelled).
		Where("scheduled_at >= ? AND scheduled_at < ?", from, to).
		Find(&consultations).Error
	return consultations, err
}

func (s *GormStore) ScheduledSlotTaken(doctorID string, at time.Time) (bool, error) {
	var count int64
	err := s.db.Model(&models.Consultation{}).
		Where("doctor_id = ? AND scheduled_at = ? AND status <> ?", doctorID, at, models.ConsultationCancelled).
		Count(&count).Error
	return count > 0, err
}

func (s *GormStore) ActiveCallNowExists(doctorID string) (bool, error) {
	var count int64
	err := s.db.Model(&models.Consultation{}).
		Where("doctor_id = ? AND call_mode = ? AND status IN ?", doctorID, models.CallModeNow,
			[]models.ConsultationStatus{models.ConsultationPending, models.ConsultationInProgress}).
		Count(&count).Error
	return count > 0, err
}

func (s *GormStore) DueScheduled(from, to time.Time) ([]models.Consultation, error) {
	var consultations []models.Consultation
	err := s.db.Preload("Patient").Preload("Doctor").
		Where("call_mode = ? AND status = ?", models.CallModeSchedule, models.ConsultationPending).
		Where("scheduled_at >= ? AND scheduled_at <= ?", from, to).
		Find(&consultations).Error
	return consultations, err
}

func (s *GormStore) NotificationExists(consultationID, recipientID string, kind models.NotificationKind) (bool, error) {
	var count int64
	err := s.db.Model(&models.Notification{}).
		Where("consultation_id = ? AND recipient_id = ? AND kind = ?", consultationID, recipientID, kind).
		Count(&count).Error
	return count > 0, err
}

func (s *GormStore) CreateNotification(notification *models.Notification) error {
	return s.db.Create(notification).Error
}

func (s *GormStore) InTransaction(fn func(Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func ignoreNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

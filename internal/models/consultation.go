package models

import (
	"time"
)

// CallMode distinguishes an immediate on-demand call from a pre-arranged appointment.
type CallMode string

const (
	CallModeNow      CallMode = "call_now"
	CallModeSchedule CallMode = "schedule"
)

// ConsultationStatus represents the lifecycle state of a consultation
type ConsultationStatus string

const (
	ConsultationPending    ConsultationStatus = "pending"
	ConsultationInProgress ConsultationStatus = "in_progress"
	ConsultationCompleted  ConsultationStatus = "completed"
	ConsultationCancelled  ConsultationStatus = "cancelled"
)

// Consultation represents a booked doctor consultation.
// The (doctor_id, scheduled_at) unique index guards scheduled bookings
// against two concurrent requests committing the same slot.
type Consultation struct {
	BaseModel
	PatientID   string             `gorm:"size:36;index" json:"patientId"`
	DoctorID    string             `gorm:"size:36;index;uniqueIndex:ux_doctor_scheduled,priority:1" json:"doctorId"`
	CallMode    CallMode           `gorm:"size:20;not null" json:"callMode"`
	Status      ConsultationStatus `gorm:"size:20;default:'pending'" json:"status"`
	ScheduledAt *time.Time         `gorm:"uniqueIndex:ux_doctor_scheduled,priority:2" json:"scheduledAt,omitempty"`
	StartTime   *time.Time         `json:"startTime,omitempty"`

	// Relations
	Patient PatientProfile `gorm:"foreignKey:PatientID" json:"-"`
	Doctor  DoctorProfile  `gorm:"foreignKey:DoctorID" json:"-"`
}

// IsActive reports whether the consultation still occupies the doctor
// (not yet completed or cancelled).
func (c *Consultation) IsActive() bool {
	return c.Status == ConsultationPending || c.Status == ConsultationInProgress
}

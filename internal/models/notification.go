package models

import (
	"time"
)

// NotificationKind identifies why a notification was sent. It participates
// in the dedup key so each kind fires at most once per recipient per
// consultation.
type NotificationKind string

const (
	NotificationBookingRequest NotificationKind = "booking_request"
	NotificationReminder       NotificationKind = "reminder"
	NotificationArrival        NotificationKind = "arrival"
)

// Notification represents an in-app notification record. It doubles as the
// idempotency ledger for the reminder and arrival sweeps via the unique
// (consultation_id, recipient_id, kind) index.
type Notification struct {
	BaseModel
	ConsultationID string           `gorm:"size:36;uniqueIndex:ux_consultation_recipient_kind,priority:1" json:"consultationId"`
	RecipientID    string           `gorm:"size:36;index;uniqueIndex:ux_consultation_recipient_kind,priority:2" json:"recipientId"`
	Kind           NotificationKind `gorm:"size:30;uniqueIndex:ux_consultation_recipient_kind,priority:3" json:"kind"`
	Title          string           `gorm:"size:255" json:"title"`
	Body           string           `gorm:"type:text" json:"body"`
	ReadAt         *time.Time       `json:"readAt,omitempty"`

	// Relations
	Recipient User `gorm:"foreignKey:RecipientID" json:"-"`
}

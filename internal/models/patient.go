package models

// PatientProfile holds patient-specific data linked to a user account.
type PatientProfile struct {
	BaseModel
	UserID   string `gorm:"size:36;uniqueIndex" json:"userId"`
	FullName string `gorm:"size:200" json:"fullName"`
	Phone    string `gorm:"size:30" json:"phone,omitempty"`

	// Relations
	User          User           `gorm:"foreignKey:UserID" json:"-"`
	Consultations []Consultation `gorm:"foreignKey:PatientID" json:"-"`
}

package models

// DoctorProfile holds doctor-specific data linked to a user account.
// AvailableFrom/AvailableTo are daily recurring "HH:MM" local times in the
// clinic timezone; a single window applies every day. When either bound is
// unset the doctor has no determinate availability and booking fails closed.
type DoctorProfile struct {
	BaseModel
	UserID        string  `gorm:"size:36;uniqueIndex" json:"userId"`
	FullName      string  `gorm:"size:200" json:"fullName"`
	Specialty     string  `gorm:"size:100" json:"specialty,omitempty"`
	Phone         string  `gorm:"size:30" json:"phone,omitempty"`
	AvailableFrom *string `gorm:"size:5" json:"availableFrom,omitempty"`
	AvailableTo   *string `gorm:"size:5" json:"availableTo,omitempty"`

	// Relations
	User          User           `gorm:"foreignKey:UserID" json:"-"`
	Consultations []Consultation `gorm:"foreignKey:DoctorID" json:"-"`
}

// HasAvailability reports whether both window bounds are configured.
func (d *DoctorProfile) HasAvailability() bool {
	return d.AvailableFrom != nil && *d.AvailableFrom != "" &&
		d.AvailableTo != nil && *d.AvailableTo != ""
}

package services

import (
	"medconnect-server/internal/models"
)

// Identity is the caller resolved once at the authentication boundary:
// the user account plus whichever role profile it is linked to. Services
// switch on the role tag instead of probing optional relations per call.
type Identity struct {
	UserID    string
	Role      models.Role
	DoctorID  string // doctor profile id, set only for doctors
	PatientID string // patient profile id, set only for patients
	Name      string
}

// IsDoctor reports whether the caller acts as a doctor.
func (i Identity) IsDoctor() bool {
	return i.DoctorID != ""
}

// IsPatient reports whether the caller acts as a patient.
func (i Identity) IsPatient() bool {
	return i.PatientID != ""
}

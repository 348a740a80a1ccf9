package models

import "time"

// Encounter is the clinical visit record created when an appointment
// reaches check-in.
type Encounter struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	AppointmentID uint `gorm:"uniqueIndex" json:"appointment_id"`

	ClinicID  uint `json:"clinic_id"`
	DoctorID  uint `json:"doctor_id"`
	PatientID uint `json:"patient_id"`

	Date   time.Time `json:"date"`
	Status string    `gorm:"size:20;default:'active'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClinicID uint   `json:"clinic_id"`
	Clinic   Clinic `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"clinic"`

	DoctorID uint `gorm:"index" json:"doctor_id"`
	Doctor   User `gorm:"foreignKey:DoctorID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"doctor"`

	PatientID uint `gorm:"index" json:"patient_id"`
	Patient   User `gorm:"foreignKey:PatientID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"patient"`

	StartTime time.Time `gorm:"index" json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	// 0 cancelled, 1 booked, 2 pending, 3 checkout, 4 checkin
	Status int `gorm:"default:1" json:"status"`

	Description string `gorm:"size:255" json:"description"`
	VisitType   string `gorm:"size:20" json:"visit_type"`

	Services []AppointmentService `json:"services"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AppointmentService snapshots the booked doctor-service rows: duration
// and charge are copied at booking time so later catalogue edits do not
// rewrite history.
type AppointmentService struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	AppointmentID uint `gorm:"index" json:"appointment_id"`

	DoctorServiceID uint          `json:"doctor_service_id"`
	DoctorService   DoctorService `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"doctor_service"`

	DurationMin int     `json:"duration_min"`
	Charge      float64 `json:"charge"`
	Telemed     bool    `json:"telemed"`

	CreatedAt time.Time `json:"created_at"`
}

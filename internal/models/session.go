package models

import "time"

// Session is a recurring weekly availability window for a doctor at a clinic.
type Session struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	ClinicID uint `gorm:"index" json:"clinic_id"`
	DoctorID uint `gorm:"index" json:"doctor_id"`

	Weekday int `json:"weekday"`

	StartTime string `gorm:"size:5" json:"start_time"`
	EndTime   string `gorm:"size:5" json:"end_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

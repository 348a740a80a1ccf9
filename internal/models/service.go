package models

import "time"

type Service struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Category string `gorm:"size:50" json:"category"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DoctorService is the bookable unit: a service offered by one doctor
// at one clinic, with its own duration and charge.
type DoctorService struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ServiceID uint    `json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"service"`

	DoctorID uint `gorm:"index" json:"doctor_id"`
	ClinicID uint `gorm:"index" json:"clinic_id"`

	DurationMin int     `json:"duration_min"`
	Charge      float64 `json:"charge"`
	Telemed     bool    `gorm:"default:false" json:"telemed"`
	Active      bool    `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

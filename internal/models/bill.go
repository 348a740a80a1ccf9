package models

import "time"

type Bill struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// One bill per appointment.
	AppointmentID uint `gorm:"uniqueIndex" json:"appointment_id"`
	EncounterID   uint `json:"encounter_id"`

	Total        float64 `json:"total"`
	Discount     float64 `json:"discount"`
	ActualAmount float64 `json:"actual_amount"`
	Status       string  `gorm:"size:20;default:'unpaid'" json:"status"`

	Items []BillItem `json:"items"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BillItem struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	BillID uint `gorm:"index" json:"bill_id"`

	DoctorServiceID uint    `json:"doctor_service_id"`
	Price           float64 `json:"price"`
	Qty             int     `gorm:"default:1" json:"qty"`

	CreatedAt time.Time `json:"created_at"`
}

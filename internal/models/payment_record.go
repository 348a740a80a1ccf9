package models

import "time"

type PaymentRecord struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	AppointmentID uint `gorm:"index" json:"appointment_id"`

	Gateway  string  `gorm:"size:30" json:"gateway"`
	Amount   float64 `json:"amount"`
	Currency string  `gorm:"size:3" json:"currency"`
	Status   string  `gorm:"size:20" json:"status"`

	// Reference is generated locally and echoed back by gateway
	// callbacks; the other two ids come from the gateway.
	Reference     string `gorm:"size:64;index" json:"reference"`
	TransactionID string `gorm:"size:100" json:"transaction_id"`
	PaymentID     string `gorm:"size:100" json:"payment_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

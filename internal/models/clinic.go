package models

import "time"

type Clinic struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"size:100;not null" json:"name"`
	Phone   string `gorm:"size:20" json:"phone"`
	Address string `gorm:"size:255" json:"address"`

	Timezone string `gorm:"size:64" json:"timezone"`
	Currency string `gorm:"size:3;default:'USD'" json:"currency"`

	// Booking-window policy for the whole clinic.
	SameDayBooking bool `gorm:"default:false" json:"same_day_booking"`
	PreBookDays    int  `gorm:"default:0" json:"pre_book_days"`
	PostBookDays   int  `gorm:"default:365" json:"post_book_days"`

	TelemedEnabled bool `gorm:"default:false" json:"telemed_enabled"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

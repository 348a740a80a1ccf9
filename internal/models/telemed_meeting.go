package models

import "time"

type TelemedMeeting struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	AppointmentID uint `gorm:"uniqueIndex" json:"appointment_id"`

	Provider  string `gorm:"size:30" json:"provider"`
	MeetingID string `gorm:"size:255" json:"meeting_id"`
	JoinURL   string `gorm:"size:512" json:"join_url"`
	StartURL  string `gorm:"size:512" json:"start_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

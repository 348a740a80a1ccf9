package appointment

import (
	"time"

	"github.com/cliniqon/clinic-scheduler/internal/models"
)

// Interval is a half-open [Start, End) booked range.
type Interval struct {
	Start time.Time
	End   time.Time
}

func (i Interval) Overlaps(start, end time.Time) bool {
	return start.Before(i.End) && end.After(i.Start)
}

// ServiceSelection is the ordered set of doctor-service rows a booking
// is made against. Its duration sum determines the appointment length.
type ServiceSelection []models.DoctorService

func (s ServiceSelection) TotalDurationMin() int {
	total := 0
	for _, svc := range s {
		total += svc.DurationMin
	}
	return total
}

func (s ServiceSelection) Subtotal() float64 {
	total := 0.0
	for _, svc := range s {
		total += svc.Charge
	}
	return total
}

func (s ServiceSelection) HasTelemed() bool {
	for _, svc := range s {
		if svc.Telemed {
			return true
		}
	}
	return false
}

type Slot struct {
	Start     time.Time `json:"-"`
	End       time.Time `json:"-"`
	StartHM   string    `json:"start"`
	EndHM     string    `json:"end"`
	Available bool      `json:"available"`
}

// SessionSlots groups the slots generated from one recurring session.
type SessionSlots struct {
	SessionID uint   `json:"session_id"`
	StartHM   string `json:"session_start"`
	EndHM     string `json:"session_end"`
	Slots     []Slot `json:"slots"`
}

// DaySlots is the full generation result for one doctor, clinic and date.
type DaySlots struct {
	Date         time.Time      `json:"-"`
	Weekday      string         `json:"weekday"`
	SessionCount int            `json:"session_count"`
	BookedCount  int            `json:"booked_count"`
	DurationMin  int            `json:"duration_min"`
	Sessions     []SessionSlots `json:"sessions"`
}

func (d *DaySlots) TotalSlots() int {
	n := 0
	for _, s := range d.Sessions {
		n += len(s.Slots)
	}
	return n
}

func (d *DaySlots) AvailableSlots() int {
	n := 0
	for _, s := range d.Sessions {
		for _, sl := range s.Slots {
			if sl.Available {
				n++
			}
		}
	}
	return n
}

type SlotInput struct {
	// Date must be midnight in the clinic's timezone.
	Date     time.Time
	Sessions []models.Session
	Bookings []Interval

	DurationMin int

	Now time.Time
	// OnlyFuture drops past-start slots from the output instead of
	// only flagging them.
	OnlyFuture bool
}

package appointment

import (
	"time"

	"github.com/cliniqon/clinic-scheduler/internal/httperr"
	"github.com/cliniqon/clinic-scheduler/internal/models"
	"github.com/cliniqon/clinic-scheduler/internal/timezone"
)

// BookingWindow is the clinic-wide horizon of dates a booking may target.
type BookingWindow struct {
	SameDayOnly  bool
	PreBookDays  int
	PostBookDays int
}

func WindowFromClinic(c *models.Clinic) BookingWindow {
	post := c.PostBookDays
	if post <= 0 {
		post = 365
	}
	pre := c.PreBookDays
	if pre < 0 {
		pre = 0
	}
	return BookingWindow{
		SameDayOnly:  c.SameDayBooking,
		PreBookDays:  pre,
		PostBookDays: post,
	}
}

// Allows reports whether date may be booked, comparing date-only in the
// location of today. Past dates are always rejected.
func (w BookingWindow) Allows(date, today time.Time) error {
	d := timezone.Midnight(date)
	t := timezone.Midnight(today)

	if d.Before(t) {
		return httperr.ErrPolicy("past_date_not_allowed")
	}

	if w.SameDayOnly {
		if !d.Equal(t) {
			return httperr.ErrPolicy("same_day_booking_only")
		}
		return nil
	}

	if d.Before(t.AddDate(0, 0, w.PreBookDays)) {
		return httperr.ErrPolicy("booking_window_not_open")
	}
	if d.After(t.AddDate(0, 0, w.PostBookDays)) {
		return httperr.ErrPolicy("booking_window_exceeded")
	}

	return nil
}

package appointment

import (
	"context"
	"time"

	"github.com/cliniqon/clinic-scheduler/internal/models"
	"github.com/cliniqon/clinic-scheduler/internal/timezone"
)

// IsSlotAvailable answers whether the candidate start time is currently
// bookable: the regenerated day must contain a slot with that exact
// start, not in the past and not overlapping an existing booking.
// excludeAppointmentID drops the appointment's own interval from the
// overlap check so a reschedule does not conflict with itself.
//
// lock requests the booked-interval fetch with a row lock; used for the
// re-check inside the booking transaction. Two requests can still pass
// the pre-check concurrently; the lock narrows, but does not close,
// that race (no uniqueness constraint is enforced on the slot).
func IsSlotAvailable(
	ctx context.Context,
	repo Repository,
	clinic *models.Clinic,
	doctorID uint,
	start time.Time,
	selection ServiceSelection,
	excludeAppointmentID uint,
	lock bool,
) (bool, error) {

	day := timezone.Midnight(start)
	dayEnd := day.AddDate(0, 0, 1)

	sessions, err := repo.ListSessions(ctx, clinic.ID, doctorID, int(day.Weekday()))
	if err != nil {
		return false, err
	}

	fetch := repo.ListBookedIntervals
	if lock {
		fetch = repo.LockBookedIntervals
	}
	bookings, err := fetch(ctx, clinic.ID, doctorID, day, dayEnd, excludeAppointmentID)
	if err != nil {
		return false, err
	}

	daySlots, err := GenerateSlots(SlotInput{
		Date:        day,
		Sessions:    sessions,
		Bookings:    bookings,
		DurationMin: selection.TotalDurationMin(),
		Now:         timezone.NowIn(clinic.Timezone),
	})
	if err != nil {
		return false, err
	}

	for _, sess := range daySlots.Sessions {
		for _, slot := range sess.Slots {
			if slot.Start.Equal(start) {
				return slot.Available, nil
			}
		}
	}

	return false, nil
}

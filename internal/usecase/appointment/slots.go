package appointment

import (
	"context"
	"time"

	domain "github.com/cliniqon/clinic-scheduler/internal/domain/appointment"
	"github.com/cliniqon/clinic-scheduler/internal/httperr"
	"github.com/cliniqon/clinic-scheduler/internal/timezone"
)

type SlotQuery struct {
	ClinicID   uint
	DoctorID   uint
	ServiceIDs []uint

	Date time.Time

	// ExcludeAppointmentID frees the appointment's own interval when
	// slots are fetched for an edit.
	ExcludeAppointmentID uint

	OnlyAvailable bool
}

type GetSlots struct {
	repo domain.Repository
}

func NewGetSlots(repo domain.Repository) *GetSlots {
	return &GetSlots{repo: repo}
}

func (uc *GetSlots) Execute(
	ctx context.Context,
	q SlotQuery,
) (*domain.DaySlots, error) {

	clinic, err := uc.repo.GetClinic(ctx, q.ClinicID)
	if err != nil {
		return nil, httperr.ErrNotFound("clinic_not_found")
	}

	if _, err := uc.repo.GetDoctor(ctx, q.ClinicID, q.DoctorID); err != nil {
		return nil, httperr.ErrNotFound("doctor_not_found")
	}

	if len(q.ServiceIDs) == 0 {
		return nil, httperr.ErrValidation("service_required")
	}
	selection, err := uc.repo.GetDoctorServices(ctx, q.ClinicID, q.DoctorID, q.ServiceIDs)
	if err != nil {
		return nil, err
	}
	if len(selection) == 0 {
		return nil, httperr.ErrValidation("invalid_service_selection")
	}

	loc := timezone.Location(clinic.Timezone)
	now := timezone.NowIn(clinic.Timezone)
	day := time.Date(q.Date.Year(), q.Date.Month(), q.Date.Day(), 0, 0, 0, 0, loc)

	window := domain.WindowFromClinic(clinic)
	if err := window.Allows(day, now); err != nil {
		return nil, err
	}

	sessions, err := uc.repo.ListSessions(ctx, q.ClinicID, q.DoctorID, int(day.Weekday()))
	if err != nil {
		return nil, err
	}

	bookings, err := uc.repo.ListBookedIntervals(
		ctx,
		q.ClinicID,
		q.DoctorID,
		day,
		day.AddDate(0, 0, 1),
		q.ExcludeAppointmentID,
	)
	if err != nil {
		return nil, err
	}

	daySlots, err := domain.GenerateSlots(domain.SlotInput{
		Date:        day,
		Sessions:    sessions,
		Bookings:    bookings,
		DurationMin: selection.TotalDurationMin(),
		Now:         now,
		OnlyFuture:  q.OnlyAvailable,
	})
	if err != nil {
		return nil, err
	}

	if q.OnlyAvailable {
		for i := range daySlots.Sessions {
			kept := daySlots.Sessions[i].Slots[:0]
			for _, s := range daySlots.Sessions[i].Slots {
				if s.Available {
					kept = append(kept, s)
				}
			}
			daySlots.Sessions[i].Slots = kept
		}
	}

	return daySlots, nil
}

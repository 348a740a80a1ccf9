package appointment

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cliniqon/clinic-scheduler/internal/cache"
	domain "github.com/cliniqon/clinic-scheduler/internal/domain/appointment"
	"github.com/cliniqon/clinic-scheduler/internal/httperr"
	"github.com/cliniqon/clinic-scheduler/internal/timezone"
)

type MonthQuery struct {
	ClinicID   uint
	DoctorID   uint
	ServiceIDs []uint
	Year       int
	Month      int
}

type DayCount struct {
	TotalSlots     int `json:"total_slots"`
	AvailableSlots int `json:"available_slots"`
	Weekday        int `json:"weekday"`
}

type MonthResult struct {
	ClinicID uint                `json:"clinic_id"`
	DoctorID uint                `json:"doctor_id"`
	Days     map[string]DayCount `json:"days"`
}

// MonthSummary reports per-day slot counts for a calendar view. Days
// with zero generated slots are omitted: absent means "no sessions",
// while total>0/available=0 means "fully booked".
type MonthSummary struct {
	repo   domain.Repository
	cache  *cache.Cache
	logger *zap.Logger
}

func NewMonthSummary(repo domain.Repository, c *cache.Cache, logger *zap.Logger) *MonthSummary {
	return &MonthSummary{repo: repo, cache: c, logger: logger}
}

func (uc *MonthSummary) Execute(
	ctx context.Context,
	q MonthQuery,
) (*MonthResult, error) {

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

	yearMonth := fmt.Sprintf("%04d-%02d", q.Year, q.Month)
	durationMin := selection.TotalDurationMin()

	var cached MonthResult
	if uc.cache.GetMonthSummary(ctx, q.ClinicID, q.DoctorID, yearMonth, durationMin, &cached) {
		return &cached, nil
	}

	loc := timezone.Location(clinic.Timezone)
	now := timezone.NowIn(clinic.Timezone)
	window := domain.WindowFromClinic(clinic)

	firstDay := time.Date(q.Year, time.Month(q.Month), 1, 0, 0, 0, 0, loc)
	daysInMonth := firstDay.AddDate(0, 1, -1).Day()

	result := &MonthResult{
		ClinicID: q.ClinicID,
		DoctorID: q.DoctorID,
		Days:     make(map[string]DayCount),
	}

	for dayNum := 1; dayNum <= daysInMonth; dayNum++ {
		day := time.Date(q.Year, time.Month(q.Month), dayNum, 0, 0, 0, 0, loc)

		if err := window.Allows(day, now); err != nil {
			continue
		}

		counts, err := uc.summarizeDay(ctx, clinic.ID, q.DoctorID, day, selection, now)
		if err != nil {
			// One bad day must not fail the whole month.
			uc.logger.Warn("month summary: skipping day",
				zap.String("date", day.Format("2006-01-02")),
				zap.Error(err),
			)
			continue
		}

		if counts.TotalSlots == 0 {
			continue
		}
		result.Days[day.Format("2006-01-02")] = counts
	}

	uc.cache.SetMonthSummary(ctx, q.ClinicID, q.DoctorID, yearMonth, durationMin, result)

	return result, nil
}

func (uc *MonthSummary) summarizeDay(
	ctx context.Context,
	clinicID uint,
	doctorID uint,
	day time.Time,
	selection domain.ServiceSelection,
	now time.Time,
) (DayCount, error) {

	sessions, err := uc.repo.ListSessions(ctx, clinicID, doctorID, int(day.Weekday()))
	if err != nil {
		return DayCount{}, err
	}

	bookings, err := uc.repo.ListBookedIntervals(
		ctx, clinicID, doctorID, day, day.AddDate(0, 0, 1), 0,
	)
	if err != nil {
		return DayCount{}, err
	}

	// Future-filtering stays off so total counts are stable across the
	// day; availability still reflects "now".
	daySlots, err := domain.GenerateSlots(domain.SlotInput{
		Date:        day,
		Sessions:    sessions,
		Bookings:    bookings,
		DurationMin: selection.TotalDurationMin(),
		Now:         now,
	})
	if err != nil {
		return DayCount{}, err
	}

	return DayCount{
		TotalSlots:     daySlots.TotalSlots(),
		AvailableSlots: daySlots.AvailableSlots(),
		Weekday:        int(day.Weekday()),
	}, nil
}

package appointment

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	domain "github.com/cliniqon/clinic-scheduler/internal/domain/appointment"
	"github.com/cliniqon/clinic-scheduler/internal/httperr"
	"github.com/cliniqon/clinic-scheduler/internal/models"
	"github.com/cliniqon/clinic-scheduler/internal/observer"
	"github.com/cliniqon/clinic-scheduler/internal/telemed"
	"github.com/cliniqon/clinic-scheduler/internal/timezone"
)

type UpdateInput struct {
	AppointmentID uint

	// Empty fields keep the current value.
	Date string
	Time string

	ServiceIDs []uint

	Description *string
	VisitType   *string
	Status      *int

	ActorID   uint
	ActorRole string
}

type UpdateAppointment struct {
	repo       domain.Repository
	telemed    telemed.Provider
	dispatcher *observer.Dispatcher
	logger     *zap.Logger
}

func NewUpdateAppointment(
	repo domain.Repository,
	telemedProvider telemed.Provider,
	dispatcher *observer.Dispatcher,
	logger *zap.Logger,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:       repo,
		telemed:    telemedProvider,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	in UpdateInput,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, in.AppointmentID)
	if err != nil {
		return nil, httperr.ErrNotFound("appointment_not_found")
	}
	if in.ActorRole == models.RolePatient && ap.PatientID != in.ActorID {
		return nil, httperr.ErrNotFound("appointment_not_found")
	}
	if ap.Status == int(domain.StatusCancelled) {
		return nil, httperr.ErrPolicy("appointment_cancelled")
	}

	clinic, err := uc.repo.GetClinic(ctx, ap.ClinicID)
	if err != nil {
		return nil, httperr.ErrNotFound("clinic_not_found")
	}
	loc := timezone.Location(clinic.Timezone)
	now := timezone.NowIn(clinic.Timezone)

	// ------------------------------------------------------
	// Resolve the requested schedule against the current one
	// ------------------------------------------------------
	newStart, changedTime, err := resolveNewStart(ap.StartTime.In(loc), in.Date, in.Time, loc)
	if err != nil {
		return nil, err
	}

	var selection domain.ServiceSelection
	changedServices := len(in.ServiceIDs) > 0
	if changedServices {
		selection, err = uc.repo.GetDoctorServices(ctx, ap.ClinicID, ap.DoctorID, in.ServiceIDs)
		if err != nil {
			return nil, err
		}
		if len(selection) == 0 {
			return nil, httperr.ErrValidation("invalid_service_selection")
		}
	} else {
		rows, err := uc.repo.ListAppointmentServices(ctx, ap.ID)
		if err != nil {
			return nil, err
		}
		ids := make([]uint, 0, len(rows))
		for _, r := range rows {
			ids = append(ids, r.DoctorServiceID)
		}
		selection, err = uc.repo.GetDoctorServices(ctx, ap.ClinicID, ap.DoctorID, ids)
		if err != nil {
			return nil, err
		}
	}

	wantsTelemed := selection.HasTelemed()
	if changedServices && wantsTelemed && (uc.telemed == nil || !clinic.TelemedEnabled) {
		return nil, httperr.ErrPolicy("telemed_not_supported")
	}

	newEnd := newStart.Add(time.Duration(selection.TotalDurationMin()) * time.Minute)
	rescheduled := changedTime || !newEnd.Equal(ap.EndTime.In(loc))

	if rescheduled {
		window := domain.WindowFromClinic(clinic)
		if err := window.Allows(newStart, now); err != nil {
			return nil, err
		}
	}

	newStatus := ap.Status
	if in.Status != nil && in.ActorRole != models.RolePatient {
		requested := domain.Status(*in.Status)
		if err := domain.CanTransition(domain.Status(ap.Status), requested); err != nil {
			return nil, err
		}
		newStatus = int(requested)
	}

	oldStart := ap.StartTime

	// ------------------------------------------------------
	// Atomic write
	// ------------------------------------------------------
	err = uc.repo.Transact(ctx, func(tx domain.Repository) error {

		if rescheduled {
			// The appointment's own interval is excluded so moving
			// within it still passes.
			ok, err := domain.IsSlotAvailable(ctx, tx, clinic, ap.DoctorID, newStart, selection, ap.ID, true)
			if err != nil {
				return err
			}
			if !ok {
				return httperr.ErrConflict("slot_unavailable")
			}
		}

		ap.StartTime = newStart
		ap.EndTime = newEnd
		ap.Status = newStatus
		if in.Description != nil {
			ap.Description = *in.Description
		}
		if in.VisitType != nil {
			ap.VisitType = *in.VisitType
		}
		if err := tx.UpdateAppointment(ctx, ap); err != nil {
			return err
		}

		if changedServices {
			if err := tx.DeleteAppointmentServices(ctx, ap.ID); err != nil {
				return err
			}
			if err := tx.CreateAppointmentServices(ctx, buildServiceRows(ap.ID, selection)); err != nil {
				return err
			}
		}

		if rescheduled {
			if err := uc.moveMeeting(ctx, tx, ap, clinic, newStart, newEnd); err != nil {
				return err
			}
		}

		if newStatus == int(domain.StatusCheckIn) {
			rows, err := tx.ListAppointmentServices(ctx, ap.ID)
			if err != nil {
				return err
			}
			if err := ensureEncounterAndBill(ctx, tx, ap, rows); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	actorID := in.ActorID
	uc.dispatcher.Dispatch(observer.Event{
		Action:        "appointment_updated",
		ClinicID:      ap.ClinicID,
		ActorID:       &actorID,
		AppointmentID: ap.ID,
		Appointment:   ap,
		OldStart:      &oldStart,
		Telemed:       wantsTelemed,
		Metadata: map[string]any{
			"rescheduled": rescheduled,
			"old_start":   oldStart,
			"new_start":   ap.StartTime,
		},
	})

	return ap, nil
}

// resolveNewStart merges the requested date/time over the current start
// and reports whether the result actually differs. Clients send clock
// values with or without seconds, so the comparison goes through the
// parsed timestamps rather than the raw strings.
func resolveNewStart(
	current time.Time,
	dateStr, timeStr string,
	loc *time.Location,
) (time.Time, bool, error) {

	if dateStr == "" && timeStr == "" {
		return current, false, nil
	}

	if dateStr == "" {
		dateStr = current.Format("2006-01-02")
	}
	if timeStr == "" {
		timeStr = current.Format("15:04:05")
	}

	next, err := combineDateTime(dateStr, timeStr, loc)
	if err != nil {
		return time.Time{}, false, err
	}
	return next, !next.Equal(current), nil
}

// moveMeeting updates the existing video meeting in place instead of
// recreating it, so join links sent to participants stay valid.
func (uc *UpdateAppointment) moveMeeting(
	ctx context.Context,
	tx domain.Repository,
	ap *models.Appointment,
	clinic *models.Clinic,
	start, end time.Time,
) error {

	meeting, err := tx.GetMeeting(ctx, ap.ID)
	if err != nil {
		return err
	}
	if meeting == nil {
		return nil
	}
	if uc.telemed == nil {
		return httperr.ErrPolicy("telemed_not_supported")
	}

	if err := uc.telemed.UpdateMeeting(ctx, meeting.MeetingID, telemed.MeetingRequest{
		Topic:    fmt.Sprintf("Appointment #%d", ap.ID),
		Start:    start,
		End:      end,
		Timezone: clinic.Timezone,
	}); err != nil {
		uc.logger.Error("telemed meeting update failed",
			zap.Uint("appointment_id", ap.ID),
			zap.Error(err),
		)
		return httperr.ErrTransaction("telemed_meeting_failed")
	}
	return nil
}

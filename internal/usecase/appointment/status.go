package appointment

import (
	"context"

	"go.uber.org/zap"

	domain "github.com/cliniqon/clinic-scheduler/internal/domain/appointment"
	"github.com/cliniqon/clinic-scheduler/internal/httperr"
	"github.com/cliniqon/clinic-scheduler/internal/models"
	"github.com/cliniqon/clinic-scheduler/internal/observer"
	"github.com/cliniqon/clinic-scheduler/internal/telemed"
)

type StatusInput struct {
	AppointmentID uint
	Status        int

	ActorID   uint
	ActorRole string
}

// ChangeStatus moves an appointment through its lifecycle. A check-in
// opens the clinical encounter and bill; a cancellation tears down the
// video meeting.
type ChangeStatus struct {
	repo       domain.Repository
	telemed    telemed.Provider
	dispatcher *observer.Dispatcher
	logger     *zap.Logger
}

func NewChangeStatus(
	repo domain.Repository,
	telemedProvider telemed.Provider,
	dispatcher *observer.Dispatcher,
	logger *zap.Logger,
) *ChangeStatus {
	return &ChangeStatus{
		repo:       repo,
		telemed:    telemedProvider,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func (uc *ChangeStatus) Execute(
	ctx context.Context,
	in StatusInput,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, in.AppointmentID)
	if err != nil {
		return nil, httperr.ErrNotFound("appointment_not_found")
	}
	if in.ActorRole == models.RolePatient && ap.PatientID != in.ActorID {
		return nil, httperr.ErrNotFound("appointment_not_found")
	}

	target := domain.Status(in.Status)
	if err := domain.CanTransition(domain.Status(ap.Status), target); err != nil {
		return nil, err
	}

	// Patients may only cancel.
	if in.ActorRole == models.RolePatient && target != domain.StatusCancelled {
		return nil, httperr.ErrPolicy("status_change_not_allowed")
	}

	if domain.Status(ap.Status) == target {
		return ap, nil
	}

	err = uc.repo.Transact(ctx, func(tx domain.Repository) error {
		ap.Status = int(target)
		if err := tx.UpdateAppointment(ctx, ap); err != nil {
			return err
		}

		if target == domain.StatusCheckIn {
			rows, err := tx.ListAppointmentServices(ctx, ap.ID)
			if err != nil {
				return err
			}
			if err := ensureEncounterAndBill(ctx, tx, ap, rows); err != nil {
				return err
			}
		}

		if target == domain.StatusCancelled {
			if err := uc.cancelMeeting(ctx, tx, ap.ID); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	action := "appointment_status_changed"
	if target == domain.StatusCancelled {
		action = "appointment_cancelled"
	}

	actorID := in.ActorID
	uc.dispatcher.Dispatch(observer.Event{
		Action:        action,
		ClinicID:      ap.ClinicID,
		ActorID:       &actorID,
		AppointmentID: ap.ID,
		Appointment:   ap,
		Metadata: map[string]any{
			"status":       ap.Status,
			"status_label": target.String(),
		},
	})

	return ap, nil
}

// cancelMeeting removes the meeting row and best-effort cancels it at
// the provider. A provider failure is logged, not surfaced: the
// cancellation itself must go through.
func (uc *ChangeStatus) cancelMeeting(
	ctx context.Context,
	tx domain.Repository,
	appointmentID uint,
) error {

	meeting, err := tx.GetMeeting(ctx, appointmentID)
	if err != nil {
		return err
	}
	if meeting == nil {
		return nil
	}

	if uc.telemed != nil {
		if err := uc.telemed.CancelMeeting(ctx, meeting.MeetingID); err != nil {
			uc.logger.Warn("telemed meeting cancel failed",
				zap.Uint("appointment_id", appointmentID),
				zap.String("meeting_id", meeting.MeetingID),
				zap.Error(err),
			)
		}
	}

	return tx.DeleteMeeting(ctx, appointmentID)
}

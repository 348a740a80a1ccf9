package appointment

import (
	"context"

	"go.uber.org/zap"

	domain "github.com/cliniqon/clinic-scheduler/internal/domain/appointment"
	"github.com/cliniqon/clinic-scheduler/internal/httperr"
	"github.com/cliniqon/clinic-scheduler/internal/observer"
	"github.com/cliniqon/clinic-scheduler/internal/telemed"
)

type DeleteInput struct {
	AppointmentID uint

	ActorID   uint
	ActorRole string
}

// DeleteAppointment hard-deletes an appointment and everything hanging
// off it: service rows, encounter, bill with items, payment records and
// the meeting. Staff only.
type DeleteAppointment struct {
	repo       domain.Repository
	telemed    telemed.Provider
	dispatcher *observer.Dispatcher
	logger     *zap.Logger
}

func NewDeleteAppointment(
	repo domain.Repository,
	telemedProvider telemed.Provider,
	dispatcher *observer.Dispatcher,
	logger *zap.Logger,
) *DeleteAppointment {
	return &DeleteAppointment{
		repo:       repo,
		telemed:    telemedProvider,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func (uc *DeleteAppointment) Execute(ctx context.Context, in DeleteInput) error {
	ap, err := uc.repo.GetAppointment(ctx, in.AppointmentID)
	if err != nil {
		return httperr.ErrNotFound("appointment_not_found")
	}

	oldStart := ap.StartTime

	err = uc.repo.Transact(ctx, func(tx domain.Repository) error {
		if err := tx.DeleteAppointmentServices(ctx, ap.ID); err != nil {
			return err
		}
		if err := tx.DeleteEncounter(ctx, ap.ID); err != nil {
			return err
		}
		if err := tx.DeleteBill(ctx, ap.ID); err != nil {
			return err
		}
		if err := tx.DeletePaymentRecords(ctx, ap.ID); err != nil {
			return err
		}

		meeting, err := tx.GetMeeting(ctx, ap.ID)
		if err != nil {
			return err
		}
		if meeting != nil {
			if uc.telemed != nil {
				if err := uc.telemed.CancelMeeting(ctx, meeting.MeetingID); err != nil {
					uc.logger.Warn("telemed meeting cancel failed",
						zap.Uint("appointment_id", ap.ID),
						zap.Error(err),
					)
				}
			}
			if err := tx.DeleteMeeting(ctx, ap.ID); err != nil {
				return err
			}
		}

		return tx.DeleteAppointment(ctx, ap.ID)
	})
	if err != nil {
		return err
	}

	actorID := in.ActorID
	uc.dispatcher.Dispatch(observer.Event{
		Action:        "appointment_deleted",
		ClinicID:      ap.ClinicID,
		ActorID:       &actorID,
		AppointmentID: ap.ID,
		OldStart:      &oldStart,
		Metadata: map[string]any{
			"start": oldStart,
		},
	})

	return nil
}

// BulkDelete removes a batch of appointments. Each delete runs in its
// own transaction; failures are collected per id so one bad row does
// not abort the rest.
func (uc *DeleteAppointment) BulkDelete(
	ctx context.Context,
	ids []uint,
	actorID uint,
	actorRole string,
) (deleted []uint, failed []uint) {

	for _, id := range ids {
		if err := uc.Execute(ctx, DeleteInput{
			AppointmentID: id,
			ActorID:       actorID,
			ActorRole:     actorRole,
		}); err != nil {
			uc.logger.Warn("bulk delete: appointment skipped",
				zap.Uint("appointment_id", id),
				zap.Error(err),
			)
			failed = append(failed, id)
			continue
		}
		deleted = append(deleted, id)
	}
	return deleted, failed
}

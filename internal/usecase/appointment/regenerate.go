package appointment

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	domain "github.com/cliniqon/clinic-scheduler/internal/domain/appointment"
	"github.com/cliniqon/clinic-scheduler/internal/httperr"
	"github.com/cliniqon/clinic-scheduler/internal/models"
	"github.com/cliniqon/clinic-scheduler/internal/telemed"
)

// RegenerateMeeting replaces a broken or expired video meeting with a
// fresh one. The old meeting is cancelled best-effort.
type RegenerateMeeting struct {
	repo    domain.Repository
	telemed telemed.Provider
	logger  *zap.Logger
}

func NewRegenerateMeeting(
	repo domain.Repository,
	telemedProvider telemed.Provider,
	logger *zap.Logger,
) *RegenerateMeeting {
	return &RegenerateMeeting{repo: repo, telemed: telemedProvider, logger: logger}
}

type RegenerateInput struct {
	AppointmentID uint

	ActorID   uint
	ClinicID  uint
	ActorRole string
}

func (uc *RegenerateMeeting) Execute(
	ctx context.Context,
	in RegenerateInput,
) (*models.TelemedMeeting, error) {

	if uc.telemed == nil {
		return nil, httperr.ErrPolicy("telemed_not_supported")
	}

	ap, err := uc.repo.GetAppointmentDetail(ctx, in.AppointmentID)
	if err != nil {
		return nil, httperr.ErrNotFound("appointment_not_found")
	}

	// Doctors may only touch their own appointments; clinic staff only
	// their own clinic's.
	switch in.ActorRole {
	case models.RoleDoctor:
		if ap.DoctorID != in.ActorID {
			return nil, httperr.ErrNotFound("appointment_not_found")
		}
	case models.RoleAdmin, models.RoleReceptionist:
		if ap.ClinicID != in.ClinicID {
			return nil, httperr.ErrNotFound("appointment_not_found")
		}
	}

	if ap.Status == int(domain.StatusCancelled) {
		return nil, httperr.ErrPolicy("appointment_cancelled")
	}

	telemedBooked := false
	for _, svc := range ap.Services {
		if svc.Telemed {
			telemedBooked = true
			break
		}
	}
	if !telemedBooked {
		return nil, httperr.ErrValidation("not_a_telemed_appointment")
	}

	clinic, err := uc.repo.GetClinic(ctx, ap.ClinicID)
	if err != nil {
		return nil, httperr.ErrNotFound("clinic_not_found")
	}

	old, err := uc.repo.GetMeeting(ctx, ap.ID)
	if err != nil {
		return nil, err
	}
	if old != nil {
		if err := uc.telemed.CancelMeeting(ctx, old.MeetingID); err != nil {
			uc.logger.Warn("stale meeting cancel failed",
				zap.Uint("appointment_id", ap.ID),
				zap.Error(err),
			)
		}
	}

	meeting, err := uc.telemed.CreateMeeting(ctx, telemed.MeetingRequest{
		Topic:        fmt.Sprintf("Consultation: %s / %s", ap.Doctor.Name, ap.Patient.Name),
		Start:        ap.StartTime,
		End:          ap.EndTime,
		Timezone:     clinic.Timezone,
		DoctorEmail:  ap.Doctor.Email,
		PatientEmail: ap.Patient.Email,
	})
	if err != nil {
		uc.logger.Error("telemed meeting creation failed",
			zap.Uint("appointment_id", ap.ID),
			zap.Error(err),
		)
		return nil, httperr.ErrTransaction("telemed_meeting_failed")
	}

	row := &models.TelemedMeeting{
		AppointmentID: ap.ID,
		Provider:      uc.telemed.Name(),
		MeetingID:     meeting.MeetingID,
		JoinURL:       meeting.JoinURL,
		StartURL:      meeting.StartURL,
	}
	if old != nil {
		row.ID = old.ID
	}
	if err := uc.repo.SaveMeeting(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

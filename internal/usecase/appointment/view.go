package appointment

import (
	"context"

	domain "github.com/cliniqon/clinic-scheduler/internal/domain/appointment"
	"github.com/cliniqon/clinic-scheduler/internal/httperr"
	"github.com/cliniqon/clinic-scheduler/internal/models"
)

type ViewOutput struct {
	Appointment *models.Appointment    `json:"appointment"`
	StatusLabel string                 `json:"status_label"`
	Encounter   *models.Encounter      `json:"encounter,omitempty"`
	Bill        *models.Bill           `json:"bill,omitempty"`
	Meeting     *models.TelemedMeeting `json:"meeting,omitempty"`
}

// ViewAppointment loads one appointment with its clinical and billing
// side records. Patients only see their own.
type ViewAppointment struct {
	repo domain.Repository
}

func NewViewAppointment(repo domain.Repository) *ViewAppointment {
	return &ViewAppointment{repo: repo}
}

func (uc *ViewAppointment) Execute(
	ctx context.Context,
	id uint,
	actorID uint,
	actorRole string,
) (*ViewOutput, error) {

	ap, err := uc.repo.GetAppointmentDetail(ctx, id)
	if err != nil {
		return nil, httperr.ErrNotFound("appointment_not_found")
	}
	if actorRole == models.RolePatient && ap.PatientID != actorID {
		return nil, httperr.ErrNotFound("appointment_not_found")
	}
	if actorRole == models.RoleDoctor && ap.DoctorID != actorID {
		return nil, httperr.ErrNotFound("appointment_not_found")
	}

	enc, err := uc.repo.GetEncounter(ctx, ap.ID)
	if err != nil {
		return nil, err
	}
	bill, err := uc.repo.GetBill(ctx, ap.ID)
	if err != nil {
		return nil, err
	}
	meeting, err := uc.repo.GetMeeting(ctx, ap.ID)
	if err != nil {
		return nil, err
	}

	return &ViewOutput{
		Appointment: ap,
		StatusLabel: domain.Status(ap.Status).String(),
		Encounter:   enc,
		Bill:        bill,
		Meeting:     meeting,
	}, nil
}

package appointment

import (
	"context"

	domain "github.com/cliniqon/clinic-scheduler/internal/domain/appointment"
	"github.com/cliniqon/clinic-scheduler/internal/dto"
	"github.com/cliniqon/clinic-scheduler/internal/models"
)

type ListOutput struct {
	Appointments []dto.AppointmentListDTO `json:"appointments"`
	Total        int64                    `json:"total"`
	Page         int                      `json:"page"`
	PerPage      int                      `json:"per_page"`
}

type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(repo domain.Repository) *ListAppointments {
	return &ListAppointments{repo: repo}
}

func (uc *ListAppointments) Execute(
	ctx context.Context,
	f domain.ListFilter,
) (*ListOutput, error) {

	rows, total, err := uc.repo.ListAppointments(ctx, f)
	if err != nil {
		return nil, err
	}

	out := &ListOutput{
		Appointments: make([]dto.AppointmentListDTO, 0, len(rows)),
		Total:        total,
		Page:         f.Page,
		PerPage:      f.PerPage,
	}
	for i := range rows {
		out.Appointments = append(out.Appointments, toListDTO(&rows[i]))
	}
	return out, nil
}

func toListDTO(ap *models.Appointment) dto.AppointmentListDTO {
	d := dto.AppointmentListDTO{
		ID:          ap.ID,
		StartTime:   ap.StartTime,
		EndTime:     ap.EndTime,
		Status:      ap.Status,
		StatusLabel: domain.Status(ap.Status).String(),
		ClinicName:  ap.Clinic.Name,
		DoctorName:  ap.Doctor.Name,
		PatientName: ap.Patient.Name,
		VisitType:   ap.VisitType,
		Description: ap.Description,
	}
	for _, svc := range ap.Services {
		d.Services = append(d.Services, svc.DoctorService.Service.Name)
		d.Total += svc.Charge
	}
	return d
}

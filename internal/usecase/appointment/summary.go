package appointment

import (
	"context"

	domain "github.com/cliniqon/clinic-scheduler/internal/domain/appointment"
	"github.com/cliniqon/clinic-scheduler/internal/httperr"
)

type SummaryQuery struct {
	ClinicID   uint
	DoctorID   uint
	ServiceIDs []uint
}

// PriceSummary previews the charge breakdown for a service selection.
// Read-only: no rows are written.
type PriceSummary struct {
	repo     domain.Repository
	tax      domain.TaxCalculator
	adjuster domain.SummaryAdjuster
}

func NewPriceSummary(
	repo domain.Repository,
	tax domain.TaxCalculator,
	adjuster domain.SummaryAdjuster,
) *PriceSummary {
	return &PriceSummary{repo: repo, tax: tax, adjuster: adjuster}
}

func (uc *PriceSummary) Execute(
	ctx context.Context,
	q SummaryQuery,
) (*domain.PriceSummary, error) {

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

	subtotal := selection.Subtotal()
	total := uc.tax.GrandTotal(ctx, subtotal, selection)

	summary := &domain.PriceSummary{
		Subtotal:    subtotal,
		Tax:         total - subtotal,
		Total:       total,
		Currency:    clinic.Currency,
		DurationMin: selection.TotalDurationMin(),
	}
	for _, svc := range selection {
		summary.Items = append(summary.Items, domain.SummaryItem{
			DoctorServiceID: svc.ID,
			Name:            svc.Service.Name,
			DurationMin:     svc.DurationMin,
			Charge:          svc.Charge,
		})
	}

	uc.adjuster.Adjust(ctx, summary)

	return summary, nil
}

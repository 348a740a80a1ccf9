package appointment

import (
	"context"
	"time"

	domain "github.com/cliniqon/clinic-scheduler/internal/domain/appointment"
	"github.com/cliniqon/clinic-scheduler/internal/httperr"
	"github.com/cliniqon/clinic-scheduler/internal/models"
	"github.com/cliniqon/clinic-scheduler/internal/timezone"
)

// parseClock accepts "15:04" and "15:04:05" so equivalent times from
// different clients compare equal.
func parseClock(value string) (time.Time, error) {
	if t, err := time.Parse("15:04:05", value); err == nil {
		return t, nil
	}
	return time.Parse("15:04", value)
}

func combineDateTime(dateStr, timeStr string, loc *time.Location) (time.Time, error) {
	date, err := time.ParseInLocation("2006-01-02", dateStr, loc)
	if err != nil {
		return time.Time{}, httperr.ErrValidation("invalid_date")
	}
	clock, err := parseClock(timeStr)
	if err != nil {
		return time.Time{}, httperr.ErrValidation("invalid_time")
	}
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), 0,
		loc,
	), nil
}

func buildServiceRows(appointmentID uint, selection domain.ServiceSelection) []models.AppointmentService {
	rows := make([]models.AppointmentService, 0, len(selection))
	for _, svc := range selection {
		rows = append(rows, models.AppointmentService{
			AppointmentID:   appointmentID,
			DoctorServiceID: svc.ID,
			DurationMin:     svc.DurationMin,
			Charge:          svc.Charge,
			Telemed:         svc.Telemed,
		})
	}
	return rows
}

// ensureEncounterAndBill creates the clinical encounter and the bill
// for a checked-in appointment. Idempotent: an existing bill is left
// untouched.
func ensureEncounterAndBill(
	ctx context.Context,
	tx domain.Repository,
	ap *models.Appointment,
	services []models.AppointmentService,
) error {

	enc, err := tx.GetEncounter(ctx, ap.ID)
	if err != nil {
		return err
	}
	if enc == nil {
		enc = &models.Encounter{
			AppointmentID: ap.ID,
			ClinicID:      ap.ClinicID,
			DoctorID:      ap.DoctorID,
			PatientID:     ap.PatientID,
			Date:          timezone.Midnight(ap.StartTime),
		}
		if err := tx.CreateEncounter(ctx, enc); err != nil {
			return err
		}
	}

	bill, err := tx.GetBill(ctx, ap.ID)
	if err != nil {
		return err
	}
	if bill != nil {
		return nil
	}

	total := 0.0
	items := make([]models.BillItem, 0, len(services))
	for _, row := range services {
		total += row.Charge
		items = append(items, models.BillItem{
			DoctorServiceID: row.DoctorServiceID,
			Price:           row.Charge,
			Qty:             1,
		})
	}

	return tx.CreateBill(ctx, &models.Bill{
		AppointmentID: ap.ID,
		EncounterID:   enc.ID,
		Total:         total,
		ActualAmount:  total,
		Items:         items,
	})
}

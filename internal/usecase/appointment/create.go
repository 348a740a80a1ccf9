package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "github.com/cliniqon/clinic-scheduler/internal/domain/appointment"
	"github.com/cliniqon/clinic-scheduler/internal/httperr"
	"github.com/cliniqon/clinic-scheduler/internal/models"
	"github.com/cliniqon/clinic-scheduler/internal/observer"
	"github.com/cliniqon/clinic-scheduler/internal/payment"
	"github.com/cliniqon/clinic-scheduler/internal/telemed"
	"github.com/cliniqon/clinic-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateInput struct {
	ClinicID  uint
	DoctorID  uint
	PatientID uint

	ServiceIDs []uint

	Date string // 2006-01-02
	Time string // 15:04 or 15:04:05

	Description string
	VisitType   string

	// Status is honored for staff actors only.
	Status int

	PaymentGateway string

	ActorID   uint
	ActorRole string
}

type CreateOutput struct {
	Appointment *models.Appointment `json:"appointment"`
	Payment     *payment.Result     `json:"payment,omitempty"`
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo       domain.Repository
	gateways   payment.Registry
	telemed    telemed.Provider // nil when no provider is active
	tax        domain.TaxCalculator
	dispatcher *observer.Dispatcher
	logger     *zap.Logger

	multiClinic     bool
	defaultClinicID uint
}

func NewCreateAppointment(
	repo domain.Repository,
	gateways payment.Registry,
	telemedProvider telemed.Provider,
	tax domain.TaxCalculator,
	dispatcher *observer.Dispatcher,
	logger *zap.Logger,
	multiClinic bool,
	defaultClinicID uint,
) *CreateAppointment {
	return &CreateAppointment{
		repo:            repo,
		gateways:        gateways,
		telemed:         telemedProvider,
		tax:             tax,
		dispatcher:      dispatcher,
		logger:          logger,
		multiClinic:     multiClinic,
		defaultClinicID: defaultClinicID,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateInput,
) (*CreateOutput, error) {

	// --------------------------------------------------
	// 1. Clinic (single-clinic installs fall back)
	// --------------------------------------------------
	clinicID := in.ClinicID
	if clinicID == 0 && !uc.multiClinic {
		clinicID = uc.defaultClinicID
	}

	clinic, err := uc.repo.GetClinic(ctx, clinicID)
	if err != nil {
		return nil, httperr.ErrNotFound("clinic_not_found")
	}

	// --------------------------------------------------
	// 2. Doctor / patient
	// --------------------------------------------------
	doctor, err := uc.repo.GetDoctor(ctx, clinicID, in.DoctorID)
	if err != nil {
		return nil, httperr.ErrNotFound("doctor_not_found")
	}

	patient, err := uc.repo.GetPatient(ctx, in.PatientID)
	if err != nil {
		return nil, httperr.ErrNotFound("patient_not_found")
	}

	// --------------------------------------------------
	// 3. Service selection
	// --------------------------------------------------
	if len(in.ServiceIDs) == 0 {
		return nil, httperr.ErrValidation("service_required")
	}
	selection, err := uc.repo.GetDoctorServices(ctx, clinicID, in.DoctorID, in.ServiceIDs)
	if err != nil {
		return nil, err
	}
	if len(selection) == 0 {
		return nil, httperr.ErrValidation("invalid_service_selection")
	}

	// --------------------------------------------------
	// 4. Telemed gating
	// --------------------------------------------------
	wantsTelemed := selection.HasTelemed()
	if wantsTelemed && (uc.telemed == nil || !clinic.TelemedEnabled) {
		return nil, httperr.ErrPolicy("telemed_not_supported")
	}

	// --------------------------------------------------
	// 5. Start / end in the clinic's timezone
	// --------------------------------------------------
	loc := timezone.Location(clinic.Timezone)
	start, err := combineDateTime(in.Date, in.Time, loc)
	if err != nil {
		return nil, err
	}

	now := timezone.NowIn(clinic.Timezone)
	window := domain.WindowFromClinic(clinic)
	if err := window.Allows(start, now); err != nil {
		return nil, err
	}

	end := start.Add(time.Duration(selection.TotalDurationMin()) * time.Minute)

	// --------------------------------------------------
	// 6. Totals and payment/status resolution
	// --------------------------------------------------
	subtotal := selection.Subtotal()
	grandTotal := uc.tax.GrandTotal(ctx, subtotal, selection)

	status, gateway, err := uc.resolveStatusAndGateway(in, grandTotal)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 7. Atomic write
	// --------------------------------------------------
	var created *models.Appointment
	var payResult *payment.Result

	err = uc.repo.Transact(ctx, func(tx domain.Repository) error {

		// Re-check with a row lock right before the insert. Two
		// requests can still pass this check concurrently; see the
		// note on IsSlotAvailable.
		ok, err := domain.IsSlotAvailable(ctx, tx, clinic, in.DoctorID, start, selection, 0, true)
		if err != nil {
			return err
		}
		if !ok {
			return httperr.ErrConflict("slot_unavailable")
		}

		ap := &models.Appointment{
			ClinicID:    clinicID,
			DoctorID:    in.DoctorID,
			PatientID:   in.PatientID,
			StartTime:   start,
			EndTime:     end,
			Status:      int(status),
			Description: in.Description,
			VisitType:   in.VisitType,
		}
		if err := tx.CreateAppointment(ctx, ap); err != nil {
			return err
		}

		if err := tx.CreateAppointmentServices(ctx, buildServiceRows(ap.ID, selection)); err != nil {
			return err
		}

		if wantsTelemed {
			meeting, err := uc.telemed.CreateMeeting(ctx, telemed.MeetingRequest{
				Topic:        fmt.Sprintf("Consultation: %s / %s", doctor.Name, patient.Name),
				Start:        start,
				End:          end,
				Timezone:     clinic.Timezone,
				DoctorEmail:  doctor.Email,
				PatientEmail: patient.Email,
			})
			if err != nil {
				// Meeting creation is not best-effort: fail the
				// whole booking.
				uc.logger.Error("telemed meeting creation failed", zap.Error(err))
				return httperr.ErrTransaction("telemed_meeting_failed")
			}
			if err := tx.SaveMeeting(ctx, &models.TelemedMeeting{
				AppointmentID: ap.ID,
				Provider:      uc.telemed.Name(),
				MeetingID:     meeting.MeetingID,
				JoinURL:       meeting.JoinURL,
				StartURL:      meeting.StartURL,
			}); err != nil {
				return err
			}
		}

		if status == domain.StatusCheckIn {
			rows, err := tx.ListAppointmentServices(ctx, ap.ID)
			if err != nil {
				return err
			}
			if err := ensureEncounterAndBill(ctx, tx, ap, rows); err != nil {
				return err
			}
		}

		if gateway != nil && grandTotal > 0 {
			res, err := gateway.ProcessPayment(ctx, payment.Request{
				AppointmentID: ap.ID,
				Amount:        grandTotal,
				Currency:      clinic.Currency,
				Description:   fmt.Sprintf("Appointment #%d", ap.ID),
				PayerEmail:    patient.Email,
				Reference:     uuid.NewString(),
			})
			if err != nil {
				uc.logger.Error("payment processing failed", zap.Error(err))
				return httperr.ErrTransaction("payment_failed")
			}
			if res.Status == payment.StatusFailed {
				return httperr.ErrTransaction("payment_failed")
			}

			if err := tx.CreatePaymentRecord(ctx, &models.PaymentRecord{
				AppointmentID: ap.ID,
				Gateway:       gateway.Name(),
				Amount:        grandTotal,
				Currency:      clinic.Currency,
				Status:        res.Status,
				Reference:     res.Reference,
				TransactionID: res.TransactionID,
				PaymentID:     res.PaymentID,
			}); err != nil {
				return err
			}
			payResult = res
		}

		created = ap
		return nil
	})
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 8. Post-commit observers (never rolled back)
	// --------------------------------------------------
	actorID := in.ActorID
	uc.dispatcher.Dispatch(observer.Event{
		Action:        "appointment_created",
		ClinicID:      clinicID,
		ActorID:       &actorID,
		AppointmentID: created.ID,
		Appointment:   created,
		Telemed:       wantsTelemed,
		Metadata: map[string]any{
			"start": created.StartTime,
			"end":   created.EndTime,
			"total": grandTotal,
		},
	})

	return &CreateOutput{Appointment: created, Payment: payResult}, nil
}

// resolveStatusAndGateway applies the payment-mode matrix: a zero
// total books immediately and forces offline; a paying patient must
// pick a gateway and waits in pending; staff picking a gateway also
// waits in pending.
func (uc *CreateAppointment) resolveStatusAndGateway(
	in CreateInput,
	grandTotal float64,
) (domain.Status, payment.Gateway, error) {

	status := domain.StatusBooked
	if in.ActorRole != models.RolePatient && in.Status != 0 {
		requested := domain.Status(in.Status)
		if !requested.Valid() {
			return 0, nil, httperr.ErrValidation("invalid_status")
		}
		status = requested
	}

	if grandTotal <= 0 {
		return status, nil, nil
	}

	if in.PaymentGateway == "" {
		if in.ActorRole == models.RolePatient {
			return 0, nil, httperr.ErrPolicy("payment_gateway_required")
		}
		return status, nil, nil
	}

	gw, ok := uc.gateways.Get(in.PaymentGateway)
	if !ok {
		return 0, nil, httperr.ErrValidation("invalid_payment_gateway")
	}
	if gw.Name() != "offline" {
		status = domain.StatusPending
	}

	return status, gw, nil
}

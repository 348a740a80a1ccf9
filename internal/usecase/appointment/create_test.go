package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	domain "github.com/cliniqon/clinic-scheduler/internal/domain/appointment"
	"github.com/cliniqon/clinic-scheduler/internal/httperr"
	"github.com/cliniqon/clinic-scheduler/internal/models"
	"github.com/cliniqon/clinic-scheduler/internal/observer"
	"github.com/cliniqon/clinic-scheduler/internal/payment"
	"github.com/cliniqon/clinic-scheduler/internal/telemed"
)

// 2030-01-07 is a Monday, matching the fixture session's weekday.
const testDate = "2030-01-07"

func consultation(charge float64, telemedFlag bool) models.DoctorService {
	return models.DoctorService{
		ID:          10,
		ServiceID:   100,
		Service:     models.Service{ID: 100, Name: "Consultation"},
		DoctorID:    2,
		ClinicID:    1,
		DurationMin: 30,
		Charge:      charge,
		Telemed:     telemedFlag,
		Active:      true,
	}
}

func newCreateUC(repo *fakeRepo, gateways payment.Registry, provider telemed.Provider) *CreateAppointment {
	return NewCreateAppointment(
		repo,
		gateways,
		provider,
		domain.NoTax{},
		observer.NewDispatcher(zap.NewNop()),
		zap.NewNop(),
		false,
		1,
	)
}

func baseInput() CreateInput {
	return CreateInput{
		ClinicID:   1,
		DoctorID:   2,
		PatientID:  3,
		ServiceIDs: []uint{10},
		Date:       testDate,
		Time:       "10:00",
		ActorID:    3,
		ActorRole:  models.RolePatient,
	}
}

func TestCreateAppointment_ZeroTotalBooksImmediately(t *testing.T) {
	repo := newFakeRepo()
	repo.catalogue = []models.DoctorService{consultation(0, false)}

	uc := newCreateUC(repo, payment.Registry{}, nil)

	out, err := uc.Execute(context.Background(), baseInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Appointment.Status != int(domain.StatusBooked) {
		t.Fatalf("expected booked, got %d", out.Appointment.Status)
	}
	if out.Payment != nil {
		t.Fatalf("expected no payment result, got %+v", out.Payment)
	}
	if len(repo.st.payments) != 0 {
		t.Fatalf("expected no payment records, got %d", len(repo.st.payments))
	}
	if len(repo.st.services[out.Appointment.ID]) != 1 {
		t.Fatalf("expected 1 service row, got %d", len(repo.st.services[out.Appointment.ID]))
	}

	wantEnd := out.Appointment.StartTime.Add(30 * time.Minute)
	if !out.Appointment.EndTime.Equal(wantEnd) {
		t.Fatalf("end = %v, want %v", out.Appointment.EndTime, wantEnd)
	}
}

func TestCreateAppointment_PatientNeedsGateway(t *testing.T) {
	repo := newFakeRepo()
	repo.catalogue = []models.DoctorService{consultation(50, false)}

	uc := newCreateUC(repo, payment.Registry{}, nil)

	_, err := uc.Execute(context.Background(), baseInput())
	if !httperr.IsBusiness(err, "payment_gateway_required") {
		t.Fatalf("expected payment_gateway_required, got %v", err)
	}
	if len(repo.st.appointments) != 0 {
		t.Fatalf("expected no appointments, got %d", len(repo.st.appointments))
	}
}

func TestCreateAppointment_StaffMaySkipGateway(t *testing.T) {
	repo := newFakeRepo()
	repo.catalogue = []models.DoctorService{consultation(50, false)}

	uc := newCreateUC(repo, payment.Registry{}, nil)

	in := baseInput()
	in.ActorID = 5
	in.ActorRole = models.RoleReceptionist

	out, err := uc.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Appointment.Status != int(domain.StatusBooked) {
		t.Fatalf("expected booked, got %d", out.Appointment.Status)
	}
	if len(repo.st.payments) != 0 {
		t.Fatalf("expected no payment records, got %d", len(repo.st.payments))
	}
}

func TestCreateAppointment_GatewayLeavesPending(t *testing.T) {
	repo := newFakeRepo()
	repo.catalogue = []models.DoctorService{consultation(50, false)}

	gw := &fakeGateway{
		name:   "cardpay",
		result: payment.Result{Status: payment.StatusPending, TransactionID: "tx-1"},
	}
	uc := newCreateUC(repo, payment.Registry{"cardpay": gw}, nil)

	in := baseInput()
	in.PaymentGateway = "cardpay"

	out, err := uc.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Appointment.Status != int(domain.StatusPending) {
		t.Fatalf("expected pending, got %d", out.Appointment.Status)
	}
	if gw.calls != 1 {
		t.Fatalf("expected 1 gateway call, got %d", gw.calls)
	}
	if len(repo.st.payments) != 1 {
		t.Fatalf("expected 1 payment record, got %d", len(repo.st.payments))
	}
	rec := repo.st.payments[0]
	if rec.Reference == "" || rec.Gateway != "cardpay" || rec.Amount != 50 {
		t.Fatalf("bad payment record: %+v", rec)
	}
}

func TestCreateAppointment_PaymentFailureRollsBack(t *testing.T) {
	repo := newFakeRepo()
	repo.catalogue = []models.DoctorService{consultation(50, false)}

	gw := &fakeGateway{name: "cardpay", err: errors.New("issuer unreachable")}
	uc := newCreateUC(repo, payment.Registry{"cardpay": gw}, nil)

	in := baseInput()
	in.PaymentGateway = "cardpay"

	_, err := uc.Execute(context.Background(), in)
	if !httperr.IsBusiness(err, "payment_failed") {
		t.Fatalf("expected payment_failed, got %v", err)
	}
	if len(repo.st.appointments) != 0 || len(repo.st.payments) != 0 {
		t.Fatalf("expected rollback, got %d appointments, %d payments",
			len(repo.st.appointments), len(repo.st.payments))
	}
}

func TestCreateAppointment_TelemedFailureRollsBack(t *testing.T) {
	repo := newFakeRepo()
	repo.clinic.TelemedEnabled = true
	repo.catalogue = []models.DoctorService{consultation(0, true)}

	provider := &fakeTelemed{createErr: errors.New("quota exceeded")}
	uc := newCreateUC(repo, payment.Registry{}, provider)

	_, err := uc.Execute(context.Background(), baseInput())
	if !httperr.IsBusiness(err, "telemed_meeting_failed") {
		t.Fatalf("expected telemed_meeting_failed, got %v", err)
	}
	if len(repo.st.appointments) != 0 {
		t.Fatalf("expected rollback, got %d appointments", len(repo.st.appointments))
	}
	if len(repo.st.services) != 0 || len(repo.st.meetings) != 0 {
		t.Fatalf("expected no side rows after rollback")
	}
}

func TestCreateAppointment_TelemedStoresMeeting(t *testing.T) {
	repo := newFakeRepo()
	repo.clinic.TelemedEnabled = true
	repo.catalogue = []models.DoctorService{consultation(0, true)}

	provider := &fakeTelemed{}
	uc := newCreateUC(repo, payment.Registry{}, provider)

	out, err := uc.Execute(context.Background(), baseInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := repo.st.meetings[out.Appointment.ID]
	if m == nil || m.MeetingID != "meet-1" || m.Provider != "fakemeet" {
		t.Fatalf("bad meeting row: %+v", m)
	}
}

func TestCreateAppointment_TelemedDisabledRejected(t *testing.T) {
	repo := newFakeRepo()
	repo.clinic.TelemedEnabled = false
	repo.catalogue = []models.DoctorService{consultation(0, true)}

	uc := newCreateUC(repo, payment.Registry{}, &fakeTelemed{})

	_, err := uc.Execute(context.Background(), baseInput())
	if !httperr.IsBusiness(err, "telemed_not_supported") {
		t.Fatalf("expected telemed_not_supported, got %v", err)
	}
}

func TestCreateAppointment_SlotConflict(t *testing.T) {
	repo := newFakeRepo()
	repo.catalogue = []models.DoctorService{consultation(0, false)}

	uc := newCreateUC(repo, payment.Registry{}, nil)

	if _, err := uc.Execute(context.Background(), baseInput()); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	in := baseInput()
	in.ActorID = 5
	in.ActorRole = models.RoleReceptionist
	in.PatientID = 3

	_, err := uc.Execute(context.Background(), in)
	if !httperr.IsBusiness(err, "slot_unavailable") {
		t.Fatalf("expected slot_unavailable, got %v", err)
	}
	if len(repo.st.appointments) != 1 {
		t.Fatalf("expected 1 appointment, got %d", len(repo.st.appointments))
	}
}

func TestCreateAppointment_OffGridTimeRejected(t *testing.T) {
	repo := newFakeRepo()
	repo.catalogue = []models.DoctorService{consultation(0, false)}

	uc := newCreateUC(repo, payment.Registry{}, nil)

	in := baseInput()
	in.Time = "10:10"

	_, err := uc.Execute(context.Background(), in)
	if !httperr.IsBusiness(err, "slot_unavailable") {
		t.Fatalf("expected slot_unavailable, got %v", err)
	}
}

func TestCreateAppointment_PastDateRejected(t *testing.T) {
	repo := newFakeRepo()
	repo.catalogue = []models.DoctorService{consultation(0, false)}

	uc := newCreateUC(repo, payment.Registry{}, nil)

	in := baseInput()
	in.Date = "2020-01-06"

	_, err := uc.Execute(context.Background(), in)
	if !httperr.IsBusiness(err, "past_date_not_allowed") {
		t.Fatalf("expected past_date_not_allowed, got %v", err)
	}
}

func TestCreateAppointment_PatientCannotSetStatus(t *testing.T) {
	repo := newFakeRepo()
	repo.catalogue = []models.DoctorService{consultation(0, false)}

	uc := newCreateUC(repo, payment.Registry{}, nil)

	in := baseInput()
	in.Status = int(domain.StatusCheckIn)

	out, err := uc.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Appointment.Status != int(domain.StatusBooked) {
		t.Fatalf("patient forced status %d", out.Appointment.Status)
	}
}

func TestCreateAppointment_CheckInOpensEncounterAndBill(t *testing.T) {
	repo := newFakeRepo()
	repo.catalogue = []models.DoctorService{consultation(75, false)}

	uc := newCreateUC(repo, payment.Registry{}, nil)

	in := baseInput()
	in.ActorID = 5
	in.ActorRole = models.RoleReceptionist
	in.Status = int(domain.StatusCheckIn)

	out, err := uc.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.st.encounters[out.Appointment.ID] == nil {
		t.Fatal("expected encounter row")
	}
	bill := repo.st.bills[out.Appointment.ID]
	if bill == nil {
		t.Fatal("expected bill row")
	}
	if bill.Total != 75 {
		t.Fatalf("bill total = %v, want 75", bill.Total)
	}
}

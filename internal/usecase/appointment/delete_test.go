package appointment

import (
	"context"
	"testing"

	"go.uber.org/zap"

	domain "github.com/cliniqon/clinic-scheduler/internal/domain/appointment"
	"github.com/cliniqon/clinic-scheduler/internal/httperr"
	"github.com/cliniqon/clinic-scheduler/internal/models"
	"github.com/cliniqon/clinic-scheduler/internal/observer"
)

func TestDeleteAppointment_CascadesEverything(t *testing.T) {
	repo := newFakeRepo()
	repo.clinic.TelemedEnabled = true
	repo.catalogue = []models.DoctorService{consultation(90, true)}

	provider := &fakeTelemed{}
	in := baseInput()
	in.ActorID = 5
	in.ActorRole = models.RoleReceptionist
	out, err := newCreateUC(repo, nil, provider).Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}
	apID := out.Appointment.ID

	// Check in so the encounter and bill exist too.
	if _, err := newStatusUC(repo, provider).Execute(context.Background(), StatusInput{
		AppointmentID: apID,
		Status:        int(domain.StatusCheckIn),
		ActorID:       5,
		ActorRole:     models.RoleReceptionist,
	}); err != nil {
		t.Fatalf("check-in failed: %v", err)
	}

	uc := NewDeleteAppointment(repo, provider, observer.NewDispatcher(zap.NewNop()), zap.NewNop())
	if err := uc.Execute(context.Background(), DeleteInput{
		AppointmentID: apID,
		ActorID:       5,
		ActorRole:     models.RoleAdmin,
	}); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if len(repo.st.appointments) != 0 {
		t.Fatal("appointment survived")
	}
	if len(repo.st.services) != 0 || repo.st.encounters[apID] != nil || repo.st.bills[apID] != nil {
		t.Fatal("side rows survived")
	}
	if repo.st.meetings[apID] != nil {
		t.Fatal("meeting row survived")
	}
	if len(provider.cancelled) != 1 {
		t.Fatalf("provider cancellations = %v", provider.cancelled)
	}
}

func TestDeleteAppointment_NotFound(t *testing.T) {
	repo := newFakeRepo()
	uc := NewDeleteAppointment(repo, nil, observer.NewDispatcher(zap.NewNop()), zap.NewNop())

	err := uc.Execute(context.Background(), DeleteInput{AppointmentID: 42, ActorID: 5, ActorRole: models.RoleAdmin})
	if !httperr.IsBusiness(err, "appointment_not_found") {
		t.Fatalf("expected appointment_not_found, got %v", err)
	}
}

func TestBulkDelete_PartialFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.catalogue = []models.DoctorService{consultation(0, false)}
	ap := bookFixture(t, repo)

	uc := NewDeleteAppointment(repo, nil, observer.NewDispatcher(zap.NewNop()), zap.NewNop())

	deleted, failed := uc.BulkDelete(context.Background(), []uint{ap.ID, 999}, 5, models.RoleAdmin)

	if len(deleted) != 1 || deleted[0] != ap.ID {
		t.Fatalf("deleted = %v", deleted)
	}
	if len(failed) != 1 || failed[0] != 999 {
		t.Fatalf("failed = %v", failed)
	}
}

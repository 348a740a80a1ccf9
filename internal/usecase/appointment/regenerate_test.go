package appointment

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/cliniqon/clinic-scheduler/internal/httperr"
	"github.com/cliniqon/clinic-scheduler/internal/models"
)

func telemedBooking(t *testing.T, repo *fakeRepo, provider *fakeTelemed) *models.Appointment {
	t.Helper()
	repo.clinic.TelemedEnabled = true
	repo.catalogue = []models.DoctorService{consultation(90, true)}

	in := baseInput()
	in.ActorID = 5
	in.ActorRole = models.RoleReceptionist
	out, err := newCreateUC(repo, nil, provider).Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}
	return out.Appointment
}

func TestRegenerateMeeting_ReplacesMeeting(t *testing.T) {
	repo := newFakeRepo()
	provider := &fakeTelemed{}
	ap := telemedBooking(t, repo, provider)

	uc := NewRegenerateMeeting(repo, provider, zap.NewNop())
	meeting, err := uc.Execute(context.Background(), RegenerateInput{
		AppointmentID: ap.ID,
		ActorID:       5,
		ClinicID:      repo.clinic.ID,
		ActorRole:     models.RoleReceptionist,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(provider.cancelled) != 1 || provider.cancelled[0] != "meet-1" {
		t.Fatalf("old meeting not cancelled: %v", provider.cancelled)
	}
	if provider.created != 2 {
		t.Fatalf("provider created %d meetings", provider.created)
	}
	if repo.st.meetings[ap.ID] == nil || repo.st.meetings[ap.ID].MeetingID != meeting.MeetingID {
		t.Fatalf("meeting row not replaced: %+v", repo.st.meetings[ap.ID])
	}
}

func TestRegenerateMeeting_DoctorScope(t *testing.T) {
	repo := newFakeRepo()
	provider := &fakeTelemed{}
	ap := telemedBooking(t, repo, provider)

	uc := NewRegenerateMeeting(repo, provider, zap.NewNop())

	// Another clinic's doctor must not reach the appointment.
	_, err := uc.Execute(context.Background(), RegenerateInput{
		AppointmentID: ap.ID,
		ActorID:       99,
		ClinicID:      repo.clinic.ID,
		ActorRole:     models.RoleDoctor,
	})
	if !httperr.IsBusiness(err, "appointment_not_found") {
		t.Fatalf("expected appointment_not_found, got %v", err)
	}

	// The appointment's own doctor may.
	if _, err := uc.Execute(context.Background(), RegenerateInput{
		AppointmentID: ap.ID,
		ActorID:       repo.doctor.ID,
		ClinicID:      repo.clinic.ID,
		ActorRole:     models.RoleDoctor,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRegenerateMeeting_ClinicScope(t *testing.T) {
	repo := newFakeRepo()
	provider := &fakeTelemed{}
	ap := telemedBooking(t, repo, provider)

	uc := NewRegenerateMeeting(repo, provider, zap.NewNop())
	_, err := uc.Execute(context.Background(), RegenerateInput{
		AppointmentID: ap.ID,
		ActorID:       5,
		ClinicID:      repo.clinic.ID + 1,
		ActorRole:     models.RoleReceptionist,
	})
	if !httperr.IsBusiness(err, "appointment_not_found") {
		t.Fatalf("expected appointment_not_found, got %v", err)
	}
}

func TestRegenerateMeeting_NotTelemed(t *testing.T) {
	repo := newFakeRepo()
	repo.catalogue = []models.DoctorService{consultation(0, false)}
	ap := bookFixture(t, repo)

	uc := NewRegenerateMeeting(repo, &fakeTelemed{}, zap.NewNop())
	_, err := uc.Execute(context.Background(), RegenerateInput{
		AppointmentID: ap.ID,
		ActorID:       5,
		ClinicID:      repo.clinic.ID,
		ActorRole:     models.RoleAdmin,
	})
	if !httperr.IsBusiness(err, "not_a_telemed_appointment") {
		t.Fatalf("expected not_a_telemed_appointment, got %v", err)
	}
}

package appointment

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/cliniqon/clinic-scheduler/internal/httperr"
	"github.com/cliniqon/clinic-scheduler/internal/models"
)

func TestMonthSummary_OmitsSessionlessDays(t *testing.T) {
	repo := newFakeRepo()
	repo.catalogue = []models.DoctorService{consultation(0, false)}

	uc := NewMonthSummary(repo, nil, zap.NewNop())

	out, err := uc.Execute(context.Background(), MonthQuery{
		ClinicID:   1,
		DoctorID:   2,
		ServiceIDs: []uint{10},
		Year:       2030,
		Month:      1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// January 2030 has four Mondays: the 7th, 14th, 21st and 28th. The
	// fixture doctor only holds sessions on Mondays, so every other day
	// must be absent rather than reported as zero.
	if len(out.Days) != 4 {
		t.Fatalf("expected 4 days, got %d: %v", len(out.Days), out.Days)
	}
	for _, date := range []string{"2030-01-07", "2030-01-14", "2030-01-21", "2030-01-28"} {
		dc, ok := out.Days[date]
		if !ok {
			t.Fatalf("missing day %s", date)
		}
		if dc.TotalSlots != 6 || dc.AvailableSlots != 6 {
			t.Fatalf("%s: got %d/%d, want 6/6", date, dc.AvailableSlots, dc.TotalSlots)
		}
		if dc.Weekday != 1 {
			t.Fatalf("%s: weekday = %d", date, dc.Weekday)
		}
	}
	if _, ok := out.Days["2030-01-08"]; ok {
		t.Fatal("sessionless day reported")
	}
}

func TestMonthSummary_BookingReducesAvailability(t *testing.T) {
	repo := newFakeRepo()
	repo.catalogue = []models.DoctorService{consultation(0, false)}

	// Book 10:00 on the first Monday through the regular path.
	createUC := newCreateUC(repo, nil, nil)
	if _, err := createUC.Execute(context.Background(), baseInput()); err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	uc := NewMonthSummary(repo, nil, zap.NewNop())
	out, err := uc.Execute(context.Background(), MonthQuery{
		ClinicID:   1,
		DoctorID:   2,
		ServiceIDs: []uint{10},
		Year:       2030,
		Month:      1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dc := out.Days["2030-01-07"]
	if dc.TotalSlots != 6 || dc.AvailableSlots != 5 {
		t.Fatalf("got %d/%d, want 5/6", dc.AvailableSlots, dc.TotalSlots)
	}
}

func TestMonthSummary_UnknownDoctor(t *testing.T) {
	repo := newFakeRepo()
	uc := NewMonthSummary(repo, nil, zap.NewNop())

	_, err := uc.Execute(context.Background(), MonthQuery{
		ClinicID:   1,
		DoctorID:   99,
		ServiceIDs: []uint{10},
		Year:       2030,
		Month:      1,
	})
	if !httperr.IsBusiness(err, "doctor_not_found") {
		t.Fatalf("expected doctor_not_found, got %v", err)
	}
}

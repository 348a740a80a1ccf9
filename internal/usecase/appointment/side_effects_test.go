package appointment

import (
	"testing"
	"time"

	"github.com/cliniqon/clinic-scheduler/internal/httperr"
)

func TestCombineDateTime(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	got, err := combineDateTime("2030-01-07", "10:00", loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2030, 1, 7, 10, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	withSeconds, err := combineDateTime("2030-01-07", "10:00:00", loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !withSeconds.Equal(got) {
		t.Fatalf("clock formats disagree: %v vs %v", withSeconds, got)
	}
}

func TestCombineDateTime_Invalid(t *testing.T) {
	if _, err := combineDateTime("07/01/2030", "10:00", time.UTC); !httperr.IsBusiness(err, "invalid_date") {
		t.Fatalf("expected invalid_date, got %v", err)
	}
	if _, err := combineDateTime("2030-01-07", "10h00", time.UTC); !httperr.IsBusiness(err, "invalid_time") {
		t.Fatalf("expected invalid_time, got %v", err)
	}
}

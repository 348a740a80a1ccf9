package appointment

import (
	"testing"
	"time"

	"github.com/cliniqon/clinic-scheduler/internal/httperr"
	"github.com/cliniqon/clinic-scheduler/internal/models"
)

func TestBookingWindow_Bounds(t *testing.T) {
	today := time.Date(2026, 9, 7, 15, 30, 0, 0, time.UTC)
	w := BookingWindow{PreBookDays: 2, PostBookDays: 10}

	tests := []struct {
		offsetDays int
		wantCode   string
	}{
		{-1, "past_date_not_allowed"},
		{0, "booking_window_not_open"},
		{1, "booking_window_not_open"},
		{2, ""},
		{10, ""},
		{11, "booking_window_exceeded"},
	}

	for _, tc := range tests {
		date := today.AddDate(0, 0, tc.offsetDays)
		err := w.Allows(date, today)

		if tc.wantCode == "" {
			if err != nil {
				t.Fatalf("offset %d: unexpected error: %v", tc.offsetDays, err)
			}
			continue
		}
		if !httperr.IsBusiness(err, tc.wantCode) {
			t.Fatalf("offset %d: expected %s, got %v", tc.offsetDays, tc.wantCode, err)
		}
	}
}

func TestBookingWindow_SameDayOnly(t *testing.T) {
	today := time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC)
	w := BookingWindow{SameDayOnly: true, PreBookDays: 0, PostBookDays: 30}

	// Later the same day passes even though the clock time is "earlier"
	// than now; comparison is date-only.
	if err := w.Allows(today.Add(2*time.Hour), today); err != nil {
		t.Fatalf("same day rejected: %v", err)
	}
	if err := w.Allows(today.AddDate(0, 0, 1), today); !httperr.IsBusiness(err, "same_day_booking_only") {
		t.Fatalf("expected same_day_booking_only, got %v", err)
	}
	if err := w.Allows(today.AddDate(0, 0, -1), today); !httperr.IsBusiness(err, "past_date_not_allowed") {
		t.Fatalf("expected past_date_not_allowed, got %v", err)
	}
}

func TestWindowFromClinic_Defaults(t *testing.T) {
	w := WindowFromClinic(&models.Clinic{PreBookDays: -3, PostBookDays: 0})

	if w.PreBookDays != 0 {
		t.Fatalf("expected pre 0, got %d", w.PreBookDays)
	}
	if w.PostBookDays != 365 {
		t.Fatalf("expected post 365, got %d", w.PostBookDays)
	}

	today := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	if err := w.Allows(today.AddDate(0, 0, 365), today); err != nil {
		t.Fatalf("day 365 rejected: %v", err)
	}
	if err := w.Allows(today.AddDate(0, 0, 366), today); !httperr.IsBusiness(err, "booking_window_exceeded") {
		t.Fatalf("expected booking_window_exceeded, got %v", err)
	}
}

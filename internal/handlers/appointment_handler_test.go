package handlers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cliniqon/clinic-scheduler/internal/models"
)

func queryCtx(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/appointments?"+rawQuery, nil)
	return c
}

func TestListFilter_SingleDate(t *testing.T) {
	f := listFilter(queryCtx(t, "date=2030-01-07"), models.RoleAdmin)

	if f.DateFrom == nil || f.DateTo == nil {
		t.Fatal("date did not set the range")
	}
	wantFrom := time.Date(2030, 1, 7, 0, 0, 0, 0, time.UTC)
	if !f.DateFrom.Equal(wantFrom) {
		t.Fatalf("from = %v, want %v", f.DateFrom, wantFrom)
	}
	if !f.DateTo.Equal(wantFrom.AddDate(0, 0, 1)) {
		t.Fatalf("to = %v, want next midnight", f.DateTo)
	}
}

func TestListFilter_ExplicitRangeWins(t *testing.T) {
	f := listFilter(queryCtx(t, "date=2030-01-07&date_from=2030-01-01&date_to=2030-01-31"), models.RoleAdmin)

	wantFrom := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	wantTo := time.Date(2030, 2, 1, 0, 0, 0, 0, time.UTC)
	if !f.DateFrom.Equal(wantFrom) || !f.DateTo.Equal(wantTo) {
		t.Fatalf("range = [%v, %v)", f.DateFrom, f.DateTo)
	}
}

func TestListFilter_PerPageAll(t *testing.T) {
	if f := listFilter(queryCtx(t, "per_page=all"), models.RoleAdmin); f.PerPage != 0 {
		t.Fatalf("per_page=all gave %d", f.PerPage)
	}
	if f := listFilter(queryCtx(t, ""), models.RoleAdmin); f.PerPage != 25 {
		t.Fatalf("default per_page = %d", f.PerPage)
	}
}

func TestListFilter_RoleLockedParams(t *testing.T) {
	if f := listFilter(queryCtx(t, "doctor_id=7"), models.RoleDoctor); f.DoctorID != 0 {
		t.Fatal("doctor could pick another doctor's bookings")
	}
	if f := listFilter(queryCtx(t, "patient_id=7"), models.RolePatient); f.PatientID != 0 {
		t.Fatal("patient could pick another patient's bookings")
	}
}

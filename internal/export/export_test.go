package export

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/cliniqon/clinic-scheduler/internal/dto"
)

func TestCSV(t *testing.T) {
	e := New("us-east-1", "", "", "")
	if e.Enabled() {
		t.Fatal("exporter without credentials reported enabled")
	}

	rows := []dto.AppointmentListDTO{
		{
			ID:          7,
			StartTime:   time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC),
			EndTime:     time.Date(2030, 1, 7, 10, 30, 0, 0, time.UTC),
			StatusLabel: "booked",
			ClinicName:  "Main Street Clinic",
			DoctorName:  "Dr. Osei",
			PatientName: "Ada",
			Services:    []string{"Consultation", "ECG"},
			Total:       125.5,
			VisitType:   "clinic",
			Description: `includes "quoted" note`,
		},
	}

	data, err := e.CSV(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header + 1 row, got %d", len(records))
	}

	row := records[1]
	if row[0] != "7" || row[3] != "booked" {
		t.Fatalf("bad row: %v", row)
	}
	if row[7] != "Consultation; ECG" {
		t.Fatalf("services = %q", row[7])
	}
	if row[8] != "125.50" {
		t.Fatalf("total = %q", row[8])
	}
	if row[10] != `includes "quoted" note` {
		t.Fatalf("description mangled: %q", row[10])
	}
}

func TestCSV_Empty(t *testing.T) {
	data, err := New("us-east-1", "", "", "").CSV(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(string(data), "id,start_time") {
		t.Fatalf("missing header: %q", string(data))
	}
}

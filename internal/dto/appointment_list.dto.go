package dto

import "time"

type AppointmentListDTO struct {
	ID          uint      `json:"id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Status      int       `json:"status"`
	StatusLabel string    `json:"status_label"`

	ClinicName  string `json:"clinic_name"`
	DoctorName  string `json:"doctor_name"`
	PatientName string `json:"patient_name"`

	Services []string `json:"services"`
	Total    float64  `json:"total"`

	VisitType   string `json:"visit_type"`
	Description string `json:"description"`
}

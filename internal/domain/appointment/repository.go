package appointment

import (
	"context"
	"time"

	"github.com/cliniqon/clinic-scheduler/internal/models"
)

type ListFilter struct {
	Search    string
	ClinicID  uint
	DoctorID  uint
	PatientID uint
	Status    *int

	DateFrom *time.Time
	DateTo   *time.Time

	OrderBy string
	Order   string

	Page    int
	PerPage int // 0 means all
}

type Repository interface {
	// Transact runs fn against a repository bound to a single database
	// transaction; any error rolls back everything written inside fn.
	Transact(ctx context.Context, fn func(Repository) error) error

	// -------- Entities --------
	GetClinic(ctx context.Context, id uint) (*models.Clinic, error)
	GetDoctor(ctx context.Context, clinicID, doctorID uint) (*models.User, error)
	GetPatient(ctx context.Context, patientID uint) (*models.User, error)

	// GetDoctorServices resolves the selected doctor-service rows; rows
	// not belonging to the doctor/clinic are absent from the result.
	GetDoctorServices(ctx context.Context, clinicID, doctorID uint, ids []uint) (ServiceSelection, error)

	// -------- Schedule reads --------
	ListSessions(ctx context.Context, clinicID, doctorID uint, weekday int) ([]models.Session, error)

	ListBookedIntervals(ctx context.Context, clinicID, doctorID uint, from, to time.Time, excludeAppointmentID uint) ([]Interval, error)

	// LockBookedIntervals is ListBookedIntervals with a row lock, for
	// the re-check inside the booking transaction.
	LockBookedIntervals(ctx context.Context, clinicID, doctorID uint, from, to time.Time, excludeAppointmentID uint) ([]Interval, error)

	// -------- Appointment --------
	CreateAppointment(ctx context.Context, ap *models.Appointment) error
	GetAppointment(ctx context.Context, id uint) (*models.Appointment, error)
	GetAppointmentDetail(ctx context.Context, id uint) (*models.Appointment, error)
	UpdateAppointment(ctx context.Context, ap *models.Appointment) error
	DeleteAppointment(ctx context.Context, id uint) error

	ListAppointments(ctx context.Context, f ListFilter) ([]models.Appointment, int64, error)

	// -------- Side-effect rows --------
	CreateAppointmentServices(ctx context.Context, rows []models.AppointmentService) error
	ListAppointmentServices(ctx context.Context, appointmentID uint) ([]models.AppointmentService, error)
	DeleteAppointmentServices(ctx context.Context, appointmentID uint) error

	// GetEncounter and GetBill return (nil, nil) when no row exists.
	GetEncounter(ctx context.Context, appointmentID uint) (*models.Encounter, error)
	CreateEncounter(ctx context.Context, e *models.Encounter) error
	DeleteEncounter(ctx context.Context, appointmentID uint) error

	GetBill(ctx context.Context, appointmentID uint) (*models.Bill, error)
	CreateBill(ctx context.Context, b *models.Bill) error
	DeleteBill(ctx context.Context, appointmentID uint) error

	CreatePaymentRecord(ctx context.Context, p *models.PaymentRecord) error
	GetPaymentByReference(ctx context.Context, reference string) (*models.PaymentRecord, error)
	UpdatePaymentRecord(ctx context.Context, p *models.PaymentRecord) error
	DeletePaymentRecords(ctx context.Context, appointmentID uint) error

	// GetMeeting returns (nil, nil) when no meeting exists.
	GetMeeting(ctx context.Context, appointmentID uint) (*models.TelemedMeeting, error)
	SaveMeeting(ctx context.Context, m *models.TelemedMeeting) error
	DeleteMeeting(ctx context.Context, appointmentID uint) error
}

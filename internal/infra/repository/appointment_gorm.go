package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/cliniqon/clinic-scheduler/internal/domain/appointment"
	"github.com/cliniqon/clinic-scheduler/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

func (r *AppointmentGormRepository) Transact(
	ctx context.Context,
	fn func(domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Entities
// --------------------------------------------------

func (r *AppointmentGormRepository) GetClinic(
	ctx context.Context,
	id uint,
) (*models.Clinic, error) {

	var clinic models.Clinic
	if err := r.db.WithContext(ctx).First(&clinic, id).Error; err != nil {
		return nil, err
	}
	return &clinic, nil
}

func (r *AppointmentGormRepository) GetDoctor(
	ctx context.Context,
	clinicID uint,
	doctorID uint,
) (*models.User, error) {

	var doctor models.User
	if err := r.db.WithContext(ctx).
		Where("id = ? AND clinic_id = ? AND role = ?", doctorID, clinicID, models.RoleDoctor).
		First(&doctor).Error; err != nil {
		return nil, err
	}
	return &doctor, nil
}

func (r *AppointmentGormRepository) GetPatient(
	ctx context.Context,
	patientID uint,
) (*models.User, error) {

	var patient models.User
	if err := r.db.WithContext(ctx).
		Where("id = ? AND role = ?", patientID, models.RolePatient).
		First(&patient).Error; err != nil {
		return nil, err
	}
	return &patient, nil
}

func (r *AppointmentGormRepository) GetDoctorServices(
	ctx context.Context,
	clinicID uint,
	doctorID uint,
	ids []uint,
) (domain.ServiceSelection, error) {

	var rows []models.DoctorService
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Where("id IN ? AND clinic_id = ? AND doctor_id = ? AND active = ?", ids, clinicID, doctorID, true).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	// Preserve the caller's selection order.
	byID := make(map[uint]models.DoctorService, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}
	out := make(domain.ServiceSelection, 0, len(rows))
	for _, id := range ids {
		if row, ok := byID[id]; ok {
			out = append(out, row)
		}
	}

	return out, nil
}

// --------------------------------------------------
// Schedule reads
// --------------------------------------------------

func (r *AppointmentGormRepository) ListSessions(
	ctx context.Context,
	clinicID uint,
	doctorID uint,
	weekday int,
) ([]models.Session, error) {

	var sessions []models.Session
	if err := r.db.WithContext(ctx).
		Where("clinic_id = ? AND doctor_id = ? AND weekday = ?", clinicID, doctorID, weekday).
		Order("start_time ASC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}

	return sessions, nil
}

func (r *AppointmentGormRepository) ListBookedIntervals(
	ctx context.Context,
	clinicID uint,
	doctorID uint,
	from time.Time,
	to time.Time,
	excludeAppointmentID uint,
) ([]domain.Interval, error) {
	return r.bookedIntervals(ctx, clinicID, doctorID, from, to, excludeAppointmentID, false)
}

func (r *AppointmentGormRepository) LockBookedIntervals(
	ctx context.Context,
	clinicID uint,
	doctorID uint,
	from time.Time,
	to time.Time,
	excludeAppointmentID uint,
) ([]domain.Interval, error) {
	return r.bookedIntervals(ctx, clinicID, doctorID, from, to, excludeAppointmentID, true)
}

func (r *AppointmentGormRepository) bookedIntervals(
	ctx context.Context,
	clinicID uint,
	doctorID uint,
	from time.Time,
	to time.Time,
	excludeAppointmentID uint,
	lock bool,
) ([]domain.Interval, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Select("start_time", "end_time").
		Where(
			"clinic_id = ? AND doctor_id = ? AND status <> ? AND start_time < ? AND end_time > ?",
			clinicID, doctorID, int(domain.StatusCancelled), to, from,
		)

	if excludeAppointmentID != 0 {
		q = q.Where("id <> ?", excludeAppointmentID)
	}
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var rows []models.Appointment
	if err := q.Order("start_time ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Interval, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Interval{Start: row.StartTime, End: row.EndTime})
	}

	return out, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Create(ap).Error
}

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).First(&ap, id).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) GetAppointmentDetail(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Clinic").
		Preload("Doctor").
		Preload("Patient").
		Preload("Services").
		Preload("Services.DoctorService").
		Preload("Services.DoctorService.Service").
		First(&ap, id).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

func (r *AppointmentGormRepository) DeleteAppointment(
	ctx context.Context,
	id uint,
) error {
	return r.db.WithContext(ctx).Delete(&models.Appointment{}, id).Error
}

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.Appointment, int64, error) {

	q := r.db.WithContext(ctx).Model(&models.Appointment{})

	if f.ClinicID != 0 {
		q = q.Where("appointments.clinic_id = ?", f.ClinicID)
	}
	if f.DoctorID != 0 {
		q = q.Where("appointments.doctor_id = ?", f.DoctorID)
	}
	if f.PatientID != 0 {
		q = q.Where("appointments.patient_id = ?", f.PatientID)
	}
	if f.Status != nil {
		q = q.Where("appointments.status = ?", *f.Status)
	}
	if f.DateFrom != nil {
		q = q.Where("appointments.start_time >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q = q.Where("appointments.start_time < ?", *f.DateTo)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Joins("JOIN users AS patients ON patients.id = appointments.patient_id").
			Joins("JOIN users AS doctors ON doctors.id = appointments.doctor_id").
			Where(
				"patients.name ILIKE ? OR doctors.name ILIKE ? OR appointments.description ILIKE ?",
				like, like, like,
			)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := f.OrderBy
	switch orderBy {
	case "", "start_time", "created_at", "status", "id":
		if orderBy == "" {
			orderBy = "start_time"
		}
	default:
		orderBy = "start_time"
	}
	order := "ASC"
	if f.Order == "desc" || f.Order == "DESC" {
		order = "DESC"
	}
	q = q.Order("appointments." + orderBy + " " + order)

	if f.PerPage > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		q = q.Offset((page - 1) * f.PerPage).Limit(f.PerPage)
	}

	var apps []models.Appointment
	if err := q.
		Preload("Clinic").
		Preload("Doctor").
		Preload("Patient").
		Preload("Services").
		Preload("Services.DoctorService").
		Preload("Services.DoctorService.Service").
		Find(&apps).Error; err != nil {
		return nil, 0, err
	}

	return apps, total, nil
}

// --------------------------------------------------
// Appointment services
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointmentServices(
	ctx context.Context,
	rows []models.AppointmentService,
) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *AppointmentGormRepository) ListAppointmentServices(
	ctx context.Context,
	appointmentID uint,
) ([]models.AppointmentService, error) {

	var rows []models.AppointmentService
	if err := r.db.WithContext(ctx).
		Preload("DoctorService").
		Preload("DoctorService.Service").
		Where("appointment_id = ?", appointmentID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AppointmentGormRepository) DeleteAppointmentServices(
	ctx context.Context,
	appointmentID uint,
) error {
	return r.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		Delete(&models.AppointmentService{}).Error
}

// --------------------------------------------------
// Encounter
// --------------------------------------------------

func (r *AppointmentGormRepository) GetEncounter(
	ctx context.Context,
	appointmentID uint,
) (*models.Encounter, error) {

	var e models.Encounter
	err := r.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *AppointmentGormRepository) CreateEncounter(
	ctx context.Context,
	e *models.Encounter,
) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *AppointmentGormRepository) DeleteEncounter(
	ctx context.Context,
	appointmentID uint,
) error {
	return r.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		Delete(&models.Encounter{}).Error
}

// --------------------------------------------------
// Bill
// --------------------------------------------------

func (r *AppointmentGormRepository) GetBill(
	ctx context.Context,
	appointmentID uint,
) (*models.Bill, error) {

	var b models.Bill
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("appointment_id = ?", appointmentID).
		First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *AppointmentGormRepository) CreateBill(
	ctx context.Context,
	b *models.Bill,
) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *AppointmentGormRepository) DeleteBill(
	ctx context.Context,
	appointmentID uint,
) error {

	bill, err := r.GetBill(ctx, appointmentID)
	if err != nil || bill == nil {
		return err
	}

	if err := r.db.WithContext(ctx).
		Where("bill_id = ?", bill.ID).
		Delete(&models.BillItem{}).Error; err != nil {
		return err
	}

	return r.db.WithContext(ctx).Delete(&models.Bill{}, bill.ID).Error
}

// --------------------------------------------------
// Payments
// --------------------------------------------------

func (r *AppointmentGormRepository) CreatePaymentRecord(
	ctx context.Context,
	p *models.PaymentRecord,
) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *AppointmentGormRepository) GetPaymentByReference(
	ctx context.Context,
	reference string,
) (*models.PaymentRecord, error) {

	var p models.PaymentRecord
	err := r.db.WithContext(ctx).
		Where("reference = ?", reference).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *AppointmentGormRepository) UpdatePaymentRecord(
	ctx context.Context,
	p *models.PaymentRecord,
) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *AppointmentGormRepository) DeletePaymentRecords(
	ctx context.Context,
	appointmentID uint,
) error {
	return r.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		Delete(&models.PaymentRecord{}).Error
}

// --------------------------------------------------
// Telemed meetings
// --------------------------------------------------

func (r *AppointmentGormRepository) GetMeeting(
	ctx context.Context,
	appointmentID uint,
) (*models.TelemedMeeting, error) {

	var m models.TelemedMeeting
	err := r.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *AppointmentGormRepository) SaveMeeting(
	ctx context.Context,
	m *models.TelemedMeeting,
) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *AppointmentGormRepository) DeleteMeeting(
	ctx context.Context,
	appointmentID uint,
) error {
	return r.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		Delete(&models.TelemedMeeting{}).Error
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)

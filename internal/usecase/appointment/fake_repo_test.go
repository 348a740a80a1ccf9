package appointment

import (
	"context"
	"errors"
	"time"

	domain "github.com/cliniqon/clinic-scheduler/internal/domain/appointment"
	"github.com/cliniqon/clinic-scheduler/internal/models"
	"github.com/cliniqon/clinic-scheduler/internal/payment"
	"github.com/cliniqon/clinic-scheduler/internal/telemed"
)

// fakeRepo is an in-memory Repository. Transact snapshots the state and
// restores it when fn fails, mirroring a rollback.
type fakeState struct {
	appointments map[uint]*models.Appointment
	services     map[uint][]models.AppointmentService
	encounters   map[uint]*models.Encounter
	bills        map[uint]*models.Bill
	payments     []models.PaymentRecord
	meetings     map[uint]*models.TelemedMeeting
	nextID       uint
}

func newFakeState() *fakeState {
	return &fakeState{
		appointments: map[uint]*models.Appointment{},
		services:     map[uint][]models.AppointmentService{},
		encounters:   map[uint]*models.Encounter{},
		bills:        map[uint]*models.Bill{},
		meetings:     map[uint]*models.TelemedMeeting{},
		nextID:       1,
	}
}

func (s *fakeState) clone() *fakeState {
	c := newFakeState()
	c.nextID = s.nextID
	for k, v := range s.appointments {
		cp := *v
		c.appointments[k] = &cp
	}
	for k, v := range s.services {
		c.services[k] = append([]models.AppointmentService(nil), v...)
	}
	for k, v := range s.encounters {
		cp := *v
		c.encounters[k] = &cp
	}
	for k, v := range s.bills {
		cp := *v
		c.bills[k] = &cp
	}
	for k, v := range s.meetings {
		cp := *v
		c.meetings[k] = &cp
	}
	c.payments = append([]models.PaymentRecord(nil), s.payments...)
	return c
}

type fakeRepo struct {
	clinic    *models.Clinic
	doctor    *models.User
	patient   *models.User
	catalogue []models.DoctorService
	sessions  []models.Session

	st *fakeState
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		clinic: &models.Clinic{
			ID:           1,
			Name:         "Main Street Clinic",
			Timezone:     "UTC",
			Currency:     "USD",
			PostBookDays: 3650,
		},
		doctor: &models.User{
			ID: 2, ClinicID: 1, Name: "Dr. Osei", Email: "osei@clinic.test",
			Role: models.RoleDoctor,
		},
		patient: &models.User{
			ID: 3, ClinicID: 1, Name: "Ada", Email: "ada@patient.test",
			Role: models.RolePatient,
		},
		sessions: []models.Session{
			{ID: 1, ClinicID: 1, DoctorID: 2, Weekday: 1, StartTime: "09:00", EndTime: "12:00"},
		},
		st: newFakeState(),
	}
}

func (r *fakeRepo) Transact(ctx context.Context, fn func(domain.Repository) error) error {
	snapshot := r.st.clone()
	if err := fn(r); err != nil {
		r.st = snapshot
		return err
	}
	return nil
}

func (r *fakeRepo) GetClinic(_ context.Context, id uint) (*models.Clinic, error) {
	if r.clinic == nil || r.clinic.ID != id {
		return nil, errors.New("not found")
	}
	return r.clinic, nil
}

func (r *fakeRepo) GetDoctor(_ context.Context, clinicID, doctorID uint) (*models.User, error) {
	if r.doctor == nil || r.doctor.ID != doctorID || r.doctor.ClinicID != clinicID {
		return nil, errors.New("not found")
	}
	return r.doctor, nil
}

func (r *fakeRepo) GetPatient(_ context.Context, patientID uint) (*models.User, error) {
	if r.patient == nil || r.patient.ID != patientID {
		return nil, errors.New("not found")
	}
	return r.patient, nil
}

func (r *fakeRepo) GetDoctorServices(_ context.Context, clinicID, doctorID uint, ids []uint) (domain.ServiceSelection, error) {
	var out domain.ServiceSelection
	for _, id := range ids {
		for _, svc := range r.catalogue {
			if svc.ID == id && svc.ClinicID == clinicID && svc.DoctorID == doctorID && svc.Active {
				out = append(out, svc)
			}
		}
	}
	return out, nil
}

func (r *fakeRepo) ListSessions(_ context.Context, clinicID, doctorID uint, weekday int) ([]models.Session, error) {
	var out []models.Session
	for _, s := range r.sessions {
		if s.ClinicID == clinicID && s.DoctorID == doctorID && s.Weekday == weekday {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListBookedIntervals(_ context.Context, clinicID, doctorID uint, from, to time.Time, excludeAppointmentID uint) ([]domain.Interval, error) {
	var out []domain.Interval
	for _, ap := range r.st.appointments {
		if ap.ID == excludeAppointmentID || ap.Status == 0 {
			continue
		}
		if ap.ClinicID != clinicID || ap.DoctorID != doctorID {
			continue
		}
		if ap.StartTime.Before(to) && ap.EndTime.After(from) {
			out = append(out, domain.Interval{Start: ap.StartTime, End: ap.EndTime})
		}
	}
	return out, nil
}

func (r *fakeRepo) LockBookedIntervals(ctx context.Context, clinicID, doctorID uint, from, to time.Time, excludeAppointmentID uint) ([]domain.Interval, error) {
	return r.ListBookedIntervals(ctx, clinicID, doctorID, from, to, excludeAppointmentID)
}

func (r *fakeRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	ap.ID = r.st.nextID
	r.st.nextID++
	cp := *ap
	r.st.appointments[ap.ID] = &cp
	return nil
}

func (r *fakeRepo) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	ap, ok := r.st.appointments[id]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *ap
	return &cp, nil
}

func (r *fakeRepo) GetAppointmentDetail(ctx context.Context, id uint) (*models.Appointment, error) {
	ap, err := r.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	ap.Services = r.st.services[id]
	return ap, nil
}

func (r *fakeRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	if _, ok := r.st.appointments[ap.ID]; !ok {
		return errors.New("not found")
	}
	cp := *ap
	r.st.appointments[ap.ID] = &cp
	return nil
}

func (r *fakeRepo) DeleteAppointment(_ context.Context, id uint) error {
	delete(r.st.appointments, id)
	return nil
}

func (r *fakeRepo) ListAppointments(_ context.Context, f domain.ListFilter) ([]models.Appointment, int64, error) {
	var out []models.Appointment
	for _, ap := range r.st.appointments {
		out = append(out, *ap)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRepo) CreateAppointmentServices(_ context.Context, rows []models.AppointmentService) error {
	if len(rows) == 0 {
		return nil
	}
	id := rows[0].AppointmentID
	r.st.services[id] = append(r.st.services[id], rows...)
	return nil
}

func (r *fakeRepo) ListAppointmentServices(_ context.Context, appointmentID uint) ([]models.AppointmentService, error) {
	return r.st.services[appointmentID], nil
}

func (r *fakeRepo) DeleteAppointmentServices(_ context.Context, appointmentID uint) error {
	delete(r.st.services, appointmentID)
	return nil
}

func (r *fakeRepo) GetEncounter(_ context.Context, appointmentID uint) (*models.Encounter, error) {
	return r.st.encounters[appointmentID], nil
}

func (r *fakeRepo) CreateEncounter(_ context.Context, e *models.Encounter) error {
	e.ID = r.st.nextID
	r.st.nextID++
	cp := *e
	r.st.encounters[e.AppointmentID] = &cp
	return nil
}

func (r *fakeRepo) DeleteEncounter(_ context.Context, appointmentID uint) error {
	delete(r.st.encounters, appointmentID)
	return nil
}

func (r *fakeRepo) GetBill(_ context.Context, appointmentID uint) (*models.Bill, error) {
	return r.st.bills[appointmentID], nil
}

func (r *fakeRepo) CreateBill(_ context.Context, b *models.Bill) error {
	b.ID = r.st.nextID
	r.st.nextID++
	cp := *b
	r.st.bills[b.AppointmentID] = &cp
	return nil
}

func (r *fakeRepo) DeleteBill(_ context.Context, appointmentID uint) error {
	delete(r.st.bills, appointmentID)
	return nil
}

func (r *fakeRepo) CreatePaymentRecord(_ context.Context, p *models.PaymentRecord) error {
	p.ID = r.st.nextID
	r.st.nextID++
	r.st.payments = append(r.st.payments, *p)
	return nil
}

func (r *fakeRepo) GetPaymentByReference(_ context.Context, reference string) (*models.PaymentRecord, error) {
	for i := range r.st.payments {
		if r.st.payments[i].Reference == reference {
			cp := r.st.payments[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) UpdatePaymentRecord(_ context.Context, p *models.PaymentRecord) error {
	for i := range r.st.payments {
		if r.st.payments[i].ID == p.ID {
			r.st.payments[i] = *p
			return nil
		}
	}
	return errors.New("not found")
}

func (r *fakeRepo) DeletePaymentRecords(_ context.Context, appointmentID uint) error {
	kept := r.st.payments[:0]
	for _, p := range r.st.payments {
		if p.AppointmentID != appointmentID {
			kept = append(kept, p)
		}
	}
	r.st.payments = kept
	return nil
}

func (r *fakeRepo) GetMeeting(_ context.Context, appointmentID uint) (*models.TelemedMeeting, error) {
	return r.st.meetings[appointmentID], nil
}

func (r *fakeRepo) SaveMeeting(_ context.Context, m *models.TelemedMeeting) error {
	if m.ID == 0 {
		m.ID = r.st.nextID
		r.st.nextID++
	}
	cp := *m
	r.st.meetings[m.AppointmentID] = &cp
	return nil
}

func (r *fakeRepo) DeleteMeeting(_ context.Context, appointmentID uint) error {
	delete(r.st.meetings, appointmentID)
	return nil
}

var _ domain.Repository = (*fakeRepo)(nil)

// ---------- gateway and telemed fakes ----------

type fakeGateway struct {
	name   string
	result payment.Result
	err    error
	calls  int
}

func (g *fakeGateway) Name() string { return g.name }

func (g *fakeGateway) Settings() payment.Settings {
	return payment.Settings{Name: g.name, Enabled: true, Currency: "USD"}
}

func (g *fakeGateway) ProcessPayment(_ context.Context, req payment.Request) (*payment.Result, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	res := g.result
	if res.Reference == "" {
		res.Reference = req.Reference
	}
	return &res, nil
}

func (g *fakeGateway) HandleCallback(_ context.Context, params map[string]string) (*payment.Result, error) {
	if g.err != nil {
		return nil, g.err
	}
	res := g.result
	res.Reference = params["reference"]
	return &res, nil
}

type fakeTelemed struct {
	createErr error
	created   int
	cancelled []string
}

func (f *fakeTelemed) Name() string { return "fakemeet" }

func (f *fakeTelemed) CreateMeeting(_ context.Context, _ telemed.MeetingRequest) (*telemed.Meeting, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created++
	return &telemed.Meeting{MeetingID: "meet-1", JoinURL: "https://meet.test/1"}, nil
}

func (f *fakeTelemed) UpdateMeeting(_ context.Context, _ string, _ telemed.MeetingRequest) error {
	return nil
}

func (f *fakeTelemed) CancelMeeting(_ context.Context, id string) error {
	f.cancelled = append(f.cancelled, id)
	return nil
}

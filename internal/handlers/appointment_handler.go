package handlers

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/cliniqon/clinic-scheduler/internal/domain/appointment"
	"github.com/cliniqon/clinic-scheduler/internal/export"
	"github.com/cliniqon/clinic-scheduler/internal/httperr"
	"github.com/cliniqon/clinic-scheduler/internal/httpresp"
	"github.com/cliniqon/clinic-scheduler/internal/middleware"
	"github.com/cliniqon/clinic-scheduler/internal/models"
	uc "github.com/cliniqon/clinic-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	slots      *uc.GetSlots
	month      *uc.MonthSummary
	summary    *uc.PriceSummary
	create     *uc.CreateAppointment
	update     *uc.UpdateAppointment
	status     *uc.ChangeStatus
	remove     *uc.DeleteAppointment
	list       *uc.ListAppointments
	view       *uc.ViewAppointment
	regenerate *uc.RegenerateMeeting
	exporter   *export.Exporter
}

func NewAppointmentHandler(
	slots *uc.GetSlots,
	month *uc.MonthSummary,
	summary *uc.PriceSummary,
	create *uc.CreateAppointment,
	update *uc.UpdateAppointment,
	status *uc.ChangeStatus,
	remove *uc.DeleteAppointment,
	list *uc.ListAppointments,
	view *uc.ViewAppointment,
	regenerate *uc.RegenerateMeeting,
	exporter *export.Exporter,
) *AppointmentHandler {
	return &AppointmentHandler{
		slots:      slots,
		month:      month,
		summary:    summary,
		create:     create,
		update:     update,
		status:     status,
		remove:     remove,
		list:       list,
		view:       view,
		regenerate: regenerate,
		exporter:   exporter,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ClinicID   uint   `json:"clinic_id"`
	DoctorID   uint   `json:"doctor_id" binding:"required"`
	PatientID  uint   `json:"patient_id"`
	ServiceIDs []uint `json:"service_ids" binding:"required"`

	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`

	Description    string `json:"description"`
	VisitType      string `json:"visit_type"`
	Status         int    `json:"status"`
	PaymentGateway string `json:"payment_gateway"`
}

type UpdateAppointmentRequest struct {
	Date       string  `json:"date"`
	Time       string  `json:"time"`
	ServiceIDs []uint  `json:"service_ids"`
	Description *string `json:"description"`
	VisitType   *string `json:"visit_type"`
	Status      *int    `json:"status"`
}

type StatusRequest struct {
	Status int `json:"status"`
}

type BulkDeleteRequest struct {
	IDs []uint `json:"ids" binding:"required"`
}

// ======================================================
// HELPERS
// ======================================================

func writeBusiness(c *gin.Context, err error) {
	if be, ok := httperr.AsBusiness(err); ok {
		httperr.Write(c, be.Kind.HTTPStatus(), be.Code, be.Code)
		return
	}
	httperr.Internal(c, "internal_error", "Something went wrong.")
}

func parseServiceIDs(raw string) []uint {
	var ids []uint
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if n, err := strconv.ParseUint(part, 10, 32); err == nil {
			ids = append(ids, uint(n))
		}
	}
	return ids
}

// queryServiceIDs accepts the selection as repeated service_id params,
// a comma list, or a JSON array string.
func queryServiceIDs(c *gin.Context) []uint {
	var ids []uint
	for _, raw := range c.QueryArray("service_id") {
		raw = strings.TrimSpace(raw)
		if strings.HasPrefix(raw, "[") {
			var parsed []uint
			if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
				ids = append(ids, parsed...)
			}
			continue
		}
		ids = append(ids, parseServiceIDs(raw)...)
	}
	return ids
}

func paramID(c *gin.Context) (uint, bool) {
	n, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid id.")
		return 0, false
	}
	return uint(n), true
}

// ======================================================
// SLOTS (day and month views)
// ======================================================

// Slots serves two shapes on one route: date=YYYY-MM-DD returns the
// day's slot grid, month=YYYY-MM returns per-day counts for the
// calendar. Exactly one of the two must be present.
func (h *AppointmentHandler) Slots(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)
	if v := c.Query("clinic_id"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			clinicID = uint(n)
		}
	}

	doctorID, err := strconv.ParseUint(c.Query("doctor_id"), 10, 32)
	if err != nil || doctorID == 0 {
		httperr.BadRequest(c, "missing_doctor", "Doctor is required.")
		return
	}

	serviceIDs := queryServiceIDs(c)
	if len(serviceIDs) == 0 {
		httperr.BadRequest(c, "service_required", "At least one service is required.")
		return
	}

	// Set when slots are fetched to reschedule an existing appointment,
	// so its own interval does not block the grid.
	var excludeID uint
	if v := c.Query("appointment_id"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			excludeID = uint(n)
		}
	}

	dateStr := c.Query("date")
	monthStr := c.Query("month")

	switch {
	case dateStr != "" && monthStr == "":
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Date must be YYYY-MM-DD.")
			return
		}

		out, err := h.slots.Execute(c.Request.Context(), uc.SlotQuery{
			ClinicID:             clinicID,
			DoctorID:             uint(doctorID),
			ServiceIDs:           serviceIDs,
			Date:                 date,
			ExcludeAppointmentID: excludeID,
			OnlyAvailable:        c.Query("only_available_slots") == "true",
		})
		if err != nil {
			writeBusiness(c, err)
			return
		}
		httpresp.OK(c, "Slots generated.", out)

	case monthStr != "" && dateStr == "":
		ym, err := time.Parse("2006-01", monthStr)
		if err != nil {
			httperr.BadRequest(c, "invalid_month", "Month must be YYYY-MM.")
			return
		}

		out, err := h.month.Execute(c.Request.Context(), uc.MonthQuery{
			ClinicID:   clinicID,
			DoctorID:   uint(doctorID),
			ServiceIDs: serviceIDs,
			Year:       ym.Year(),
			Month:      int(ym.Month()),
		})
		if err != nil {
			writeBusiness(c, err)
			return
		}
		httpresp.OK(c, "Month summary generated.", out)

	default:
		httperr.BadRequest(c, "missing_date_or_month", "Provide either date or month.")
	}
}

// ======================================================
// PRICE SUMMARY
// ======================================================

func (h *AppointmentHandler) Summary(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	doctorID, err := strconv.ParseUint(c.Query("doctor_id"), 10, 32)
	if err != nil || doctorID == 0 {
		httperr.BadRequest(c, "missing_doctor", "Doctor is required.")
		return
	}

	out, err := h.summary.Execute(c.Request.Context(), uc.SummaryQuery{
		ClinicID:   clinicID,
		DoctorID:   uint(doctorID),
		ServiceIDs: queryServiceIDs(c),
	})
	if err != nil {
		writeBusiness(c, err)
		return
	}
	httpresp.OK(c, "Summary generated.", out)
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(uint)
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)
	role := c.MustGet(middleware.ContextUserRole).(string)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	patientID := req.PatientID
	if role == models.RolePatient {
		// Patients always book for themselves.
		patientID = actorID
	} else if patientID == 0 {
		httperr.BadRequest(c, "missing_patient", "Patient is required.")
		return
	}

	reqClinic := req.ClinicID
	if reqClinic == 0 {
		reqClinic = clinicID
	}

	out, err := h.create.Execute(c.Request.Context(), uc.CreateInput{
		ClinicID:       reqClinic,
		DoctorID:       req.DoctorID,
		PatientID:      patientID,
		ServiceIDs:     req.ServiceIDs,
		Date:           req.Date,
		Time:           req.Time,
		Description:    req.Description,
		VisitType:      req.VisitType,
		Status:         req.Status,
		PaymentGateway: req.PaymentGateway,
		ActorID:        actorID,
		ActorRole:      role,
	})
	if err != nil {
		writeBusiness(c, err)
		return
	}
	httpresp.Created(c, "Appointment created.", out)
}

// ======================================================
// LIST
// ======================================================

// listFilter reads the list query params. date=YYYY-MM-DD pins the
// range to that single day; date_from/date_to set it explicitly.
func listFilter(c *gin.Context, role string) domain.ListFilter {
	f := domain.ListFilter{
		Search:  c.Query("search"),
		OrderBy: c.DefaultQuery("order_by", "start_time"),
		Order:   c.DefaultQuery("order", "asc"),
	}

	if v := c.Query("status"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.Status = &n
		}
	}
	if v := c.Query("doctor_id"); v != "" && role != models.RoleDoctor {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			f.DoctorID = uint(n)
		}
	}
	if v := c.Query("patient_id"); v != "" && role != models.RolePatient {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			f.PatientID = uint(n)
		}
	}
	if v := c.Query("date"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			end := t.AddDate(0, 0, 1)
			f.DateFrom = &t
			f.DateTo = &end
		}
	}
	if v := c.Query("date_from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			f.DateFrom = &t
		}
	}
	if v := c.Query("date_to"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			end := t.AddDate(0, 0, 1)
			f.DateTo = &end
		}
	}
	if v := c.Query("page"); v != "" {
		f.Page, _ = strconv.Atoi(v)
	}
	// per_page=all disables pagination.
	if v := c.DefaultQuery("per_page", "25"); v == "all" {
		f.PerPage = 0
	} else if n, err := strconv.Atoi(v); err == nil && n > 0 {
		f.PerPage = n
	} else {
		f.PerPage = 25
	}

	return f
}

func (h *AppointmentHandler) List(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(uint)
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)
	role := c.MustGet(middleware.ContextUserRole).(string)

	f := listFilter(c, role)
	applyRoleScope(&f, actorID, clinicID, role)

	out, err := h.list.Execute(c.Request.Context(), f)
	if err != nil {
		writeBusiness(c, err)
		return
	}
	httpresp.OK(c, "Appointments listed.", out)
}

// ======================================================
// VIEW
// ======================================================

func (h *AppointmentHandler) View(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.MustGet(middleware.ContextUserRole).(string)

	id, ok := paramID(c)
	if !ok {
		return
	}

	out, err := h.view.Execute(c.Request.Context(), id, actorID, role)
	if err != nil {
		writeBusiness(c, err)
		return
	}
	httpresp.OK(c, "Appointment loaded.", out)
}

// ======================================================
// UPDATE
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.MustGet(middleware.ContextUserRole).(string)

	id, ok := paramID(c)
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	out, err := h.update.Execute(c.Request.Context(), uc.UpdateInput{
		AppointmentID: id,
		Date:          req.Date,
		Time:          req.Time,
		ServiceIDs:    req.ServiceIDs,
		Description:   req.Description,
		VisitType:     req.VisitType,
		Status:        req.Status,
		ActorID:       actorID,
		ActorRole:     role,
	})
	if err != nil {
		writeBusiness(c, err)
		return
	}
	httpresp.OK(c, "Appointment updated.", out)
}

// ======================================================
// STATUS
// ======================================================

func (h *AppointmentHandler) ChangeStatus(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.MustGet(middleware.ContextUserRole).(string)

	id, ok := paramID(c)
	if !ok {
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	out, err := h.status.Execute(c.Request.Context(), uc.StatusInput{
		AppointmentID: id,
		Status:        req.Status,
		ActorID:       actorID,
		ActorRole:     role,
	})
	if err != nil {
		writeBusiness(c, err)
		return
	}
	httpresp.OK(c, "Status updated.", out)
}

// ======================================================
// DELETE
// ======================================================

func (h *AppointmentHandler) Delete(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.MustGet(middleware.ContextUserRole).(string)

	if !canManageAppointments(role) {
		httperr.Forbidden(c, "forbidden", "Not allowed.")
		return
	}

	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.remove.Execute(c.Request.Context(), uc.DeleteInput{
		AppointmentID: id,
		ActorID:       actorID,
		ActorRole:     role,
	}); err != nil {
		writeBusiness(c, err)
		return
	}
	httpresp.OK(c, "Appointment deleted.", gin.H{"id": id})
}

func (h *AppointmentHandler) BulkDelete(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.MustGet(middleware.ContextUserRole).(string)

	if !canManageAppointments(role) {
		httperr.Forbidden(c, "forbidden", "Not allowed.")
		return
	}

	var req BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	deleted, failed := h.remove.BulkDelete(c.Request.Context(), req.IDs, actorID, role)
	httpresp.OK(c, "Bulk delete finished.", gin.H{
		"deleted": deleted,
		"failed":  failed,
	})
}

// ======================================================
// EXPORT
// ======================================================

func (h *AppointmentHandler) Export(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(uint)
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)
	role := c.MustGet(middleware.ContextUserRole).(string)

	if role == models.RolePatient {
		httperr.Forbidden(c, "forbidden", "Not allowed.")
		return
	}

	f := domain.ListFilter{
		OrderBy: "start_time",
		Order:   "asc",
	}
	if v := c.Query("date_from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			f.DateFrom = &t
		}
	}
	if v := c.Query("date_to"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			end := t.AddDate(0, 0, 1)
			f.DateTo = &end
		}
	}
	applyRoleScope(&f, actorID, clinicID, role)

	out, err := h.list.Execute(c.Request.Context(), f)
	if err != nil {
		writeBusiness(c, err)
		return
	}

	data, err := h.exporter.CSV(out.Appointments)
	if err != nil {
		httperr.Internal(c, "export_failed", "Could not render export.")
		return
	}

	if c.Query("upload") == "true" && h.exporter.Enabled() {
		key, err := h.exporter.Upload(c.Request.Context(), clinicID, data)
		if err != nil {
			httperr.Internal(c, "upload_failed", "Could not upload export.")
			return
		}
		httpresp.OK(c, "Export uploaded.", gin.H{"object_key": key})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="appointments.csv"`)
	c.Data(200, "text/csv", data)
}

// ======================================================
// VIDEO MEETING
// ======================================================

func (h *AppointmentHandler) RegenerateMeeting(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(uint)
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)
	role := c.MustGet(middleware.ContextUserRole).(string)
	if !canManageAppointments(role) {
		httperr.Forbidden(c, "forbidden", "Not allowed.")
		return
	}

	id, ok := paramID(c)
	if !ok {
		return
	}

	meeting, err := h.regenerate.Execute(c.Request.Context(), uc.RegenerateInput{
		AppointmentID: id,
		ActorID:       actorID,
		ClinicID:      clinicID,
		ActorRole:     role,
	})
	if err != nil {
		writeBusiness(c, err)
		return
	}
	httpresp.OK(c, "Meeting regenerated.", meeting)
}

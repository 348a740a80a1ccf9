package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cliniqon/clinic-scheduler/internal/middleware"
	"github.com/cliniqon/clinic-scheduler/internal/models"
)

// DoctorServiceHandler manages the bookable catalogue: which services
// a doctor offers, at what duration and charge.
type DoctorServiceHandler struct {
	db *gorm.DB
}

func NewDoctorServiceHandler(db *gorm.DB) *DoctorServiceHandler {
	return &DoctorServiceHandler{db: db}
}

// --------- Requests ---------

type CreateDoctorServiceRequest struct {
	DoctorID    uint    `json:"doctor_id" binding:"required"`
	ServiceName string  `json:"service_name" binding:"required"`
	Category    string  `json:"category"`
	DurationMin int     `json:"duration_min" binding:"required,min=1"`
	Charge      float64 `json:"charge"`
	Telemed     bool    `json:"telemed"`
}

type UpdateDoctorServiceRequest struct {
	DurationMin *int     `json:"duration_min,omitempty"`
	Charge      *float64 `json:"charge,omitempty"`
	Telemed     *bool    `json:"telemed,omitempty"`
	Active      *bool    `json:"active,omitempty"`
}

// --------- Handlers ---------

func (h *DoctorServiceHandler) List(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	q := h.db.Preload("Service").Where("clinic_id = ?", clinicID)

	if v := c.Query("doctor_id"); v != "" {
		q = q.Where("doctor_id = ?", v)
	}
	if activeStr := strings.TrimSpace(c.Query("active")); activeStr != "" {
		q = q.Where("active = ?", activeStr == "true")
	}
	if telemedStr := strings.TrimSpace(c.Query("telemed")); telemedStr != "" {
		q = q.Where("telemed = ?", telemedStr == "true")
	}

	var rows []models.DoctorService
	if err := q.Order("id ASC").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_services"})
		return
	}

	c.JSON(http.StatusOK, rows)
}

// Create reuses an existing service row by name or registers a new one,
// then attaches the doctor's own duration and charge to it.
func (h *DoctorServiceHandler) Create(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	var req CreateDoctorServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	var doctor models.User
	if err := h.db.
		Where("id = ? AND clinic_id = ? AND role = ?", req.DoctorID, clinicID, models.RoleDoctor).
		First(&doctor).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "doctor_not_found"})
		return
	}

	name := strings.TrimSpace(req.ServiceName)

	var service models.Service
	if err := h.db.Where("LOWER(name) = LOWER(?)", name).First(&service).Error; err != nil {
		service = models.Service{Name: name, Category: req.Category}
		if err := h.db.Create(&service).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_service"})
			return
		}
	}

	row := models.DoctorService{
		ServiceID:   service.ID,
		DoctorID:    req.DoctorID,
		ClinicID:    clinicID,
		DurationMin: req.DurationMin,
		Charge:      req.Charge,
		Telemed:     req.Telemed,
		Active:      true,
	}
	if err := h.db.Create(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_doctor_service"})
		return
	}

	row.Service = service
	c.JSON(http.StatusCreated, row)
}

func (h *DoctorServiceHandler) Update(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)
	id := c.Param("id")

	var row models.DoctorService
	if err := h.db.
		Where("id = ? AND clinic_id = ?", id, clinicID).
		First(&row).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "service_not_found"})
		return
	}

	var req UpdateDoctorServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if req.DurationMin != nil {
		if *req.DurationMin < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_duration"})
			return
		}
		row.DurationMin = *req.DurationMin
	}
	if req.Charge != nil {
		row.Charge = *req.Charge
	}
	if req.Telemed != nil {
		row.Telemed = *req.Telemed
	}
	if req.Active != nil {
		row.Active = *req.Active
	}

	if err := h.db.Save(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_update_doctor_service"})
		return
	}

	c.JSON(http.StatusOK, row)
}

// Delete deactivates instead of removing so past appointments keep
// their snapshot reference.
func (h *DoctorServiceHandler) Delete(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)
	id := c.Param("id")

	var row models.DoctorService
	if err := h.db.
		Where("id = ? AND clinic_id = ?", id, clinicID).
		First(&row).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "service_not_found"})
		return
	}

	row.Active = false
	if err := h.db.Save(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_delete_doctor_service"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cliniqon/clinic-scheduler/internal/middleware"
	"github.com/cliniqon/clinic-scheduler/internal/models"
)

// SessionHandler manages a doctor's recurring weekly availability.
type SessionHandler struct {
	db *gorm.DB
}

func NewSessionHandler(db *gorm.DB) *SessionHandler {
	return &SessionHandler{db: db}
}

type SessionConfig struct {
	Weekday   int    `json:"weekday" binding:"min=0,max=6"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

type SessionsUpdateRequest struct {
	DoctorID uint            `json:"doctor_id"`
	Sessions []SessionConfig `json:"sessions" binding:"required"`
}

func (h *SessionHandler) resolveDoctorID(c *gin.Context, requested uint) (uint, bool) {
	actorID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.MustGet(middleware.ContextUserRole).(string)

	if role == models.RoleDoctor {
		return actorID, true
	}
	if role == models.RolePatient {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return 0, false
	}
	if requested == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_doctor"})
		return 0, false
	}
	return requested, true
}

func (h *SessionHandler) List(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	var requested uint
	if v := c.Query("doctor_id"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			requested = uint(n)
		}
	}
	doctorID, ok := h.resolveDoctorID(c, requested)
	if !ok {
		return
	}

	var sessions []models.Session
	if err := h.db.
		Where("clinic_id = ? AND doctor_id = ?", clinicID, doctorID).
		Order("weekday ASC, start_time ASC").
		Find(&sessions).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_sessions"})
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// Update replaces the doctor's whole weekly grid in one call, the same
// shape the settings screen submits.
func (h *SessionHandler) Update(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	var req SessionsUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	doctorID, ok := h.resolveDoctorID(c, req.DoctorID)
	if !ok {
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("clinic_id = ? AND doctor_id = ?", clinicID, doctorID).
			Delete(&models.Session{}).Error; err != nil {
			return err
		}

		var toCreate []models.Session
		for _, s := range req.Sessions {
			toCreate = append(toCreate, models.Session{
				ClinicID:  clinicID,
				DoctorID:  doctorID,
				Weekday:   s.Weekday,
				StartTime: s.StartTime,
				EndTime:   s.EndTime,
			})
		}
		if len(toCreate) > 0 {
			if err := tx.Create(&toCreate).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_save_sessions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

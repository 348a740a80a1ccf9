package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cliniqon/clinic-scheduler/internal/httperr"
	"github.com/cliniqon/clinic-scheduler/internal/middleware"
	"github.com/cliniqon/clinic-scheduler/internal/models"
	"github.com/cliniqon/clinic-scheduler/internal/timezone"
)

type ClinicHandler struct {
	db *gorm.DB
}

func NewClinicHandler(db *gorm.DB) *ClinicHandler {
	return &ClinicHandler{db: db}
}

type UpdateClinicConfigRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`

	Timezone *string `json:"timezone"`
	Currency *string `json:"currency"`

	SameDayBooking *bool `json:"same_day_booking"`
	PreBookDays    *int  `json:"pre_book_days"`
	PostBookDays   *int  `json:"post_book_days"`

	TelemedEnabled *bool `json:"telemed_enabled"`
}

func (h *ClinicHandler) GetMeClinic(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	var clinic models.Clinic
	if err := h.db.First(&clinic, clinicID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "clinic_not_found", "Clinic not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_clinic", "Could not load clinic.")
		return
	}

	c.JSON(http.StatusOK, clinic)
}

func (h *ClinicHandler) UpdateMeClinic(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	var clinic models.Clinic
	if err := h.db.First(&clinic, clinicID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "clinic_not_found", "Clinic not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_clinic", "Could not load clinic.")
		return
	}

	var req UpdateClinicConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if req.Name != nil {
		clinic.Name = *req.Name
	}
	if req.Phone != nil {
		clinic.Phone = *req.Phone
	}
	if req.Address != nil {
		clinic.Address = *req.Address
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Unknown timezone.")
			return
		}
		clinic.Timezone = *req.Timezone
	}
	if req.Currency != nil {
		clinic.Currency = *req.Currency
	}
	if req.SameDayBooking != nil {
		clinic.SameDayBooking = *req.SameDayBooking
	}
	if req.PreBookDays != nil {
		if *req.PreBookDays < 0 {
			httperr.BadRequest(c, "invalid_pre_book_days", "Pre-book days must be zero or positive.")
			return
		}
		clinic.PreBookDays = *req.PreBookDays
	}
	if req.PostBookDays != nil {
		if *req.PostBookDays < 0 {
			httperr.BadRequest(c, "invalid_post_book_days", "Post-book days must be zero or positive.")
			return
		}
		clinic.PostBookDays = *req.PostBookDays
	}
	if req.TelemedEnabled != nil {
		clinic.TelemedEnabled = *req.TelemedEnabled
	}

	if err := h.db.Save(&clinic).Error; err != nil {
		httperr.Internal(c, "failed_to_update_clinic", "Could not save clinic settings.")
		return
	}

	c.JSON(http.StatusOK, clinic)
}

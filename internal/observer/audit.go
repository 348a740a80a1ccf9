package observer

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"github.com/cliniqon/clinic-scheduler/internal/models"
)

// AuditObserver persists one audit row per committed event.
type AuditObserver struct {
	db *gorm.DB
}

func NewAuditObserver(db *gorm.DB) *AuditObserver {
	return &AuditObserver{db: db}
}

func (o *AuditObserver) Notify(ctx context.Context, ev Event) error {
	var metaJSON string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			metaJSON = string(b)
		}
	}

	entityID := ev.AppointmentID
	row := models.AuditLog{
		ClinicID: ev.ClinicID,
		UserID:   ev.ActorID,
		Action:   ev.Action,
		Entity:   "appointment",
		EntityID: &entityID,
		Metadata: metaJSON,
	}

	return o.db.WithContext(ctx).Create(&row).Error
}

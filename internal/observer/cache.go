package observer

import (
	"context"

	"github.com/cliniqon/clinic-scheduler/internal/cache"
)

// CacheObserver drops the cached month summaries touched by a write.
type CacheObserver struct {
	cache *cache.Cache
}

func NewCacheObserver(c *cache.Cache) *CacheObserver {
	return &CacheObserver{cache: c}
}

func (o *CacheObserver) Notify(ctx context.Context, ev Event) error {
	if ev.Appointment != nil {
		o.cache.InvalidateMonth(
			ctx,
			ev.Appointment.ClinicID,
			ev.Appointment.DoctorID,
			ev.Appointment.StartTime.Format("2006-01"),
		)
	}
	if ev.OldStart != nil && ev.Appointment != nil {
		o.cache.InvalidateMonth(
			ctx,
			ev.Appointment.ClinicID,
			ev.Appointment.DoctorID,
			ev.OldStart.Format("2006-01"),
		)
	}
	return nil
}

package observer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cliniqon/clinic-scheduler/internal/models"
)

// Event describes a committed appointment change. Dispatch happens
// strictly after commit; observers must never fail the booking.
type Event struct {
	Action string

	ClinicID      uint
	ActorID       *uint
	AppointmentID uint

	// Snapshot of the committed row, when the action still has one.
	Appointment *models.Appointment

	// Previous start time on reschedules, for cache invalidation.
	OldStart *time.Time

	Telemed  bool
	Metadata any
}

type Observer interface {
	Notify(ctx context.Context, ev Event) error
}

type Dispatcher struct {
	observers []Observer
	queue     chan Event
	logger    *zap.Logger
}

func NewDispatcher(logger *zap.Logger, observers ...Observer) *Dispatcher {
	d := &Dispatcher{
		observers: observers,
		queue:     make(chan Event, 100),
		logger:    logger,
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		for _, o := range d.observers {
			if err := o.Notify(ctx, ev); err != nil {
				d.logger.Error("observer failed",
					zap.String("action", ev.Action),
					zap.Uint("appointment_id", ev.AppointmentID),
					zap.Error(err),
				)
			}
		}
		cancel()
	}
}

// Dispatch never blocks the request; when the queue is full the event
// is dropped rather than delaying the API.
func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		d.logger.Warn("observer queue full, dropping event",
			zap.String("action", ev.Action),
		)
	}
}

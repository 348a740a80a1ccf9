package observer

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
)

// CalendarObserver mirrors committed appointments onto an external
// calendar. Runs only after commit; a sync failure is logged by the
// dispatcher and never affects the booking.
type CalendarObserver struct {
	svc        *calendar.Service
	calendarID string
}

func NewCalendarObserver(svc *calendar.Service, calendarID string) *CalendarObserver {
	return &CalendarObserver{svc: svc, calendarID: calendarID}
}

func (o *CalendarObserver) Notify(ctx context.Context, ev Event) error {
	if o.svc == nil {
		return nil
	}

	switch ev.Action {
	case "appointment_created", "appointment_updated":
		// Telemed bookings already live on the calendar via their
		// meeting event.
		if ev.Appointment == nil || ev.Telemed {
			return nil
		}
		return o.upsert(ctx, ev)
	case "appointment_cancelled", "appointment_deleted":
		return o.remove(ctx, ev)
	}
	return nil
}

func (o *CalendarObserver) eventID(appointmentID uint) string {
	// Calendar event ids must be lowercase base32hex; a fixed prefix
	// plus the numeric id satisfies that.
	return fmt.Sprintf("clinicappt%d", appointmentID)
}

func (o *CalendarObserver) upsert(ctx context.Context, ev Event) error {
	ap := ev.Appointment
	body := &calendar.Event{
		Id:      o.eventID(ap.ID),
		Summary: fmt.Sprintf("Appointment #%d", ap.ID),
		Start:   &calendar.EventDateTime{DateTime: ap.StartTime.Format(time.RFC3339)},
		End:     &calendar.EventDateTime{DateTime: ap.EndTime.Format(time.RFC3339)},
	}

	_, err := o.svc.Events.Insert(o.calendarID, body).Context(ctx).Do()
	if isAlreadyExists(err) {
		_, err = o.svc.Events.Update(o.calendarID, body.Id, body).Context(ctx).Do()
	}
	return err
}

func (o *CalendarObserver) remove(ctx context.Context, ev Event) error {
	err := o.svc.Events.Delete(o.calendarID, o.eventID(ev.AppointmentID)).Context(ctx).Do()
	if isNotFound(err) {
		return nil
	}
	return err
}

func isAlreadyExists(err error) bool {
	if gErr, ok := err.(*googleapi.Error); ok {
		return gErr.Code == 409
	}
	return false
}

func isNotFound(err error) bool {
	if gErr, ok := err.(*googleapi.Error); ok {
		return gErr.Code == 404 || gErr.Code == 410
	}
	return false
}

package appointment

import "github.com/cliniqon/clinic-scheduler/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status int

const (
	StatusCancelled Status = 0
	StatusBooked    Status = 1
	StatusPending   Status = 2
	StatusCheckOut  Status = 3
	StatusCheckIn   Status = 4
)

func (s Status) Valid() bool {
	return s >= StatusCancelled && s <= StatusCheckIn
}

func (s Status) String() string {
	switch s {
	case StatusCancelled:
		return "cancelled"
	case StatusBooked:
		return "booked"
	case StatusPending:
		return "pending"
	case StatusCheckOut:
		return "checkout"
	case StatusCheckIn:
		return "checkin"
	}
	return "unknown"
}

// CanTransition guards status changes. Cancelled is terminal.
func CanTransition(from, to Status) error {
	if !to.Valid() {
		return httperr.ErrValidation("invalid_status")
	}
	if from == StatusCancelled {
		return httperr.ErrValidation("appointment_cancelled")
	}
	return nil
}

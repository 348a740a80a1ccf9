package telemed

import (
	"context"
	"time"
)

type MeetingRequest struct {
	Topic    string
	Start    time.Time
	End      time.Time
	Timezone string

	DoctorEmail  string
	PatientEmail string
}

type Meeting struct {
	MeetingID string
	JoinURL   string
	StartURL  string
}

// Provider is the external video-meeting integration used for virtual
// visits.
type Provider interface {
	Name() string
	CreateMeeting(ctx context.Context, req MeetingRequest) (*Meeting, error)
	UpdateMeeting(ctx context.Context, meetingID string, req MeetingRequest) error
	CancelMeeting(ctx context.Context, meetingID string) error
}

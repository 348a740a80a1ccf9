package telemed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"google.golang.org/api/calendar/v3"
)

// GoogleMeetProvider backs meetings with calendar events carrying
// conference data; the generated Meet link is the join URL.
type GoogleMeetProvider struct {
	svc        *calendar.Service
	calendarID string
}

func NewGoogleMeet(svc *calendar.Service, calendarID string) *GoogleMeetProvider {
	return &GoogleMeetProvider{svc: svc, calendarID: calendarID}
}

func (p *GoogleMeetProvider) Name() string { return "googlemeet" }

func (p *GoogleMeetProvider) CreateMeeting(ctx context.Context, req MeetingRequest) (*Meeting, error) {
	ev := &calendar.Event{
		Summary: req.Topic,
		Start: &calendar.EventDateTime{
			DateTime: req.Start.Format(time.RFC3339),
			TimeZone: req.Timezone,
		},
		End: &calendar.EventDateTime{
			DateTime: req.End.Format(time.RFC3339),
			TimeZone: req.Timezone,
		},
		ConferenceData: &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId: uuid.NewString(),
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{
					Type: "hangoutsMeet",
				},
			},
		},
	}

	created, err := p.svc.Events.Insert(p.calendarID, ev).
		ConferenceDataVersion(1).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("google meet create: %w", err)
	}

	return &Meeting{
		MeetingID: created.Id,
		JoinURL:   created.HangoutLink,
		StartURL:  created.HtmlLink,
	}, nil
}

func (p *GoogleMeetProvider) UpdateMeeting(ctx context.Context, meetingID string, req MeetingRequest) error {
	patch := &calendar.Event{
		Start: &calendar.EventDateTime{
			DateTime: req.Start.Format(time.RFC3339),
			TimeZone: req.Timezone,
		},
		End: &calendar.EventDateTime{
			DateTime: req.End.Format(time.RFC3339),
			TimeZone: req.Timezone,
		},
	}

	if _, err := p.svc.Events.Patch(p.calendarID, meetingID, patch).
		Context(ctx).
		Do(); err != nil {
		return fmt.Errorf("google meet update: %w", err)
	}

	return nil
}

func (p *GoogleMeetProvider) CancelMeeting(ctx context.Context, meetingID string) error {
	if err := p.svc.Events.Delete(p.calendarID, meetingID).
		Context(ctx).
		Do(); err != nil {
		return fmt.Errorf("google meet cancel: %w", err)
	}
	return nil
}

var _ Provider = (*GoogleMeetProvider)(nil)

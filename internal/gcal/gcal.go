package gcal

import (
	"context"
	"errors"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// NewService builds a Calendar API client from service-account JSON.
// Returns an error when no credentials are configured so callers can
// run without the integration.
func NewService(ctx context.Context, credentialsJSON string) (*calendar.Service, error) {
	if credentialsJSON == "" {
		return nil, errors.New("google credentials not configured")
	}

	return calendar.NewService(
		ctx,
		option.WithCredentialsJSON([]byte(credentialsJSON)),
		option.WithScopes(calendar.CalendarScope),
	)
}

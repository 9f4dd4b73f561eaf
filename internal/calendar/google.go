package calendar

import (
	"context"
	"fmt"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// maxPageResults is the provider's documented per-page maximum.
const maxPageResults = 2500

// GoogleSource fetches events from a single Google Calendar using a
// service account credential.
type GoogleSource struct {
	calendarID string

	// listPage fetches one provider page; split out so the paging loop
	// can be exercised without the network.
	listPage func(ctx context.Context, start, end time.Time, pageToken string) (*gcal.Events, error)
}

// NewGoogleSource builds a calendar client from a service account key.
func NewGoogleSource(ctx context.Context, serviceAccountKey []byte, calendarID string) (*GoogleSource, error) {
	if calendarID == "" {
		return nil, fmt.Errorf("calendar id is required")
	}
	svc, err := gcal.NewService(ctx,
		option.WithCredentialsJSON(serviceAccountKey),
		option.WithScopes(gcal.CalendarReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}

	s := &GoogleSource{calendarID: calendarID}
	s.listPage = func(ctx context.Context, start, end time.Time, pageToken string) (*gcal.Events, error) {
		call := svc.Events.List(calendarID).
			TimeMin(start.Format(time.RFC3339)).
			TimeMax(end.Format(time.RFC3339)).
			MaxResults(maxPageResults).
			SingleEvents(true).
			OrderBy("startTime").
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		return call.Do()
	}
	return s, nil
}

// FetchWindow lists all events whose start falls in [start, end], paging
// through the provider until the continuation token runs out. Recurring
// events arrive expanded as single occurrences in start-time order. Any
// page failure aborts the whole fetch.
func (s *GoogleSource) FetchWindow(ctx context.Context, start, end time.Time) ([]Event, error) {
	var all []Event
	pageToken := ""
	for {
		page, err := s.listPage(ctx, start, end, pageToken)
		if err != nil {
			return nil, fmt.Errorf("list events %s..%s: %w", start.Format(time.RFC3339), end.Format(time.RFC3339), err)
		}

		for _, item := range page.Items {
			all = append(all, fromGoogleEvent(item))
		}

		pageToken = page.NextPageToken
		if pageToken == "" {
			return all, nil
		}
	}
}

func fromGoogleEvent(item *gcal.Event) Event {
	ev := Event{
		ID:          item.Id,
		Title:       item.Summary,
		Description: item.Description,
		Location:    item.Location,
		MeetLink:    item.HangoutLink,
		HTMLLink:    item.HtmlLink,
	}
	// All-day events carry Date instead of DateTime and keep zero
	// instants here, which makes the orchestrator skip them.
	if item.Start != nil && item.Start.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, item.Start.DateTime); err == nil {
			ev.Start = t
		}
	}
	if item.End != nil && item.End.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, item.End.DateTime); err == nil {
			ev.End = t
		}
	}
	if item.Organizer != nil {
		ev.OrganizerEmail = item.Organizer.Email
	}
	for _, a := range item.Attendees {
		ev.Attendees = append(ev.Attendees, Attendee{Email: a.Email, DisplayName: a.DisplayName})
	}
	for _, att := range item.Attachments {
		if att.FileUrl != "" {
			ev.AttachmentURLs = append(ev.AttachmentURLs, att.FileUrl)
		}
	}
	return ev
}

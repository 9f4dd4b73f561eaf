package calendar

import (
	"context"
	"strings"
	"time"
)

// Attendee is one participant of a raw calendar event.
type Attendee struct {
	Email       string
	DisplayName string
}

// Event is a provider-neutral calendar event as returned by a Source.
// Start/End are zero for all-day or otherwise malformed events; such
// events are skipped upstream and never persisted.
type Event struct {
	ID             string
	Title          string
	Description    string
	Location       string
	Start          time.Time
	End            time.Time
	OrganizerEmail string
	Attendees      []Attendee
	AttachmentURLs []string
	MeetLink       string
	HTMLLink       string
}

// HasSchedule reports whether the event carries concrete start/end instants.
func (e Event) HasSchedule() bool {
	return !e.Start.IsZero() && !e.End.IsZero()
}

// ScheduledMinutes is the planned duration in whole minutes, rounded to
// nearest, never negative.
func (e Event) ScheduledMinutes() int {
	if !e.HasSchedule() {
		return 0
	}
	d := e.End.Sub(e.Start)
	if d < 0 {
		return 0
	}
	return int((d + 30*time.Second) / time.Minute)
}

// Source lists calendar events whose start falls in a time window. The
// whole window is fetched before any event is processed; a page failure
// aborts the fetch and is fatal for the sync run.
type Source interface {
	FetchWindow(ctx context.Context, start, end time.Time) ([]Event, error)
}

// meetingMarkers are the substrings that make a title "meeting-like".
// Events without any of them are ignored by the sync pipeline before
// classification.
var meetingMarkers = []string{"面談", "講師", "受講"}

// IsMeetingTitle reports whether the title looks like an interview meeting.
func IsMeetingTitle(title string) bool {
	for _, m := range meetingMarkers {
		if strings.Contains(title, m) {
			return true
		}
	}
	return false
}

// SplitAttachments separates attachment URLs into document and video
// links, keeping insertion order. Only Google Docs/Drive URLs are
// considered; anything else is dropped.
func SplitAttachments(urls []string) (documents, videos []string) {
	for _, url := range urls {
		if url == "" {
			continue
		}
		if !strings.Contains(url, "docs.google.com") && !strings.Contains(url, "drive.google.com") {
			continue
		}
		switch {
		case strings.Contains(url, "/document/") || strings.Contains(url, "docx") || strings.Contains(url, "pdf"):
			documents = append(documents, url)
		case strings.Contains(url, "/file/") || strings.Contains(url, "mp4") || strings.Contains(url, "mov"):
			videos = append(videos, url)
		}
	}
	return documents, videos
}

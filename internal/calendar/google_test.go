package calendar

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	gcal "google.golang.org/api/calendar/v3"
)

func TestFetchWindowPagination(t *testing.T) {
	pages := map[string]*gcal.Events{
		"": {
			Items:         []*gcal.Event{{Id: "ev1", Summary: "講師面談 A"}, {Id: "ev2", Summary: "講師面談 B"}},
			NextPageToken: "page2",
		},
		"page2": {
			Items:         []*gcal.Event{{Id: "ev3", Summary: "受講開始面談 C"}},
			NextPageToken: "page3",
		},
		"page3": {
			Items: []*gcal.Event{{Id: "ev4", Summary: "講師面談 D"}},
		},
	}

	var tokensSeen []string
	src := &GoogleSource{calendarID: "cal@example.com"}
	src.listPage = func(ctx context.Context, start, end time.Time, pageToken string) (*gcal.Events, error) {
		tokensSeen = append(tokensSeen, pageToken)
		page, ok := pages[pageToken]
		if !ok {
			t.Fatalf("unexpected page token %q", pageToken)
		}
		return page, nil
	}

	events, err := src.FetchWindow(context.Background(), time.Now(), time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("FetchWindow: %v", err)
	}
	if len(events) != 4 {
		t.Fatalf("got %d events, want 4", len(events))
	}
	wantIDs := []string{"ev1", "ev2", "ev3", "ev4"}
	for i, id := range wantIDs {
		if events[i].ID != id {
			t.Errorf("events[%d].ID = %q, want %q", i, events[i].ID, id)
		}
	}
	if len(tokensSeen) != 3 || tokensSeen[1] != "page2" || tokensSeen[2] != "page3" {
		t.Errorf("page tokens requested = %v", tokensSeen)
	}
}

func TestFetchWindowPageErrorAborts(t *testing.T) {
	calls := 0
	src := &GoogleSource{calendarID: "cal@example.com"}
	src.listPage = func(ctx context.Context, start, end time.Time, pageToken string) (*gcal.Events, error) {
		calls++
		if pageToken == "" {
			return &gcal.Events{
				Items:         []*gcal.Event{{Id: "ev1"}},
				NextPageToken: "page2",
			}, nil
		}
		return nil, errors.New("quota exceeded")
	}

	events, err := src.FetchWindow(context.Background(), time.Now(), time.Now())
	if err == nil {
		t.Fatal("expected error from failing page")
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("error %q does not carry the cause", err)
	}
	if events != nil {
		t.Errorf("partial results must not be returned, got %d events", len(events))
	}
	if calls != 2 {
		t.Errorf("made %d page calls, want 2", calls)
	}
}

func TestFromGoogleEvent(t *testing.T) {
	item := &gcal.Event{
		Id:          "abc123",
		Summary:     "山田さん 講師面談",
		Description: "初回面談",
		Location:    "オンライン",
		HangoutLink: "https://meet.google.com/xxx-yyyy-zzz",
		HtmlLink:    "https://calendar.google.com/event?eid=abc",
		Start:       &gcal.EventDateTime{DateTime: "2025-07-16T20:00:00+09:00"},
		End:         &gcal.EventDateTime{DateTime: "2025-07-16T21:00:00+09:00"},
		Organizer:   &gcal.EventOrganizer{Email: "staff@digital-hacks.com"},
		Attendees: []*gcal.EventAttendee{
			{Email: "staff@digital-hacks.com", DisplayName: "Staff"},
			{Email: "yamada@example.com", DisplayName: "山田太郎"},
		},
		Attachments: []*gcal.EventAttachment{
			{FileUrl: "https://drive.google.com/file/d/vid1/view"},
			{FileUrl: ""},
		},
	}

	ev := fromGoogleEvent(item)
	if ev.ID != "abc123" || ev.Title != "山田さん 講師面談" {
		t.Errorf("identity fields not mapped: %+v", ev)
	}
	if !ev.HasSchedule() {
		t.Fatal("timed event should have a schedule")
	}
	if got := ev.ScheduledMinutes(); got != 60 {
		t.Errorf("ScheduledMinutes = %d, want 60", got)
	}
	if ev.OrganizerEmail != "staff@digital-hacks.com" {
		t.Errorf("OrganizerEmail = %q", ev.OrganizerEmail)
	}
	if len(ev.Attendees) != 2 || ev.Attendees[1].DisplayName != "山田太郎" {
		t.Errorf("attendees not mapped: %+v", ev.Attendees)
	}
	if len(ev.AttachmentURLs) != 1 || ev.AttachmentURLs[0] != "https://drive.google.com/file/d/vid1/view" {
		t.Errorf("attachments not mapped: %v", ev.AttachmentURLs)
	}
	if ev.MeetLink == "" || ev.HTMLLink == "" {
		t.Error("link fields not mapped")
	}
}

func TestFromGoogleEventAllDay(t *testing.T) {
	item := &gcal.Event{
		Id:      "allday1",
		Summary: "社内研修",
		Start:   &gcal.EventDateTime{Date: "2025-07-16"},
		End:     &gcal.EventDateTime{Date: "2025-07-17"},
	}
	ev := fromGoogleEvent(item)
	if ev.HasSchedule() {
		t.Error("all-day event must keep zero instants")
	}
}

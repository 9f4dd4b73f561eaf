package sync

import (
	"context"
	"testing"
	"time"

	"meetstats/internal/calendar"
)

func TestRevertDayReversesPriorContributions(t *testing.T) {
	start := jstTime(t, "2025-07-16 10:00")
	events := []calendar.Event{
		{
			ID: "t1", Title: "講師面談 A",
			Start: start, End: start.Add(time.Hour),
			OrganizerEmail: "a@digital-hacks.com",
			AttachmentURLs: []string{"https://drive.google.com/file/d/rec1/view"},
		},
		{
			ID: "e1", Title: "受講開始面談 B",
			Start: start.Add(3 * time.Hour), End: start.Add(3*time.Hour + 30*time.Minute),
			OrganizerEmail: "b@digital-hacks.com",
		},
	}

	meetings := newFakeMeetings()
	stats := newFakeStats()
	// rec1 measured at 52 minutes, overriding the 60 scheduled.
	resolver := &fakeResolver{minutes: 52, ok: true}
	o := newTestOrchestrator(&fakeSource{events: events}, meetings, stats, resolver)

	if _, err := o.SyncWindow(context.Background(), start, start.Add(12*time.Hour)); err != nil {
		t.Fatalf("sync: %v", err)
	}

	reverted, err := o.RevertDay(context.Background(), "2025-07-16")
	if err != nil {
		t.Fatalf("RevertDay: %v", err)
	}
	if reverted != 2 {
		t.Errorf("reverted = %d, want 2", reverted)
	}
	if len(meetings.rows) != 0 {
		t.Errorf("%d event rows remain after revert", len(meetings.rows))
	}

	// Every bucket the sync touched must net out to zero.
	for key, minutes := range stats.buckets {
		if minutes != 0 {
			t.Errorf("bucket %s nets %d minutes after revert, want 0", key, minutes)
		}
	}
	if stats.netCount() != 0 {
		t.Errorf("net count = %d after revert, want 0", stats.netCount())
	}

	// The reversal minutes mirror the stored effective durations.
	wantMinutes := map[string]int{"a@digital-hacks.com": -52, "b@digital-hacks.com": -30}
	for _, d := range stats.deltas {
		if d.count != -1 {
			continue
		}
		if want, ok := wantMinutes[d.email]; !ok || d.minutes != want {
			t.Errorf("reversal delta %+v, want %d minutes", d, want)
		}
	}
}

func TestRevertDaySkipsUncountedEvents(t *testing.T) {
	start := jstTime(t, "2025-07-16 10:00")
	ev := calendar.Event{ID: "ev1", Title: "講師面談", Start: start, End: start.Add(time.Hour)}

	meetings := newFakeMeetings()
	stats := newFakeStats()
	// Rollup fails, leaving the event persisted but uncounted.
	stats.failNext = 1
	o := newTestOrchestrator(&fakeSource{events: []calendar.Event{ev}}, meetings, stats, &fakeResolver{})
	if _, err := o.SyncWindow(context.Background(), start, start.Add(time.Hour)); err != nil {
		t.Fatalf("sync: %v", err)
	}

	reverted, err := o.RevertDay(context.Background(), "2025-07-16")
	if err != nil {
		t.Fatalf("RevertDay: %v", err)
	}
	if reverted != 0 {
		t.Errorf("reverted = %d, want 0 for an uncounted event", reverted)
	}
	if len(stats.deltas) != 0 {
		t.Errorf("reversal deltas issued for an uncounted event: %+v", stats.deltas)
	}
	// The row itself is still removed.
	if len(meetings.rows) != 0 {
		t.Error("uncounted event row should still be deleted")
	}
}

func TestRevertDayOnlyTouchesThatDay(t *testing.T) {
	day1 := jstTime(t, "2025-07-16 10:00")
	day2 := jstTime(t, "2025-07-17 10:00")
	events := []calendar.Event{
		{ID: "d1", Title: "講師面談", Start: day1, End: day1.Add(time.Hour)},
		{ID: "d2", Title: "講師面談", Start: day2, End: day2.Add(time.Hour)},
	}

	meetings := newFakeMeetings()
	stats := newFakeStats()
	o := newTestOrchestrator(&fakeSource{events: events}, meetings, stats, &fakeResolver{})
	if _, err := o.SyncWindow(context.Background(), day1, day2.Add(12*time.Hour)); err != nil {
		t.Fatalf("sync: %v", err)
	}

	reverted, err := o.RevertDay(context.Background(), "2025-07-16")
	if err != nil {
		t.Fatalf("RevertDay: %v", err)
	}
	if reverted != 1 {
		t.Errorf("reverted = %d, want 1", reverted)
	}
	if _, ok := meetings.rows["d2"]; !ok {
		t.Error("the neighboring day's event must survive")
	}
	if got := stats.buckets["2025/07/17||teacher"]; got != 60 {
		t.Errorf("day2 bucket = %d minutes, want 60 untouched", got)
	}
}

func TestRevertDayRejectsBadDate(t *testing.T) {
	o := newTestOrchestrator(&fakeSource{}, newFakeMeetings(), newFakeStats(), &fakeResolver{})
	if _, err := o.RevertDay(context.Background(), "2025/07/16"); err == nil {
		t.Error("expected error for slash-formatted date")
	}
}

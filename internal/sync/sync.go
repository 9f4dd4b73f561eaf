// Package sync drives the calendar-to-statistics pipeline: fetch a window
// of calendar events, persist the meeting-like ones idempotently and apply
// each event's rollup delta exactly once.
package sync

import (
	"context"
	"fmt"
	"log"
	"time"

	"meetstats/internal/calendar"
	"meetstats/internal/db"
	"meetstats/internal/jst"
)

// MeetingStore is the slice of event persistence the orchestrator needs.
type MeetingStore interface {
	// Upsert stores the event keyed by its calendar event id and reports
	// whether its rollup delta was already applied in an earlier run.
	Upsert(ctx context.Context, ev *db.MeetingEvent) (alreadyCounted bool, err error)
	MarkCounted(ctx context.Context, calendarEventID string, at time.Time) error
	ForRange(ctx context.Context, start, end time.Time) ([]db.MeetingEvent, error)
	DeleteRange(ctx context.Context, start, end time.Time) error
}

// StatsStore applies signed rollup deltas. It is the sole writer of the
// rollup counters.
type StatsStore interface {
	ApplyDelta(ctx context.Context, email string, category calendar.Category, dateKey string, minutesDelta, countDelta int) error
}

// DurationResolver estimates the actual meeting length from recording URLs.
type DurationResolver interface {
	Resolve(ctx context.Context, videoURLs []string, scheduledMinutes int) (minutes int, ok bool)
}

// Result summarizes one sync run. TotalEvents counts everything the window
// returned, including events the filters skipped.
type Result struct {
	TotalEvents  int `json:"totalEvents"`
	SuccessCount int `json:"successCount"`
	ErrorCount   int `json:"errorCount"`
}

// Orchestrator composes the fetcher, the stores and the duration resolver
// into the sync entry points. Events within one run are processed strictly
// sequentially; overlapping runs of the same window are safe for the event
// table (upsert) and for the rollups (the counted marker).
type Orchestrator struct {
	source    calendar.Source
	meetings  MeetingStore
	stats     StatsStore
	durations DurationResolver
	ownDomain string

	// now is replaceable in tests.
	now func() time.Time
}

func New(source calendar.Source, meetings MeetingStore, stats StatsStore, durations DurationResolver, ownDomain string) *Orchestrator {
	return &Orchestrator{
		source:    source,
		meetings:  meetings,
		stats:     stats,
		durations: durations,
		ownDomain: ownDomain,
		now:       time.Now,
	}
}

// DailySync syncs the current JST calendar day.
func (o *Orchestrator) DailySync(ctx context.Context) (Result, error) {
	start, end := jst.Today(o.now())
	log.Printf("starting daily sync for %s", jst.DateKey(start))
	return o.SyncWindow(ctx, start, end)
}

// BulkSync syncs an explicit JST date range, end date inclusive through
// 23:59:59.
func (o *Orchestrator) BulkSync(ctx context.Context, startDate, endDate string) (Result, error) {
	start, end, err := jst.RangeBounds(startDate, endDate)
	if err != nil {
		return Result{}, err
	}
	log.Printf("starting bulk sync from %s to %s (JST)", startDate, endDate)
	return o.SyncWindow(ctx, start, end)
}

// SyncWindow fetches every event in the window and runs each through
// persist-then-rollup. A fetch failure aborts the run; per-event failures
// are logged, counted and skipped past.
func (o *Orchestrator) SyncWindow(ctx context.Context, start, end time.Time) (Result, error) {
	events, err := o.source.FetchWindow(ctx, start, end)
	if err != nil {
		return Result{}, fmt.Errorf("fetch events: %w", err)
	}
	log.Printf("found %d events in window %s..%s", len(events), start.Format(time.RFC3339), end.Format(time.RFC3339))

	res := Result{TotalEvents: len(events)}
	for _, ev := range events {
		// All-day and otherwise incomplete events are never persisted.
		if !ev.HasSchedule() || ev.Title == "" {
			eventsTotal.WithLabelValues(outcomeSkipped).Inc()
			continue
		}
		if !calendar.IsMeetingTitle(ev.Title) {
			eventsTotal.WithLabelValues(outcomeSkipped).Inc()
			continue
		}

		if err := o.processEvent(ctx, ev); err != nil {
			log.Printf("sync error for event %s (%q): %v", ev.ID, ev.Title, err)
			eventsTotal.WithLabelValues(outcomeError).Inc()
			res.ErrorCount++
			continue
		}
		res.SuccessCount++
	}

	lastRunUnix.SetToCurrentTime()
	log.Printf("sync completed: %d success, %d errors, %d total", res.SuccessCount, res.ErrorCount, res.TotalEvents)
	return res, nil
}

// processEvent normalizes, persists and counts a single event. The rollup
// delta is issued only after a successful persist, and only if no earlier
// run already counted this event id.
func (o *Orchestrator) processEvent(ctx context.Context, ev calendar.Event) error {
	participant := calendar.ResolveParticipants(ev.OrganizerEmail, ev.Attendees, o.ownDomain)
	documents, videos := calendar.SplitAttachments(ev.AttachmentURLs)
	scheduled := ev.ScheduledMinutes()

	var actual *int
	if len(videos) > 0 {
		if minutes, ok := o.durations.Resolve(ctx, videos, scheduled); ok {
			actual = &minutes
		}
	}

	rec := &db.MeetingEvent{
		CalendarEventID:       ev.ID,
		Title:                 ev.Title,
		Category:              calendar.Classify(ev.Title),
		OrganizerEmail:        ev.OrganizerEmail,
		AttendeeName:          participant.Name,
		AttendeeEmail:         participant.Email,
		StartTime:             ev.Start,
		EndTime:               ev.End,
		DurationMinutes:       scheduled,
		ActualDurationMinutes: actual,
		Description:           ev.Description,
		Location:              ev.Location,
		DocumentURLs:          documents,
		VideoURLs:             videos,
		MeetLink:              ev.MeetLink,
		CalendarEventURL:      ev.HTMLLink,
	}

	alreadyCounted, err := o.meetings.Upsert(ctx, rec)
	if err != nil {
		return fmt.Errorf("persist: %w", err)
	}
	if alreadyCounted {
		eventsTotal.WithLabelValues(outcomeAlreadyCounted).Inc()
		return nil
	}

	dateKey := jst.DateKey(ev.Start)
	if err := o.stats.ApplyDelta(ctx, ev.OrganizerEmail, rec.Category, dateKey, rec.EffectiveMinutes(), 1); err != nil {
		// The event row stays uncounted, so the next run repairs this
		// delta without touching its neighbors.
		return fmt.Errorf("rollup delta: %w", err)
	}
	deltasTotal.WithLabelValues("apply").Inc()

	if err := o.meetings.MarkCounted(ctx, ev.ID, o.now()); err != nil {
		return fmt.Errorf("mark counted: %w", err)
	}
	eventsTotal.WithLabelValues(outcomeSynced).Inc()
	return nil
}

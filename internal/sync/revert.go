package sync

import (
	"context"
	"fmt"
	"log"

	"meetstats/internal/jst"
)

// RevertDay undoes a previously-synced JST calendar day: every counted
// event's rollup contribution is reversed with a negated delta, and only
// then are the day's event rows deleted. Reversal runs before deletion:
// a crash mid-way leaves rollups under-counted with the events still
// present, which a rebuild can repair, rather than events gone with
// rollups still counting them.
//
// date is "YYYY-MM-DD" (JST). Intended for operator correction of a bad
// day, invoked from the CLI only.
func (o *Orchestrator) RevertDay(ctx context.Context, date string) (reverted int, err error) {
	start, end, err := jst.DayBounds(date)
	if err != nil {
		return 0, err
	}

	events, err := o.meetings.ForRange(ctx, start, end)
	if err != nil {
		return 0, fmt.Errorf("load events for %s: %w", date, err)
	}
	log.Printf("found %d meetings to revert for %s", len(events), date)

	for i := range events {
		ev := &events[i]
		if ev.StatsAppliedAt == nil {
			// Persisted but never counted; nothing to reverse.
			continue
		}
		// Reverse with the stored category and organizer, not re-derived
		// ones, so the delta mirrors exactly what was applied.
		dateKey := jst.DateKey(ev.StartTime)
		if err := o.stats.ApplyDelta(ctx, ev.OrganizerEmail, ev.Category, dateKey, -ev.EffectiveMinutes(), -1); err != nil {
			return reverted, fmt.Errorf("revert delta for event %s: %w", ev.CalendarEventID, err)
		}
		deltasTotal.WithLabelValues("revert").Inc()
		reverted++
	}

	if err := o.meetings.DeleteRange(ctx, start, end); err != nil {
		return reverted, fmt.Errorf("delete events for %s: %w", date, err)
	}
	log.Printf("reverted %d meetings and deleted events for %s", reverted, date)
	return reverted, nil
}

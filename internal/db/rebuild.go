package db

import (
	"context"
	"time"

	"gorm.io/gorm"

	"meetstats/internal/calendar"
	"meetstats/internal/jst"
)

// RebuildStats recomputes every rollup bucket from the meeting event log,
// replacing whatever the incremental path has accumulated. It exists to
// repair drift (partial runs, operator mistakes): the buckets are a
// materialized view, so a full recompute is always a valid state.
//
// The swap is one transaction: wipe buckets, insert the fresh sums, and
// mark every event as counted so the next incremental sync does not
// re-apply anything.
func RebuildStats(ctx context.Context, db *gorm.DB) (events int, buckets int, err error) {
	var all []MeetingEvent
	if err := db.WithContext(ctx).
		Select("calendar_event_id", "organizer_email", "category", "start_time",
			"duration_minutes", "actual_duration_minutes").
		Find(&all).Error; err != nil {
		return 0, 0, err
	}

	type bucketID struct {
		Scope    Scope
		Email    string
		Category calendar.Category
		Key      string
	}
	type tally struct {
		cnt     int64
		minutes int64
	}
	sums := make(map[bucketID]tally)

	for i := range all {
		ev := &all[i]
		minutes := int64(ev.EffectiveMinutes())
		keys := bucketKeys(jst.DateKey(ev.StartTime))

		emails := []string{""}
		if ev.OrganizerEmail != "" {
			emails = append(emails, ev.OrganizerEmail)
		}
		for _, em := range emails {
			for scope, key := range keys {
				id := bucketID{Scope: scope, Email: em, Category: ev.Category, Key: key}
				t := sums[id]
				t.cnt++
				t.minutes += minutes
				sums[id] = t
			}
		}
	}

	rows := make([]StatBucket, 0, len(sums))
	for id, t := range sums {
		rows = append(rows, StatBucket{
			Scope:        id.Scope,
			Email:        id.Email,
			Category:     id.Category,
			BucketKey:    id.Key,
			TotalCnt:     t.cnt,
			TotalMinutes: t.minutes,
		})
	}

	now := time.Now()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&StatBucket{}).Error; err != nil {
			return err
		}
		if len(rows) > 0 {
			if err := tx.CreateInBatches(rows, 200).Error; err != nil {
				return err
			}
		}
		return tx.Model(&MeetingEvent{}).
			Where("1 = 1").
			Update("stats_applied_at", now).Error
	})
	if err != nil {
		return 0, 0, err
	}
	return len(all), len(rows), nil
}

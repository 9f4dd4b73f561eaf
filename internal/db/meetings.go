package db

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"meetstats/internal/calendar"
)

// MeetingStore persists normalized meeting events.
type MeetingStore struct {
	db *gorm.DB
}

func NewMeetingStore(db *gorm.DB) *MeetingStore {
	return &MeetingStore{db: db}
}

// upsertColumns are the fields replaced on conflict. StatsAppliedAt is
// deliberately absent: a replayed sync must not clear the marker that says
// the event was already counted.
var upsertColumns = []string{
	"updated_at", "title", "category", "organizer_email", "attendee_name",
	"attendee_email", "start_time", "end_time", "duration_minutes",
	"actual_duration_minutes", "description", "location", "document_urls",
	"video_urls", "meet_link", "calendar_event_url",
}

// Upsert writes ev keyed by its calendar event id, replacing any previous
// row. It reports whether the event's rollup contribution was already
// applied in an earlier run, so the caller can skip the delta on replay.
func (s *MeetingStore) Upsert(ctx context.Context, ev *MeetingEvent) (alreadyCounted bool, err error) {
	var existing MeetingEvent
	lookup := s.db.WithContext(ctx).
		Select("id", "stats_applied_at").
		Where("calendar_event_id = ?", ev.CalendarEventID).
		Limit(1).Find(&existing)
	if lookup.Error != nil {
		return false, lookup.Error
	}

	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "calendar_event_id"}},
		DoUpdates: clause.AssignmentColumns(upsertColumns),
	}).Create(ev).Error
	if err != nil {
		return false, err
	}
	return existing.ID != 0 && existing.StatsAppliedAt != nil, nil
}

// MarkCounted records that the event's rollup delta has been applied.
func (s *MeetingStore) MarkCounted(ctx context.Context, calendarEventID string, at time.Time) error {
	return s.db.WithContext(ctx).Model(&MeetingEvent{}).
		Where("calendar_event_id = ?", calendarEventID).
		Update("stats_applied_at", at).Error
}

// ForRange loads events whose start falls in [start, end], oldest first.
func (s *MeetingStore) ForRange(ctx context.Context, start, end time.Time) ([]MeetingEvent, error) {
	var events []MeetingEvent
	err := s.db.WithContext(ctx).
		Where("start_time >= ? AND start_time <= ?", start, end).
		Order("start_time asc").
		Find(&events).Error
	return events, err
}

// DeleteRange removes all events whose start falls in [start, end].
func (s *MeetingStore) DeleteRange(ctx context.Context, start, end time.Time) error {
	return s.db.WithContext(ctx).
		Where("start_time >= ? AND start_time <= ?", start, end).
		Delete(&MeetingEvent{}).Error
}

// HistoryFilter narrows the meeting history listing.
type HistoryFilter struct {
	Start          *time.Time
	End            *time.Time
	OrganizerEmail string
	AttendeeName   string
	Category       calendar.Category
}

// SearchHistory returns one page of meeting history, newest first, plus
// the total row count for pagination.
func (s *MeetingStore) SearchHistory(ctx context.Context, f HistoryFilter, page, limit int) ([]MeetingEvent, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 25
	}

	q := s.db.WithContext(ctx).Model(&MeetingEvent{})
	if f.Start != nil {
		q = q.Where("start_time >= ?", *f.Start)
	}
	if f.End != nil {
		q = q.Where("start_time <= ?", *f.End)
	}
	if f.OrganizerEmail != "" {
		q = q.Where("organizer_email ILIKE ?", "%"+f.OrganizerEmail+"%")
	}
	if f.AttendeeName != "" {
		q = q.Where("attendee_name ILIKE ?", "%"+f.AttendeeName+"%")
	}
	if f.Category.Valid() {
		q = q.Where("category = ?", f.Category)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []MeetingEvent
	err := q.Order("start_time desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&events).Error
	return events, total, err
}

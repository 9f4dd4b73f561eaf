package db

import (
	"time"

	"gorm.io/datatypes"

	"meetstats/internal/calendar"
)

// MeetingEvent is one synced calendar event. Rows are keyed by the
// provider's event id and are insert-or-replace on re-sync, so a window
// can be fetched any number of times without duplicating history.
type MeetingEvent struct {
	ID uint `gorm:"primaryKey"`

	CreatedAt time.Time
	UpdatedAt time.Time

	// CalendarEventID is the provider's stable event identifier and the
	// idempotency key for upserts.
	CalendarEventID string `gorm:"uniqueIndex;size:255;not null"`

	Title string `gorm:"not null"`

	// Category is derived from the title at persist time and stored, so
	// historical rows keep their classification even if the marker words
	// change later.
	Category calendar.Category `gorm:"size:16;index;not null"`

	OrganizerEmail string `gorm:"size:255;index"`
	AttendeeName   string `gorm:"size:255"`
	AttendeeEmail  string `gorm:"size:255"`

	StartTime time.Time `gorm:"index;not null"`
	EndTime   time.Time `gorm:"not null"`

	// DurationMinutes is the scheduled length (end minus start).
	DurationMinutes int `gorm:"not null"`

	// ActualDurationMinutes is the measured recording length when one was
	// found; nil otherwise.
	ActualDurationMinutes *int

	Description string
	Location    string

	DocumentURLs datatypes.JSONSlice[string] `gorm:"type:json"`
	VideoURLs    datatypes.JSONSlice[string] `gorm:"type:json"`

	MeetLink         string `gorm:"size:512"`
	CalendarEventURL string `gorm:"size:512"`

	// StatsAppliedAt records when this event's rollup delta was applied.
	// Nil means the event has been persisted but not yet counted, so a
	// re-run will apply (or repair) the delta exactly once.
	StatsAppliedAt *time.Time
}

// EffectiveMinutes is the duration an event contributes to rollups:
// the measured length when known, else the scheduled length.
func (m *MeetingEvent) EffectiveMinutes() int {
	if m.ActualDurationMinutes != nil {
		return *m.ActualDurationMinutes
	}
	return m.DurationMinutes
}

// Rollup scopes. One StatBucket row exists per (scope, email, category,
// bucket key); email "" is the global aggregate across all teachers.
type Scope string

const (
	ScopeDay     Scope = "day"
	ScopeMonth   Scope = "month"
	ScopeYear    Scope = "year"
	ScopeAllTime Scope = "all"
)

// AllTimeKey is the bucket key of the single all-time bucket per
// (email, category).
const AllTimeKey = "all"

// StatBucket is a pre-aggregated rollup counter, incrementally maintained
// from MeetingEvent rows and always re-derivable from them. The check
// constraints make a below-zero delta fail loudly instead of persisting
// an impossible state.
type StatBucket struct {
	ID uint `gorm:"primaryKey"`

	Scope    Scope             `gorm:"uniqueIndex:idx_stat_bucket_unique,priority:1;size:8;not null"`
	Email    string            `gorm:"uniqueIndex:idx_stat_bucket_unique,priority:2;size:255;not null"`
	Category calendar.Category `gorm:"uniqueIndex:idx_stat_bucket_unique,priority:3;size:16;not null"`

	// BucketKey is "YYYY/MM/DD" for day, "YYYY/MM" for month, "YYYY" for
	// year and "all" for the all-time scope. Dates are JST calendar days.
	BucketKey string `gorm:"uniqueIndex:idx_stat_bucket_unique,priority:4;size:16;not null"`

	TotalCnt     int64 `gorm:"not null;default:0;check:total_cnt >= 0"`
	TotalMinutes int64 `gorm:"not null;default:0;check:total_minutes >= 0"`
}

// Teacher is one roster entry shown on the dashboard.
type Teacher struct {
	ID uint `gorm:"primaryKey"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Email string `gorm:"uniqueIndex;size:255;not null"`
	Name  string `gorm:"size:255;not null"`
}

// User represents a dashboard admin that can sign in. The bootstrap admin
// user (from env) will be created as a row in this table on startup.
type User struct {
	ID uint `gorm:"primaryKey"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Username     string `gorm:"uniqueIndex;size:64;not null"`
	PasswordHash string `gorm:"size:255;not null"`

	IsAdmin bool `gorm:"default:false"`
}

package db

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"meetstats/internal/calendar"
	"meetstats/internal/jst"
)

// StatsStore maintains the rollup counters. All mutation goes through
// ApplyDelta; no caller reads-modifies-writes bucket rows.
type StatsStore struct {
	db *gorm.DB
}

func NewStatsStore(db *gorm.DB) *StatsStore {
	return &StatsStore{db: db}
}

// bucketKeys expands a "YYYY/MM/DD" date key into the four scope keys a
// delta touches.
func bucketKeys(dateKey string) map[Scope]string {
	return map[Scope]string{
		ScopeDay:     dateKey,
		ScopeMonth:   jst.MonthKeyFromDate(dateKey),
		ScopeYear:    jst.YearKeyFromDate(dateKey),
		ScopeAllTime: AllTimeKey,
	}
}

// ApplyDelta atomically applies a signed (count, minutes) delta to all four
// scopes for both the named teacher and the global aggregate, creating
// zero-baseline buckets as needed. dateKey is the JST calendar date of the
// event ("YYYY/MM/DD"). The whole delta is one transaction: concurrent
// deltas for the same bucket serialize at the database, and a delta that
// would drive a counter negative fails the check constraint and rolls
// everything back.
func (s *StatsStore) ApplyDelta(ctx context.Context, email string, category calendar.Category, dateKey string, minutesDelta, countDelta int) error {
	if !category.Valid() {
		return fmt.Errorf("invalid category %q", category)
	}
	if len(dateKey) != 10 {
		return fmt.Errorf("invalid date key %q (want YYYY/MM/DD)", dateKey)
	}

	emails := []string{""}
	if email != "" {
		emails = append(emails, email)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, em := range emails {
			for scope, key := range bucketKeys(dateKey) {
				row := StatBucket{
					Scope:        scope,
					Email:        em,
					Category:     category,
					BucketKey:    key,
					TotalCnt:     int64(countDelta),
					TotalMinutes: int64(minutesDelta),
				}
				err := tx.Clauses(clause.OnConflict{
					Columns: []clause.Column{
						{Name: "scope"}, {Name: "email"}, {Name: "category"}, {Name: "bucket_key"},
					},
					DoUpdates: clause.Assignments(map[string]interface{}{
						"total_cnt":     gorm.Expr("stat_buckets.total_cnt + ?", countDelta),
						"total_minutes": gorm.Expr("stat_buckets.total_minutes + ?", minutesDelta),
					}),
				}).Create(&row).Error
				if err != nil {
					return fmt.Errorf("apply delta %s/%s/%s/%s: %w", scope, em, category, key, err)
				}
			}
		}
		return nil
	})
}

// CategorySummary is the rollup view for one (teacher-or-global, category)
// pair across all four scopes, as rendered by the dashboard.
type CategorySummary struct {
	DayCount     int64 `json:"day_total"`
	MonthCount   int64 `json:"month_total"`
	YearCount    int64 `json:"year_total"`
	AllTimeCount int64 `json:"total_all"`

	DayMinutes int64 `json:"total_minutes"`

	AvgMinutes        float64 `json:"avg_minutes"`
	AvgMinutesMonth   float64 `json:"avg_minutes_month"`
	AvgMinutesYear    float64 `json:"avg_minutes_year"`
	AvgMinutesAllTime float64 `json:"avg_minutes_total"`
}

// Summary reads today's/this month's/this year's/all-time counters for the
// given teacher (email "" = global) and category, relative to now in JST.
func (s *StatsStore) Summary(ctx context.Context, email string, category calendar.Category, now time.Time) (CategorySummary, error) {
	keys := bucketKeys(jst.DateKey(now))

	var sum CategorySummary
	read := func(scope Scope) (cnt, minutes int64, err error) {
		var row StatBucket
		res := s.db.WithContext(ctx).
			Where("scope = ? AND email = ? AND category = ? AND bucket_key = ?",
				scope, email, category, keys[scope]).
			Limit(1).Find(&row)
		return row.TotalCnt, row.TotalMinutes, res.Error
	}

	dayCnt, dayMin, err := read(ScopeDay)
	if err != nil {
		return sum, err
	}
	monthCnt, monthMin, err := read(ScopeMonth)
	if err != nil {
		return sum, err
	}
	yearCnt, yearMin, err := read(ScopeYear)
	if err != nil {
		return sum, err
	}
	allCnt, allMin, err := read(ScopeAllTime)
	if err != nil {
		return sum, err
	}

	sum.DayCount, sum.MonthCount, sum.YearCount, sum.AllTimeCount = dayCnt, monthCnt, yearCnt, allCnt
	sum.DayMinutes = dayMin
	sum.AvgMinutesMonth = avgMinutes(monthMin, monthCnt)
	sum.AvgMinutesYear = avgMinutes(yearMin, yearCnt)
	sum.AvgMinutesAllTime = avgMinutes(allMin, allCnt)

	// Headline average prefers the finest populated granularity.
	switch {
	case dayCnt > 0:
		sum.AvgMinutes = avgMinutes(dayMin, dayCnt)
	case monthCnt > 0:
		sum.AvgMinutes = sum.AvgMinutesMonth
	case yearCnt > 0:
		sum.AvgMinutes = sum.AvgMinutesYear
	}

	return sum, nil
}

// avgMinutes rounds to one decimal, matching the dashboard display.
func avgMinutes(minutes, cnt int64) float64 {
	if cnt == 0 {
		return 0
	}
	return float64((minutes*10+cnt/2)/cnt) / 10
}

// DayCount is one day's counter within a month grid.
type DayCount struct {
	BucketKey string `json:"date"`
	TotalCnt  int64  `json:"count"`
}

// MonthDays lists the populated day buckets of a JST month for the month
// calendar view. email "" selects the global aggregate.
func (s *StatsStore) MonthDays(ctx context.Context, email string, category calendar.Category, year, month int) ([]DayCount, error) {
	prefix := fmt.Sprintf("%04d/%02d/", year, month)
	var days []DayCount
	err := s.db.WithContext(ctx).Model(&StatBucket{}).
		Select("bucket_key", "total_cnt").
		Where("scope = ? AND email = ? AND category = ? AND bucket_key LIKE ?",
			ScopeDay, email, category, prefix+"%").
		Order("bucket_key asc").
		Find(&days).Error
	return days, err
}

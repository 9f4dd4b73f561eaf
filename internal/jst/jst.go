// Package jst centralizes Japan Standard Time conversions. Every
// calendar-day bucket key and sync window boundary in the service is
// derived here, so day attribution near midnight is consistent everywhere.
package jst

import (
	"fmt"
	"time"
)

// Location is JST (UTC+9). A fixed zone avoids a tzdata dependency.
var Location = time.FixedZone("JST", 9*60*60)

// DateKey formats the JST calendar date of t as "YYYY/MM/DD", the bucket
// key format used by the rollup tables.
func DateKey(t time.Time) string {
	return t.In(Location).Format("2006/01/02")
}

// MonthKey formats the JST calendar month of t as "YYYY/MM".
func MonthKey(t time.Time) string {
	return t.In(Location).Format("2006/01")
}

// YearKey formats the JST calendar year of t as "YYYY".
func YearKey(t time.Time) string {
	return t.In(Location).Format("2006")
}

// MonthKeyFromDate and YearKeyFromDate derive the coarser bucket keys from
// a "YYYY/MM/DD" date key without re-parsing into a time.Time.
func MonthKeyFromDate(dateKey string) string {
	if len(dateKey) < 7 {
		return dateKey
	}
	return dateKey[:7]
}

func YearKeyFromDate(dateKey string) string {
	if len(dateKey) < 4 {
		return dateKey
	}
	return dateKey[:4]
}

// DayBounds returns the start and end instants of the JST calendar day
// "YYYY-MM-DD". The end is inclusive at 23:59:59, matching the sync
// window convention of the calendar provider queries.
func DayBounds(date string) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation("2006-01-02", date, Location)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", date, err)
	}
	return start, start.Add(24*time.Hour - time.Second), nil
}

// RangeBounds returns the window for a bulk sync: startDate 00:00:00 JST
// through endDate 23:59:59 JST, both inclusive.
func RangeBounds(startDate, endDate string) (time.Time, time.Time, error) {
	start, _, err := DayBounds(startDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	_, end, err := DayBounds(endDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date %s before start date %s", endDate, startDate)
	}
	return start, end, nil
}

// Today returns the bounds of the current JST calendar day.
func Today(now time.Time) (time.Time, time.Time) {
	start, end, _ := DayBounds(now.In(Location).Format("2006-01-02"))
	return start, end
}

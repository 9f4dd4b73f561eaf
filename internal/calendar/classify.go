package calendar

import "strings"

// Category classifies a meeting as a teacher interview or an enrollment
// (entry) interview. The string values are stored as-is in the database
// and in rollup rows.
type Category string

const (
	CategoryTeacher Category = "teacher"
	CategoryEntry   Category = "entry"
)

const (
	teacherMarker = "講師面談"
	entryMarker   = "受講開始"
)

// Classify maps an event title to its category by substring match.
// The teacher marker wins when both match; anything unrecognized
// defaults to a teacher interview.
func Classify(title string) Category {
	if strings.Contains(title, teacherMarker) {
		return CategoryTeacher
	}
	if strings.Contains(title, entryMarker) {
		return CategoryEntry
	}
	return CategoryTeacher
}

// Valid reports whether c is one of the two known categories.
func (c Category) Valid() bool {
	return c == CategoryTeacher || c == CategoryEntry
}

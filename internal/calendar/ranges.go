package calendar

import (
	"time"

	"timetrack/pkg/worktime"
)

// WeekRange returns the Monday and Sunday of the week containing date.
func WeekRange(date time.Time) (monday, sunday time.Time) {
	date = worktime.Date(date)
	weekday := int(date.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday = 7
	}
	monday = date.AddDate(0, 0, -(weekday - 1))
	return monday, monday.AddDate(0, 0, 6)
}

// MonthRange returns the first and last day of the month.
func MonthRange(year int, month time.Month) (first, last time.Time) {
	first = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}

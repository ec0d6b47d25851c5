package calendar

import (
	"time"

	"timetrack/internal/models"
	"timetrack/pkg/worktime"
)

// DayType is the classification of a single date. Besides the three
// constants below, any registered absence code is a valid DayType.
type DayType string

const (
	WorkDay DayType = "Work Day"
	Weekend DayType = "Weekend"
	Holiday DayType = "Holiday"
)

const DefaultHoursPerDay = 8.0

// IsAbsence reports whether t is an absence code rather than a built-in type.
func (t DayType) IsAbsence() bool {
	switch t {
	case WorkDay, Weekend, Holiday, "":
		return false
	}
	return true
}

func (t DayType) String() string {
	return string(t)
}

// HolidaySet is keyed by YYYY-MM-DD.
type HolidaySet map[string]struct{}

func NewHolidaySet(holidays []models.Holiday) HolidaySet {
	set := make(HolidaySet, len(holidays))
	for _, h := range holidays {
		set[h.Date] = struct{}{}
	}
	return set
}

func (s HolidaySet) Contains(date time.Time) bool {
	_, ok := s[worktime.FormatDate(date)]
	return ok
}

// Records indexes day records by date for one employee.
type Records map[string]*models.DayRecord

func IndexRecords(records []models.DayRecord) Records {
	index := make(Records, len(records))
	for i := range records {
		index[records[i].Date] = &records[i]
	}
	return index
}

func (r Records) At(date time.Time) *models.DayRecord {
	return r[worktime.FormatDate(date)]
}

// Classify decides the type of a date. First match wins:
// an absence code on the record, then an explicit record (forced work day),
// then a holiday, then Saturday or Sunday, then a regular work day.
func Classify(date time.Time, record *models.DayRecord, holidays HolidaySet) DayType {
	if record != nil {
		if record.HasAbsence() {
			return DayType(*record.AbsenceCode)
		}
		return WorkDay
	}
	if holidays.Contains(date) {
		return Holiday
	}
	if isWeekend(date) {
		return Weekend
	}
	return WorkDay
}

func isWeekend(date time.Time) bool {
	weekday := date.Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

// Calendar holds the working-hours policy.
type Calendar struct {
	HoursPerDay float64
}

func New(hoursPerDay float64) *Calendar {
	if hoursPerDay <= 0 {
		hoursPerDay = DefaultHoursPerDay
	}
	return &Calendar{HoursPerDay: hoursPerDay}
}

// Default uses the standard eight-hour day.
var Default = New(DefaultHoursPerDay)

// RequiredHours is HoursPerDay for a work day and zero for anything else.
func (c *Calendar) RequiredHours(t DayType) float64 {
	if t == WorkDay {
		return c.HoursPerDay
	}
	return 0
}

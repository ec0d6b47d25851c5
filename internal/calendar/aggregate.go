package calendar

import (
	"time"

	"timetrack/pkg/worktime"
)

type Summary struct {
	Worked     float64 `json:"worked"`
	Required   float64 `json:"required"`
	Difference float64 `json:"difference"`
}

// DaySummary is the classified view of one date.
type DaySummary struct {
	Date        string                  `json:"date"`
	Type        DayType                 `json:"type"`
	Worked      float64                 `json:"worked"`
	Required    float64                 `json:"required"`
	Difference  float64                 `json:"difference"`
	AbsenceCode string                  `json:"absence_code,omitempty"`
	Intervals   []worktime.TimeInterval `json:"entries,omitempty"`
	Observation string                  `json:"observation,omitempty"`
}

// Day classifies a single date and computes its hours. Only work days count:
// absence, holiday and weekend days contribute zero worked and zero required.
func (c *Calendar) Day(date time.Time, records Records, holidays HolidaySet) DaySummary {
	record := records.At(date)
	dayType := Classify(date, record, holidays)

	summary := DaySummary{
		Date:     worktime.FormatDate(date),
		Type:     dayType,
		Required: c.RequiredHours(dayType),
	}

	if record != nil {
		summary.AbsenceCode = record.Absence()
		summary.Intervals = record.Intervals
		summary.Observation = record.Observation
		if dayType == WorkDay {
			summary.Worked = worktime.DailyHours(record.Intervals)
		}
	}

	summary.Difference = summary.Worked - summary.Required
	return summary
}

// Days returns one summary per date from..to inclusive.
func (c *Calendar) Days(from, to time.Time, records Records, holidays HolidaySet) []DaySummary {
	var days []DaySummary
	for date := worktime.Date(from); !date.After(worktime.Date(to)); date = date.AddDate(0, 0, 1) {
		days = append(days, c.Day(date, records, holidays))
	}
	return days
}

// Aggregate totals a date range. Weeks and months go through here alike.
func (c *Calendar) Aggregate(from, to time.Time, records Records, holidays HolidaySet) Summary {
	var total Summary
	for _, day := range c.Days(from, to, records, holidays) {
		total.Worked += day.Worked
		total.Required += day.Required
	}
	total.Difference = total.Worked - total.Required
	return total
}

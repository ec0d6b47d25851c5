package worktime

import (
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// TimeInterval is one continuous stretch of presence inside a single day.
type TimeInterval struct {
	Entry string `json:"entry"`
	Exit  string `json:"exit"`
}

// Minutes returns exit minus entry in minutes. Both ends must be present and
// parseable, otherwise ok is false.
func (ti TimeInterval) Minutes() (minutes int, ok bool) {
	if ti.Entry == "" || ti.Exit == "" {
		return 0, false
	}
	entry, err := time.Parse(TimeLayout, ti.Entry)
	if err != nil {
		return 0, false
	}
	exit, err := time.Parse(TimeLayout, ti.Exit)
	if err != nil {
		return 0, false
	}
	return int(exit.Sub(entry).Minutes()), true
}

// DailyHours sums the worked hours of a day. Intervals with a missing end
// contribute nothing. Ordering is not checked here: callers validate first,
// an exit before entry yields a negative contribution.
func DailyHours(intervals []TimeInterval) float64 {
	total := 0
	for _, interval := range intervals {
		if minutes, ok := interval.Minutes(); ok {
			total += minutes
		}
	}
	return float64(total) / 60
}

// ParseDate parses a strict YYYY-MM-DD string as a UTC calendar date.
func ParseDate(s string) (time.Time, error) {
	if err := ValidateDate(s); err != nil {
		return time.Time{}, err
	}
	return time.Parse(DateLayout, s)
}

// FormatDate renders the calendar date part of t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Date truncates t to midnight UTC of its calendar day.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

package weekends

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Calendar is a yearly production calendar in the xmlcalendar JSON layout:
// for each month a comma separated list of days off, where "+" marks a
// transferred holiday and "*" a shortened working day.
type Calendar struct {
	Year        int          `json:"year"`
	Months      []Month      `json:"months"`
	Transitions []Transition `json:"transitions"`
}

type Month struct {
	Month int    `json:"month"`
	Days  string `json:"days"`
}

type Transition struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type Mark int

const (
	Regular Mark = iota
	Transferred
	Shortened
)

type Day struct {
	Date time.Time
	Mark Mark
}

// NonWorking reports whether the day is off. Shortened days are still worked.
func (d Day) NonWorking() bool {
	return d.Mark != Shortened
}

func Parse(data []byte) (*Calendar, error) {
	var cal Calendar
	if err := json.Unmarshal(data, &cal); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	if cal.Year <= 0 {
		return nil, fmt.Errorf("calendar has no year")
	}
	return &cal, nil
}

func ReadFile(path string) (*Calendar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON file: %w", err)
	}
	return Parse(data)
}

// Days expands the month lists into dated entries in file order.
func (c *Calendar) Days() ([]Day, error) {
	days := []Day{}

	for _, month := range c.Months {
		if month.Month < 1 || month.Month > 12 {
			return nil, fmt.Errorf("invalid month %d", month.Month)
		}

		for _, item := range strings.Split(month.Days, ",") {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}

			mark := Regular
			switch {
			case strings.HasSuffix(item, "+"):
				mark = Transferred
			case strings.HasSuffix(item, "*"):
				mark = Shortened
			}
			item = strings.TrimRight(item, "+*")

			day, err := strconv.Atoi(item)
			if err != nil {
				return nil, fmt.Errorf("failed to parse day '%s' in month %d: %w", item, month.Month, err)
			}

			date := time.Date(c.Year, time.Month(month.Month), day, 0, 0, 0, 0, time.UTC)
			if date.Month() != time.Month(month.Month) {
				return nil, fmt.Errorf("day %d does not exist in month %d", day, month.Month)
			}

			days = append(days, Day{Date: date, Mark: mark})
		}
	}

	return days, nil
}

// NonWorkingDays is Days without the shortened working days.
func (c *Calendar) NonWorkingDays() ([]Day, error) {
	days, err := c.Days()
	if err != nil {
		return nil, err
	}
	result := days[:0]
	for _, d := range days {
		if d.NonWorking() {
			result = append(result, d)
		}
	}
	return result, nil
}

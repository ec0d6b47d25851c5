package models

import (
	"time"
)

// Holiday type labels as shown to users.
const (
	HolidayTypeInamovible  = "Inamovible"
	HolidayTypeTrasladable = "Trasladable"
	HolidayTypeTourist     = "Fines Turísticos"
	HolidayTypeNonWorking  = "No Laborable"
	HolidayTypeOther       = "Otro"
)

type Holiday struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Date        string    `gorm:"type:varchar(10);uniqueIndex;not null" json:"date"`
	Year        int       `gorm:"index" json:"year"`
	Month       int       `gorm:"index" json:"month"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Holiday) TableName() string {
	return "holidays"
}

// NewHoliday fills the denormalized year/month columns from date.
func NewHoliday(date time.Time, description, holidayType string) Holiday {
	return Holiday{
		Date:        date.Format("2006-01-02"),
		Year:        date.Year(),
		Month:       int(date.Month()),
		Description: description,
		Type:        holidayType,
	}
}

package models

import (
	"time"

	"timetrack/pkg/worktime"

	"gorm.io/gorm"
)

// DayRecord is the stored state of one employee's day: either worked
// intervals or an absence code, never both.
type DayRecord struct {
	ID          uint                    `gorm:"primarykey" json:"id"`
	EmployeeID  uint                    `gorm:"not null;uniqueIndex:idx_day_records_employee_date" json:"employee_id"`
	Date        string                  `gorm:"type:varchar(10);not null;uniqueIndex:idx_day_records_employee_date" json:"date"`
	Intervals   []worktime.TimeInterval `gorm:"serializer:json;not null" json:"entries"`
	AbsenceCode *string                 `gorm:"type:varchar(64);index" json:"absence_code"`
	Observation string                  `json:"observation"`
	CreatedAt   time.Time               `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time               `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DayRecord) TableName() string {
	return "day_records"
}

// HasAbsence reports whether the day is marked with an absence code.
func (r *DayRecord) HasAbsence() bool {
	return r.AbsenceCode != nil && *r.AbsenceCode != ""
}

// Absence returns the absence code or "" when there is none.
func (r *DayRecord) Absence() string {
	if !r.HasAbsence() {
		return ""
	}
	return *r.AbsenceCode
}

// SetAbsence marks the day as absent and drops its intervals. An empty code
// clears the absence.
func (r *DayRecord) SetAbsence(code string) {
	if code == "" {
		r.AbsenceCode = nil
		return
	}
	r.AbsenceCode = &code
	r.Intervals = []worktime.TimeInterval{}
}

// Normalize enforces the absence/intervals exclusivity.
func (r *DayRecord) Normalize() {
	if r.AbsenceCode != nil && *r.AbsenceCode == "" {
		r.AbsenceCode = nil
	}
	if r.HasAbsence() || r.Intervals == nil {
		r.Intervals = []worktime.TimeInterval{}
	}
}

// WorkedHours is zero for absence days.
func (r *DayRecord) WorkedHours() float64 {
	if r.HasAbsence() {
		return 0
	}
	return worktime.DailyHours(r.Intervals)
}

// BeforeSave runs for creates, updates and upserts.
func (r *DayRecord) BeforeSave(tx *gorm.DB) error {
	r.Normalize()
	return nil
}

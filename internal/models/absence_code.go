package models

import "time"

type AbsenceCode struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Code        string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"code"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (AbsenceCode) TableName() string {
	return "absence_codes"
}

// DefaultAbsenceCodes are seeded on first initialization.
var DefaultAbsenceCodes = []string{
	"LAR",
	"FRANCO COMPENSATORIO",
	"LICENCIA MÉDICA",
	"COMISIÓN DE SERVICIO",
}

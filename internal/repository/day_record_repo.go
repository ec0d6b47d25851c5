package repository

import (
	"timetrack/internal/logging"
	"timetrack/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DayRecordRepository interface {
	GetByEmployeeAndDate(employeeID uint, date string) (*models.DayRecord, error)
	GetByEmployeeAndRange(employeeID uint, from, to string) ([]models.DayRecord, error)
	Upsert(record *models.DayRecord) error
	DeleteByEmployeeAndDates(employeeID uint, dates []string) (int64, error)
	CountByAbsenceCode(code string) (int64, error)
	RenameAbsenceCode(from, to string) (int64, error)
	WithTx(tx *gorm.DB) DayRecordRepository
}

type GormDayRecordRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormDayRecordRepository(db *gorm.DB) (*GormDayRecordRepository, error) {
	logger := logging.New()

	if err := db.AutoMigrate(&models.DayRecord{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate day_records table")
		return nil, err
	}

	return &GormDayRecordRepository{db: db, logger: logger}, nil
}

// WithTx returns a copy bound to tx so that writes join the caller's batch.
func (r *GormDayRecordRepository) WithTx(tx *gorm.DB) DayRecordRepository {
	return &GormDayRecordRepository{db: tx, logger: r.logger}
}

// GetByEmployeeAndDate returns nil, nil when the day has no record.
func (r *GormDayRecordRepository) GetByEmployeeAndDate(employeeID uint, date string) (*models.DayRecord, error) {
	var record models.DayRecord
	err := r.db.Where("employee_id = ? AND date = ?", employeeID, date).First(&record).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		r.logger.WithError(err).WithFields(logrus.Fields{
			"employee_id": employeeID,
			"date":        date,
		}).Error("Failed to get day record")
		return nil, err
	}
	return &record, nil
}

// GetByEmployeeAndRange returns the records with from <= date <= to, ordered by date.
func (r *GormDayRecordRepository) GetByEmployeeAndRange(employeeID uint, from, to string) ([]models.DayRecord, error) {
	var records []models.DayRecord
	err := r.db.Where("employee_id = ? AND date BETWEEN ? AND ?", employeeID, from, to).
		Order("date ASC").
		Find(&records).Error
	if err != nil {
		r.logger.WithError(err).WithFields(logrus.Fields{
			"employee_id": employeeID,
			"from":        from,
			"to":          to,
		}).Error("Failed to get day records by range")
		return nil, err
	}
	return records, nil
}

// Upsert inserts the record or overwrites the stored one for the same
// employee and date in a single statement. Last writer wins.
func (r *GormDayRecordRepository) Upsert(record *models.DayRecord) error {
	record.Normalize()
	// the conflict target is (employee_id, date); the stored id is kept
	record.ID = 0

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "employee_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"intervals", "absence_code", "observation", "updated_at"}),
	}).Create(record).Error
	if err != nil {
		r.logger.WithError(err).WithFields(logrus.Fields{
			"employee_id": record.EmployeeID,
			"date":        record.Date,
		}).Error("Failed to upsert day record")
		return translate(err)
	}

	r.logger.WithFields(logrus.Fields{
		"employee_id": record.EmployeeID,
		"date":        record.Date,
		"intervals":   len(record.Intervals),
		"absence":     record.Absence(),
	}).Debug("Day record saved")
	return nil
}

func (r *GormDayRecordRepository) DeleteByEmployeeAndDates(employeeID uint, dates []string) (int64, error) {
	if len(dates) == 0 {
		return 0, nil
	}
	result := r.db.Where("employee_id = ? AND date IN ?", employeeID, dates).Delete(&models.DayRecord{})
	if result.Error != nil {
		r.logger.WithError(result.Error).WithField("employee_id", employeeID).Error("Failed to delete day records")
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *GormDayRecordRepository) CountByAbsenceCode(code string) (int64, error) {
	var count int64
	err := r.db.Model(&models.DayRecord{}).Where("absence_code = ?", code).Count(&count).Error
	return count, err
}

// RenameAbsenceCode moves every record from one absence code to another.
func (r *GormDayRecordRepository) RenameAbsenceCode(from, to string) (int64, error) {
	result := r.db.Model(&models.DayRecord{}).
		Where("absence_code = ?", from).
		Update("absence_code", to)
	return result.RowsAffected, result.Error
}

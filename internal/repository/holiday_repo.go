package repository

import (
	"timetrack/internal/logging"
	"timetrack/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HolidayRepository interface {
	GetByRange(from, to string) ([]models.Holiday, error)
	GetByYear(year int) ([]models.Holiday, error)
	GetAll() ([]models.Holiday, error)
	ReplaceAll(holidays []models.Holiday) error
	Count() (int64, error)
}

type GormHolidayRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormHolidayRepository(db *gorm.DB) (*GormHolidayRepository, error) {
	// Automigrate the holidays table
	if err := db.AutoMigrate(&models.Holiday{}); err != nil {
		return nil, err
	}

	return &GormHolidayRepository{db: db, logger: logging.New()}, nil
}

func (r *GormHolidayRepository) GetByRange(from, to string) ([]models.Holiday, error) {
	var holidays []models.Holiday
	err := r.db.Where("date BETWEEN ? AND ?", from, to).Order("date ASC").Find(&holidays).Error
	return holidays, err
}

func (r *GormHolidayRepository) GetByYear(year int) ([]models.Holiday, error) {
	var holidays []models.Holiday
	err := r.db.Where("year = ?", year).Order("date ASC").Find(&holidays).Error
	return holidays, err
}

func (r *GormHolidayRepository) GetAll() ([]models.Holiday, error) {
	var holidays []models.Holiday
	err := r.db.Order("date ASC").Find(&holidays).Error
	return holidays, err
}

// ReplaceAll deletes every stored holiday and inserts the given set in one
// transaction. Repeated dates keep the first occurrence.
func (r *GormHolidayRepository) ReplaceAll(holidays []models.Holiday) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM holidays").Error; err != nil {
			return err
		}
		if len(holidays) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&holidays, 100).Error
	})
	if err != nil {
		r.logger.WithError(err).Error("Failed to replace holidays")
		return err
	}

	r.logger.WithField("count", len(holidays)).Info("Holidays replaced")
	return nil
}

func (r *GormHolidayRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Holiday{}).Count(&count).Error
	return count, err
}

package repository

import (
	"errors"

	"timetrack/internal/logging"
	"timetrack/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AbsenceCodeRepository interface {
	List() ([]models.AbsenceCode, error)
	GetByID(id uint) (*models.AbsenceCode, error)
	GetByCode(code string) (*models.AbsenceCode, error)
	Create(code *models.AbsenceCode) error
	Update(code *models.AbsenceCode) error
	Delete(id uint) error
}

type GormAbsenceCodeRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormAbsenceCodeRepository(db *gorm.DB) (*GormAbsenceCodeRepository, error) {
	if err := db.AutoMigrate(&models.AbsenceCode{}, &models.DayRecord{}); err != nil {
		return nil, err
	}
	return &GormAbsenceCodeRepository{db: db, logger: logging.New()}, nil
}

// List returns every code ordered alphabetically.
func (r *GormAbsenceCodeRepository) List() ([]models.AbsenceCode, error) {
	var codes []models.AbsenceCode
	err := r.db.Order("code ASC").Find(&codes).Error
	return codes, err
}

func (r *GormAbsenceCodeRepository) GetByID(id uint) (*models.AbsenceCode, error) {
	var code models.AbsenceCode
	err := r.db.First(&code, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &code, nil
}

func (r *GormAbsenceCodeRepository) GetByCode(code string) (*models.AbsenceCode, error) {
	var found models.AbsenceCode
	err := r.db.Where("code = ?", code).First(&found).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &found, nil
}

// Create fails with ErrConflict when the code is already registered.
func (r *GormAbsenceCodeRepository) Create(code *models.AbsenceCode) error {
	existing, err := r.GetByCode(code.Code)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrConflict
	}

	if err := r.db.Create(code).Error; err != nil {
		r.logger.WithError(err).WithField("code", code.Code).Error("Failed to create absence code")
		return translate(err)
	}

	r.logger.WithFields(logrus.Fields{
		"id":   code.ID,
		"code": code.Code,
	}).Info("Absence code created")
	return nil
}

// Update renames a code. Day records carrying the old name follow the rename
// in the same transaction.
func (r *GormAbsenceCodeRepository) Update(code *models.AbsenceCode) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var current models.AbsenceCode
		if err := tx.First(&current, code.ID).Error; err != nil {
			return translate(err)
		}

		var clash int64
		if err := tx.Model(&models.AbsenceCode{}).
			Where("id <> ? AND code = ?", code.ID, code.Code).
			Count(&clash).Error; err != nil {
			return err
		}
		if clash > 0 {
			return ErrConflict
		}

		// Updates writes the new values back into current
		oldCode := current.Code

		if err := tx.Model(&current).Updates(map[string]interface{}{
			"code":        code.Code,
			"description": code.Description,
		}).Error; err != nil {
			return translate(err)
		}

		if oldCode != code.Code {
			moved, err := (&GormDayRecordRepository{db: tx, logger: r.logger}).RenameAbsenceCode(oldCode, code.Code)
			if err != nil {
				return err
			}
			r.logger.WithFields(logrus.Fields{
				"from":    oldCode,
				"to":      code.Code,
				"records": moved,
			}).Info("Absence code renamed")
		}

		return nil
	})
}

// Delete fails with ErrInUse while any day record references the code.
func (r *GormAbsenceCodeRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var code models.AbsenceCode
		if err := tx.First(&code, id).Error; err != nil {
			return translate(err)
		}

		inUse, err := (&GormDayRecordRepository{db: tx, logger: r.logger}).CountByAbsenceCode(code.Code)
		if err != nil {
			return err
		}
		if inUse > 0 {
			r.logger.WithFields(logrus.Fields{
				"code":    code.Code,
				"records": inUse,
			}).Warn("Refusing to delete absence code in use")
			return ErrInUse
		}

		return tx.Delete(&code).Error
	})
}

package service

import (
	"fmt"
	"strings"

	"timetrack/internal/calendar"
	"timetrack/internal/logging"
	"timetrack/internal/models"
	"timetrack/internal/repository"
	"timetrack/pkg/worktime"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// DayTypeDefault reverts days to what the calendar alone decides.
const DayTypeDefault = "DEFAULT"

type DayService struct {
	db          *gorm.DB
	dayRepo     repository.DayRecordRepository
	absenceRepo repository.AbsenceCodeRepository
	logger      *logrus.Logger
}

func NewDayService(db *gorm.DB, dayRepo repository.DayRecordRepository, absenceRepo repository.AbsenceCodeRepository) *DayService {
	return &DayService{
		db:          db,
		dayRepo:     dayRepo,
		absenceRepo: absenceRepo,
		logger:      logging.New(),
	}
}

// SaveEntry records a day manually. An absence code wins over intervals and
// empties them; without one, non-empty intervals must be valid. Returns the
// worked hours of the saved day.
func (s *DayService) SaveEntry(employeeID uint, date string, intervals []worktime.TimeInterval, absenceCode string) (*models.DayRecord, float64, error) {
	if err := worktime.ValidateDate(date); err != nil {
		return nil, 0, err
	}

	absenceCode = strings.TrimSpace(absenceCode)
	if absenceCode != "" {
		if err := s.requireAbsenceCode(s.absenceRepo, absenceCode); err != nil {
			return nil, 0, err
		}
		intervals = []worktime.TimeInterval{}
	} else if len(intervals) > 0 {
		if err := worktime.ValidateIntervals(intervals); err != nil {
			return nil, 0, err
		}
	}

	var saved *models.DayRecord
	err := repository.Transaction(s.db, func(tx *gorm.DB) error {
		repo := s.dayRepo.WithTx(tx)

		record, err := repo.GetByEmployeeAndDate(employeeID, date)
		if err != nil {
			return err
		}
		if record == nil {
			record = &models.DayRecord{EmployeeID: employeeID, Date: date}
		}

		record.Intervals = intervals
		record.SetAbsence(absenceCode)

		if err := repo.Upsert(record); err != nil {
			return err
		}
		saved = record
		return nil
	})
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"employee_id": employeeID,
			"date":        date,
		}).Error("Failed to save day entry")
		return nil, 0, err
	}

	s.logger.WithFields(logrus.Fields{
		"employee_id": employeeID,
		"date":        date,
		"intervals":   len(saved.Intervals),
		"absence":     saved.Absence(),
	}).Info("Day entry saved")

	return saved, saved.WorkedHours(), nil
}

// GetEntry returns nil when nothing is stored for the day.
func (s *DayService) GetEntry(employeeID uint, date string) (*models.DayRecord, error) {
	if err := worktime.ValidateDate(date); err != nil {
		return nil, err
	}
	return s.dayRepo.GetByEmployeeAndDate(employeeID, date)
}

func (s *DayService) DeleteEntry(employeeID uint, date string) error {
	if err := worktime.ValidateDate(date); err != nil {
		return err
	}
	deleted, err := s.dayRepo.DeleteByEmployeeAndDates(employeeID, []string{date})
	if err != nil {
		return err
	}
	if deleted == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetDayType applies one day type to several dates atomically.
//
//	DEFAULT       removes the stored records
//	Work Day      keeps or creates records without an absence code
//	anything else must be a registered absence code; intervals are cleared
//
// Weekend and Holiday come from the calendar and cannot be set.
func (s *DayService) SetDayType(employeeID uint, dates []string, dayType string) error {
	for _, d := range dates {
		if err := worktime.ValidateDate(d); err != nil {
			return err
		}
	}

	log := s.logger.WithFields(logrus.Fields{
		"employee_id": employeeID,
		"dates":       len(dates),
		"day_type":    dayType,
	})

	if dayType == DayTypeDefault {
		deleted, err := s.dayRepo.DeleteByEmployeeAndDates(employeeID, dates)
		if err != nil {
			return err
		}
		log.WithField("deleted", deleted).Info("Days reverted to default")
		return nil
	}

	absence := ""
	switch dt := calendar.DayType(dayType); {
	case dt == calendar.WorkDay:
	case dt.IsAbsence():
		absence = dayType
	default:
		return fmt.Errorf("%w: %q", ErrInvalidDayType, dayType)
	}

	if absence != "" {
		if err := s.requireAbsenceCode(s.absenceRepo, absence); err != nil {
			return err
		}
	}

	err := repository.Transaction(s.db, func(tx *gorm.DB) error {
		repo := s.dayRepo.WithTx(tx)
		for _, d := range dates {
			record, err := repo.GetByEmployeeAndDate(employeeID, d)
			if err != nil {
				return err
			}
			if record == nil {
				record = &models.DayRecord{EmployeeID: employeeID, Date: d}
			}
			record.SetAbsence(absence)

			if err := repo.Upsert(record); err != nil {
				return fmt.Errorf("save %s: %w", d, err)
			}
		}
		return nil
	})
	if err != nil {
		log.WithError(err).Warn("Failed to update day types")
		return err
	}

	log.Info("Day types updated")
	return nil
}

func (s *DayService) requireAbsenceCode(repo repository.AbsenceCodeRepository, code string) error {
	found, err := repo.GetByCode(code)
	if err != nil {
		return err
	}
	if found == nil {
		return fmt.Errorf("%w: %q", ErrUnknownAbsenceCode, code)
	}
	return nil
}

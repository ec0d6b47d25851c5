package service

import (
	"timetrack/internal/logging"
	"timetrack/internal/models"
	"timetrack/internal/repository"

	"github.com/sirupsen/logrus"
)

const DefaultEmployeeName = "Default User"

type SeedService struct {
	employeeRepo repository.EmployeeRepository
	absenceRepo  repository.AbsenceCodeRepository
	logger       *logrus.Logger
}

func NewSeedService(employeeRepo repository.EmployeeRepository, absenceRepo repository.AbsenceCodeRepository) *SeedService {
	return &SeedService{
		employeeRepo: employeeRepo,
		absenceRepo:  absenceRepo,
		logger:       logging.New(),
	}
}

// Seed creates the default employee and the default absence codes. Running
// it again changes nothing.
func (s *SeedService) Seed(employeeID uint) error {
	_, created, err := s.employeeRepo.EnsureDefault(employeeID, DefaultEmployeeName)
	if err != nil {
		return err
	}
	if created {
		s.logger.WithField("employee_id", employeeID).Info("Default employee created")
	}

	added := 0
	for _, name := range models.DefaultAbsenceCodes {
		existing, err := s.absenceRepo.GetByCode(name)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}

		if err := s.absenceRepo.Create(&models.AbsenceCode{Code: name}); err != nil {
			return err
		}
		added++
	}

	s.logger.WithFields(logrus.Fields{
		"employee_id":   employeeID,
		"absence_codes": added,
	}).Info("Seed completed")
	return nil
}

package service

import (
	"strconv"
	"strings"

	"timetrack/internal/logging"
	"timetrack/internal/models"
	"timetrack/internal/repository"

	"github.com/sirupsen/logrus"
)

type AbsenceCodeService struct {
	repo   repository.AbsenceCodeRepository
	logger *logrus.Logger
}

func NewAbsenceCodeService(repo repository.AbsenceCodeRepository) *AbsenceCodeService {
	return &AbsenceCodeService{repo: repo, logger: logging.New()}
}

func (s *AbsenceCodeService) List() ([]models.AbsenceCode, error) {
	return s.repo.List()
}

// Create registers a new code. Duplicates fail with repository.ErrConflict.
func (s *AbsenceCodeService) Create(code, description string) (*models.AbsenceCode, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrEmptyCode
	}

	created := &models.AbsenceCode{Code: code, Description: strings.TrimSpace(description)}
	if err := s.repo.Create(created); err != nil {
		return nil, err
	}
	return created, nil
}

// Rename changes the code and description of an existing entry. Day records
// using the old code are moved along with it.
func (s *AbsenceCodeService) Rename(id uint, code, description string) (*models.AbsenceCode, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrEmptyCode
	}

	updated := &models.AbsenceCode{ID: id, Code: code, Description: strings.TrimSpace(description)}
	if err := s.repo.Update(updated); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"id":   id,
			"code": code,
		}).Warn("Failed to rename absence code")
		return nil, err
	}
	return updated, nil
}

// Delete removes an unused code. Codes still referenced by day records fail
// with repository.ErrInUse.
func (s *AbsenceCodeService) Delete(id uint) error {
	return s.repo.Delete(id)
}

// Resolve finds a code by id or by name.
func (s *AbsenceCodeService) Resolve(ref string) (*models.AbsenceCode, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrEmptyCode
	}

	var (
		found *models.AbsenceCode
		err   error
	)
	if id, perr := strconv.ParseUint(ref, 10, 64); perr == nil {
		found, err = s.repo.GetByID(uint(id))
	} else {
		found, err = s.repo.GetByCode(ref)
	}
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, repository.ErrNotFound
	}
	return found, nil
}

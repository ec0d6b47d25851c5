package service

import (
	"context"
	"time"

	"timetrack/internal/holidays"
	"timetrack/internal/logging"
	"timetrack/internal/models"
	"timetrack/internal/repository"

	"github.com/sirupsen/logrus"
)

type HolidayService struct {
	provider    holidays.Provider
	holidayRepo repository.HolidayRepository
	now         func() time.Time
	logger      *logrus.Logger
}

func NewHolidayService(provider holidays.Provider, holidayRepo repository.HolidayRepository) *HolidayService {
	return &HolidayService{
		provider:    provider,
		holidayRepo: holidayRepo,
		now:         time.Now,
		logger:      logging.New(),
	}
}

// Refresh fetches the given years (current and next by default) and replaces
// the stored holidays. Nothing is touched when the provider returns nothing,
// so a failed fetch never wipes a good table. Returns the number stored.
func (s *HolidayService) Refresh(ctx context.Context, years ...int) (int, error) {
	if s.provider == nil {
		return 0, holidays.ErrInvalidProvider
	}
	if len(years) == 0 {
		current := s.now().Year()
		years = []int{current, current + 1}
	}

	var fetched []models.Holiday
	for _, year := range years {
		list := s.provider.GetHolidays(ctx, year)
		s.logger.WithFields(logrus.Fields{
			"year":  year,
			"count": len(list),
		}).Info("Holidays fetched")
		fetched = append(fetched, list...)
	}

	if len(fetched) == 0 {
		s.logger.WithField("years", years).Warn("No holidays fetched, keeping stored ones")
		return 0, nil
	}

	if err := s.holidayRepo.ReplaceAll(fetched); err != nil {
		return 0, err
	}
	return len(fetched), nil
}

// Count returns how many holidays are stored across all years.
func (s *HolidayService) Count() (int64, error) {
	return s.holidayRepo.Count()
}

// List returns the stored holidays of a year, or all of them for year 0.
func (s *HolidayService) List(year int) ([]models.Holiday, error) {
	if year == 0 {
		return s.holidayRepo.GetAll()
	}
	return s.holidayRepo.GetByYear(year)
}

package service

import (
	"time"

	"timetrack/internal/calendar"
	"timetrack/internal/logging"
	"timetrack/internal/repository"
	"timetrack/pkg/worktime"

	"github.com/sirupsen/logrus"
)

// PeriodSummary is an aggregated date range.
type PeriodSummary struct {
	From string `json:"from"`
	To   string `json:"to"`
	calendar.Summary
}

type SummaryService struct {
	dayRepo     repository.DayRecordRepository
	holidayRepo repository.HolidayRepository
	calendar    *calendar.Calendar
	logger      *logrus.Logger
}

func NewSummaryService(dayRepo repository.DayRecordRepository, holidayRepo repository.HolidayRepository, cal *calendar.Calendar) *SummaryService {
	if cal == nil {
		cal = calendar.Default
	}
	return &SummaryService{
		dayRepo:     dayRepo,
		holidayRepo: holidayRepo,
		calendar:    cal,
		logger:      logging.New(),
	}
}

func (s *SummaryService) Day(employeeID uint, date time.Time) (calendar.DaySummary, error) {
	date = worktime.Date(date)
	records, holidays, err := s.load(employeeID, date, date)
	if err != nil {
		return calendar.DaySummary{}, err
	}
	return s.calendar.Day(date, records, holidays), nil
}

func (s *SummaryService) Range(employeeID uint, from, to time.Time) (PeriodSummary, error) {
	from, to = worktime.Date(from), worktime.Date(to)
	records, holidays, err := s.load(employeeID, from, to)
	if err != nil {
		return PeriodSummary{}, err
	}
	return PeriodSummary{
		From:    worktime.FormatDate(from),
		To:      worktime.FormatDate(to),
		Summary: s.calendar.Aggregate(from, to, records, holidays),
	}, nil
}

// Week summarizes Monday to Sunday around date.
func (s *SummaryService) Week(employeeID uint, date time.Time) (PeriodSummary, error) {
	monday, sunday := calendar.WeekRange(date)
	return s.Range(employeeID, monday, sunday)
}

func (s *SummaryService) Month(employeeID uint, year int, month time.Month) (PeriodSummary, error) {
	first, last := calendar.MonthRange(year, month)
	return s.Range(employeeID, first, last)
}

// MonthDays returns the per-day breakdown of a month.
func (s *SummaryService) MonthDays(employeeID uint, year int, month time.Month) ([]calendar.DaySummary, error) {
	first, last := calendar.MonthRange(year, month)
	records, holidays, err := s.load(employeeID, first, last)
	if err != nil {
		return nil, err
	}
	return s.calendar.Days(first, last, records, holidays), nil
}

func (s *SummaryService) load(employeeID uint, from, to time.Time) (calendar.Records, calendar.HolidaySet, error) {
	fromStr, toStr := worktime.FormatDate(from), worktime.FormatDate(to)

	records, err := s.dayRepo.GetByEmployeeAndRange(employeeID, fromStr, toStr)
	if err != nil {
		return nil, nil, err
	}

	holidays, err := s.holidayRepo.GetByRange(fromStr, toStr)
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"from": fromStr,
			"to":   toStr,
		}).Error("Failed to load holidays")
		return nil, nil, err
	}

	return calendar.IndexRecords(records), calendar.NewHolidaySet(holidays), nil
}

package holidays

import (
	"context"

	"timetrack/internal/logging"
	"timetrack/internal/models"
	"timetrack/pkg/weekends"

	"github.com/sirupsen/logrus"
)

// FileProvider loads days off from a local production calendar file.
type FileProvider struct {
	pathTemplate string
	logger       *logrus.Logger
}

func NewFileProvider(pathTemplate string) *FileProvider {
	return &FileProvider{pathTemplate: pathTemplate, logger: logging.New()}
}

func (p *FileProvider) GetHolidays(_ context.Context, year int) []models.Holiday {
	path := forYear(p.pathTemplate, year)
	log := p.logger.WithFields(logrus.Fields{"year": year, "file": path})

	cal, err := weekends.ReadFile(path)
	if err != nil {
		log.WithError(err).Warn("Failed to read holiday calendar")
		return []models.Holiday{}
	}
	if cal.Year != year {
		log.WithField("calendar_year", cal.Year).Warn("Holiday calendar is for another year")
		return []models.Holiday{}
	}

	days, err := cal.NonWorkingDays()
	if err != nil {
		log.WithError(err).Warn("Failed to expand holiday calendar")
		return []models.Holiday{}
	}

	holidays := make([]models.Holiday, 0, len(days))
	for _, d := range days {
		kind := models.HolidayTypeNonWorking
		if d.Mark == weekends.Transferred {
			kind = models.HolidayTypeTrasladable
		}
		holidays = append(holidays, models.NewHoliday(d.Date, "Non-working day", kind))
	}

	log.WithField("count", len(holidays)).Info("Holidays loaded from file")
	return holidays
}

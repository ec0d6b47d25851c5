package holidays

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"timetrack/internal/logging"
	"timetrack/internal/models"
	"timetrack/pkg/worktime"

	"github.com/sirupsen/logrus"
)

var apiTypes = map[string]string{
	"inamovible":  models.HolidayTypeInamovible,
	"trasladable": models.HolidayTypeTrasladable,
	"puente":      models.HolidayTypeTourist,
	"nolaborable": models.HolidayTypeNonWorking,
}

type apiHoliday struct {
	Fecha  string `json:"fecha"`
	Nombre string `json:"nombre"`
	Tipo   string `json:"tipo"`
}

// APIProvider reads the ArgentinaDatos JSON endpoint.
type APIProvider struct {
	urlTemplate string
	client      *http.Client
	logger      *logrus.Logger
}

func NewAPIProvider(urlTemplate string, client *http.Client) *APIProvider {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &APIProvider{
		urlTemplate: urlTemplate,
		client:      client,
		logger:      logging.New(),
	}
}

func (p *APIProvider) GetHolidays(ctx context.Context, year int) []models.Holiday {
	url := forYear(p.urlTemplate, year)
	log := p.logger.WithFields(logrus.Fields{"year": year, "url": url})

	body, err := fetch(ctx, p.client, url, http.Header{"Accept": {"application/json"}})
	if err != nil {
		log.WithError(err).Warn("Failed to fetch holidays from API")
		return []models.Holiday{}
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(body, &entries); err != nil {
		log.WithError(err).Warn("Failed to decode holidays JSON")
		return []models.Holiday{}
	}

	holidays := []models.Holiday{}
	for _, raw := range entries {
		var entry apiHoliday
		if err := json.Unmarshal(raw, &entry); err != nil {
			log.WithError(err).WithField("entry", string(raw)).Debug("Skipping malformed holiday entry")
			continue
		}
		if strings.TrimSpace(entry.Fecha) == "" || strings.TrimSpace(entry.Nombre) == "" {
			continue
		}

		date, err := time.Parse(worktime.DateLayout, strings.TrimSpace(entry.Fecha))
		if err != nil {
			log.WithError(err).WithField("entry", string(raw)).Debug("Skipping holiday with bad date")
			continue
		}
		if date.Year() != year {
			continue
		}

		holidays = append(holidays, models.NewHoliday(date, strings.TrimSpace(entry.Nombre), typeLabel(apiTypes, entry.Tipo)))
	}

	log.WithField("count", len(holidays)).Info("Holidays fetched from API")
	return holidays
}

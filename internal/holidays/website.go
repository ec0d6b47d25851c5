package holidays

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"timetrack/internal/logging"
	"timetrack/internal/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
)

var websiteTypes = map[string]string{
	"inamovible":   models.HolidayTypeInamovible,
	"trasladable":  models.HolidayTypeTrasladable,
	"turistico":    models.HolidayTypeTourist,
	"no_laborable": models.HolidayTypeNonWorking,
}

// es list inside the holidays<year> declaration; entries hold no nested arrays
var esListPattern = regexp.MustCompile(`\bes\s*:\s*(\[[^\[\]]*\])`)

type websiteHoliday struct {
	Date  string `json:"date"`
	Label string `json:"label"`
	Type  string `json:"type"`
}

// WebsiteProvider scrapes the national holidays page of argentina.gob.ar.
type WebsiteProvider struct {
	urlTemplate string
	client      *http.Client
	logger      *logrus.Logger
}

func NewWebsiteProvider(urlTemplate string, client *http.Client) *WebsiteProvider {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &WebsiteProvider{
		urlTemplate: urlTemplate,
		client:      client,
		logger:      logging.New(),
	}
}

func (p *WebsiteProvider) GetHolidays(ctx context.Context, year int) []models.Holiday {
	url := forYear(p.urlTemplate, year)
	log := p.logger.WithFields(logrus.Fields{"year": year, "url": url})

	body, err := fetch(ctx, p.client, url, http.Header{
		"User-Agent": {browserUserAgent},
		"Accept":     {"text/html,application/xhtml+xml"},
	})
	if err != nil {
		log.WithError(err).Warn("Failed to fetch holidays page")
		return []models.Holiday{}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		log.WithError(err).Warn("Failed to parse holidays page")
		return []models.Holiday{}
	}

	holidays, found := p.fromScript(doc, year, log)
	if !found {
		// older pages publish a plain table with DD/MM dates
		holidays = p.fromTable(doc, year, log)
	}

	log.WithField("count", len(holidays)).Info("Holidays scraped from website")
	return holidays
}

// fromScript reads the es list of the script that declares holidays<year>.
// found is false when no such script exists.
func (p *WebsiteProvider) fromScript(doc *goquery.Document, year int, log *logrus.Entry) (holidays []models.Holiday, found bool) {
	marker := fmt.Sprintf("holidays%d", year)
	holidays = []models.Holiday{}

	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		idx := strings.Index(text, marker)
		if idx < 0 {
			return true
		}

		m := esListPattern.FindStringSubmatch(text[idx:])
		if m == nil {
			return true
		}
		found = true

		var entries []json.RawMessage
		if err := json.Unmarshal([]byte(repairJSON(m[1])), &entries); err != nil {
			log.WithError(err).Warn("Failed to decode embedded holidays list")
			return false
		}

		for _, raw := range entries {
			var entry websiteHoliday
			if err := json.Unmarshal(raw, &entry); err != nil {
				log.WithError(err).WithField("entry", string(raw)).Debug("Skipping malformed holiday entry")
				continue
			}
			if strings.TrimSpace(entry.Date) == "" || strings.TrimSpace(entry.Label) == "" {
				continue
			}

			date, err := time.Parse("02/01/2006", strings.TrimSpace(entry.Date))
			if err != nil {
				log.WithError(err).WithField("entry", string(raw)).Debug("Skipping holiday with bad date")
				continue
			}
			if date.Year() != year {
				continue
			}

			holidays = append(holidays, models.NewHoliday(date, strings.TrimSpace(entry.Label), typeLabel(websiteTypes, entry.Type)))
		}
		return false
	})

	return holidays, found
}

func (p *WebsiteProvider) fromTable(doc *goquery.Document, year int, log *logrus.Entry) []models.Holiday {
	holidays := []models.Holiday{}

	table := doc.Find("table").First()
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return
		}
		cols := row.Find("td")
		if cols.Length() < 3 {
			return
		}

		dateText := strings.TrimSpace(cols.Eq(0).Text())
		date, err := time.Parse("02/01/2006", fmt.Sprintf("%s/%d", dateText, year))
		if err != nil {
			log.WithError(err).WithField("row", dateText).Debug("Skipping holiday row")
			return
		}

		description := strings.TrimSpace(cols.Eq(1).Text())
		kind := strings.TrimSpace(cols.Eq(2).Text())
		if label, ok := websiteTypes[strings.ToLower(kind)]; ok {
			kind = label
		} else if kind == "" {
			kind = models.HolidayTypeOther
		}

		holidays = append(holidays, models.NewHoliday(date, description, kind))
	})

	return holidays
}

// repairJSON turns a JavaScript array literal into JSON: single-quoted
// strings become double-quoted, bare object keys get quoted and trailing
// commas before ] or } are dropped.
func repairJSON(src string) string {
	var out strings.Builder
	out.Grow(len(src) + 16)

	n := len(src)
	for i := 0; i < n; i++ {
		c := src[i]
		switch {
		case c == '"' || c == '\'':
			quote := c
			out.WriteByte('"')
			for i++; i < n && src[i] != quote; i++ {
				switch {
				case src[i] == '\\' && i+1 < n:
					if src[i+1] == '\'' {
						out.WriteByte('\'')
					} else {
						out.WriteByte('\\')
						out.WriteByte(src[i+1])
					}
					i++
				case src[i] == '"':
					out.WriteString(`\"`)
				default:
					out.WriteByte(src[i])
				}
			}
			out.WriteByte('"')

		case c == ',':
			j := i + 1
			for j < n && isSpace(src[j]) {
				j++
			}
			if j < n && (src[j] == ']' || src[j] == '}') {
				continue
			}
			out.WriteByte(c)

		case isIdentStart(c):
			j := i
			for j < n && isIdentPart(src[j]) {
				j++
			}
			word := src[i:j]
			k := j
			for k < n && isSpace(src[k]) {
				k++
			}
			if k < n && src[k] == ':' {
				out.WriteString(`"` + word + `"`)
			} else {
				out.WriteString(word)
			}
			i = j - 1

		default:
			out.WriteByte(c)
		}
	}
	return out.String()
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

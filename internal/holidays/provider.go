package holidays

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"timetrack/internal/models"
)

// Provider returns the public holidays of a year. Implementations never fail:
// fetch and decode problems are logged and yield an empty list.
type Provider interface {
	GetHolidays(ctx context.Context, year int) []models.Holiday
}

const (
	ProviderWebsite = "ARGENTINA_WEBSITE"
	ProviderAPI     = "ARGENTINA_API"
	ProviderFile    = "FILE"
)

const (
	DefaultWebsiteURL = "https://www.argentina.gob.ar/interior/feriados-nacionales-{year}"
	DefaultTimeout    = 10 * time.Second

	// some sites reject the default Go client identifier
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

	// maxBody caps how much of a response is read.
	maxBody = 8 << 20
)

var (
	ErrInvalidProvider = errors.New("invalid or missing holiday provider")
	ErrMissingSetting  = errors.New("holiday provider setting is not configured")
)

type Settings struct {
	Provider string
	// BaseURL is the website template, {year} is replaced.
	BaseURL string
	// APIURL is the JSON endpoint template, {year} is replaced.
	APIURL string
	// File is a calendar file path, {year} is replaced.
	File    string
	Timeout time.Duration
	Client  *http.Client
}

// NewProvider builds the configured provider. Settings are checked eagerly;
// there is no fallback provider.
func NewProvider(s Settings) (Provider, error) {
	name := strings.ToUpper(strings.TrimSpace(s.Provider))

	client := s.Client
	if client == nil {
		timeout := s.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	switch name {
	case ProviderWebsite:
		if strings.TrimSpace(s.BaseURL) == "" {
			return nil, fmt.Errorf("%w: HOLIDAYS_BASE_URL", ErrMissingSetting)
		}
		return NewWebsiteProvider(s.BaseURL, client), nil
	case ProviderAPI:
		if strings.TrimSpace(s.APIURL) == "" {
			return nil, fmt.Errorf("%w: HOLIDAY_API_URL", ErrMissingSetting)
		}
		return NewAPIProvider(s.APIURL, client), nil
	case ProviderFile:
		if strings.TrimSpace(s.File) == "" {
			return nil, fmt.Errorf("%w: HOLIDAYS_FILE", ErrMissingSetting)
		}
		return NewFileProvider(s.File), nil
	default:
		return nil, fmt.Errorf("%w: '%s'", ErrInvalidProvider, s.Provider)
	}
}

func forYear(template string, year int) string {
	return strings.ReplaceAll(template, "{year}", strconv.Itoa(year))
}

// fetch performs a GET and fails on transport errors and non-2xx statuses.
func fetch(ctx context.Context, client *http.Client, url string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range header {
		req.Header[k] = v
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxBody))
}

// typeLabel maps a lowercase source code onto a display label, "Otro" when
// unknown.
func typeLabel(labels map[string]string, raw string) string {
	if label, ok := labels[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return label
	}
	return models.HolidayTypeOther
}

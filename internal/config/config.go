package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"timetrack/internal/holidays"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	DatabaseURL string
	LogLevel    string

	HolidayProvider           string
	HolidaysBaseURL           string
	HolidayAPIURL             string
	HolidaysFile              string
	HolidayHTTPTimeoutSeconds int64

	DefaultEmployeeID    uint
	WorkHoursPerDay      float64
	ImportStrictPDFTimes bool
	UploadDir            string
}

// Load reads the environment, with values from an optional .env file in the
// working directory filled in first. Unset variables fall back to defaults.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		logrus.Debug("No .env file found, using environment only")
	}

	employeeID := getEnvAsInt("DEFAULT_EMPLOYEE_ID", 1)
	if employeeID <= 0 {
		return nil, errors.New("DEFAULT_EMPLOYEE_ID must be positive")
	}

	cfg := &Config{
		DatabaseURL: getEnv("DATABASE_URL", "timetrack.db"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		HolidayProvider:           getEnv("HOLIDAY_PROVIDER", holidays.ProviderWebsite),
		HolidaysBaseURL:           getEnv("HOLIDAYS_BASE_URL", holidays.DefaultWebsiteURL),
		HolidayAPIURL:             getEnv("HOLIDAY_API_URL", ""),
		HolidaysFile:              getEnv("HOLIDAYS_FILE", ""),
		HolidayHTTPTimeoutSeconds: getEnvAsInt("HOLIDAY_HTTP_TIMEOUT_SECONDS", 10),

		DefaultEmployeeID:    uint(employeeID),
		WorkHoursPerDay:      getEnvAsFloat("WORK_HOURS_PER_DAY", 8),
		ImportStrictPDFTimes: getEnvAsBool("IMPORT_STRICT_PDF_TIMES", false),
		UploadDir:            getEnv("UPLOAD_DIR", "uploads"),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL cannot be empty")
	}

	return cfg, nil
}

// HolidaySettings maps the configuration onto provider settings.
func (c *Config) HolidaySettings() holidays.Settings {
	return holidays.Settings{
		Provider: c.HolidayProvider,
		BaseURL:  c.HolidaysBaseURL,
		APIURL:   c.HolidayAPIURL,
		File:     c.HolidaysFile,
		Timeout:  time.Duration(c.HolidayHTTPTimeoutSeconds) * time.Second,
	}
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultVal
}

func getEnvAsBool(name string, defaultVal bool) bool {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}

	return defaultVal
}

func getEnvAsInt(name string, defaultVal int64) int64 {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseInt(valStr, 10, 64); err == nil {
		return val
	}

	return defaultVal
}

func getEnvAsFloat(name string, defaultVal float64) float64 {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseFloat(valStr, 64); err == nil {
		return val
	}

	return defaultVal
}

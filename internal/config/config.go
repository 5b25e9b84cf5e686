package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Data backends the dashboard can read its records from.
const (
	BackendAPI     = "api"
	BackendMongoDB = "mongodb"
	BackendSheets  = "sheets"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Backend   string
	DairyAPI  DairyAPIConfig
	MongoDB   MongoDBConfig
	Sheets    SheetsConfig
	Dashboard DashboardConfig
	Reporting ReportingConfig
	WhatsApp  WhatsAppConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// LogConfig holds logger options.
type LogConfig struct {
	Level string
}

// DairyAPIConfig points at the REST API serving milk entries, payments and users.
type DairyAPIConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// DashboardConfig shapes the daily series and chart canvas.
type DashboardConfig struct {
	WindowDays      int
	ChartHeight     float64
	MinScale        float64
	Timezone        string
	CurrencyLabel   string
	RefreshSchedule string
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	CronSchedule string
}

// WhatsAppConfig contains credentials and options for the Meta WhatsApp Cloud API.
// The daily digest is only sent when it is fully populated.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	BaseURL       string
	APIVersion    string
	ManagerID     string
}

// Enabled reports whether enough WhatsApp settings are present to send messages.
func (w WhatsAppConfig) Enabled() bool {
	return w.AccessToken != "" && w.PhoneNumberID != "" && w.ManagerID != ""
}

// Location resolves the dashboard timezone.
func (d DashboardConfig) Location() (*time.Location, error) {
	return time.LoadLocation(d.Timezone)
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	apiTimeout, err := getenvDuration("DAIRY_API_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	windowDays, err := getenvInt("DASHBOARD_WINDOW_DAYS", 7)
	if err != nil {
		return nil, err
	}
	chartHeight, err := getenvFloat("DASHBOARD_CHART_HEIGHT", 300)
	if err != nil {
		return nil, err
	}
	minScale, err := getenvFloat("DASHBOARD_MIN_SCALE", 10)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Log: LogConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
		},
		Backend: getenvWithDefault("DATA_BACKEND", BackendAPI),
		DairyAPI: DairyAPIConfig{
			BaseURL: getenvWithDefault("DAIRY_API_BASE_URL", "http://localhost:3000"),
			Token:   os.Getenv("DAIRY_API_TOKEN"),
			Timeout: apiTimeout,
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "dairy"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		Dashboard: DashboardConfig{
			WindowDays:      windowDays,
			ChartHeight:     chartHeight,
			MinScale:        minScale,
			Timezone:        getenvWithDefault("TIMEZONE", "UTC"),
			CurrencyLabel:   getenvWithDefault("CURRENCY_LABEL", "RS"),
			RefreshSchedule: getenvWithDefault("DASHBOARD_REFRESH_SCHEDULE", "@every 5m"),
		},
		Reporting: ReportingConfig{
			CronSchedule: getenvWithDefault("REPORT_CRON_SCHEDULE", "0 20 * * *"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			ManagerID:     os.Getenv("WHATSAPP_MANAGER_ID"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}
	if port, err := strconv.Atoi(c.Server.Port); err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("APP_PORT %q is not a valid port", c.Server.Port)
	}

	switch c.Backend {
	case BackendAPI:
		if c.DairyAPI.BaseURL == "" {
			return errors.New("DAIRY_API_BASE_URL must be provided for the api backend")
		}
	case BackendMongoDB:
		if c.MongoDB.URI == "" {
			return errors.New("MONGODB_URI must be provided for the mongodb backend")
		}
		if c.MongoDB.DBName == "" {
			return errors.New("MONGODB_DB_NAME must not be empty")
		}
	case BackendSheets:
		if c.Sheets.CredentialsPath == "" {
			return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided for the sheets backend")
		}
		if c.Sheets.SpreadsheetID == "" {
			return errors.New("GOOGLE_SHEET_DATABASE_ID must be provided for the sheets backend")
		}
	default:
		return fmt.Errorf("DATA_BACKEND %q must be one of [%s %s %s]", c.Backend, BackendAPI, BackendMongoDB, BackendSheets)
	}

	if c.Dashboard.WindowDays <= 0 {
		return errors.New("DASHBOARD_WINDOW_DAYS must be positive")
	}
	if c.Dashboard.ChartHeight <= 0 {
		return errors.New("DASHBOARD_CHART_HEIGHT must be positive")
	}
	if c.Dashboard.MinScale <= 0 {
		return errors.New("DASHBOARD_MIN_SCALE must be positive")
	}
	if _, err := c.Dashboard.Location(); err != nil {
		return fmt.Errorf("TIMEZONE %q: %w", c.Dashboard.Timezone, err)
	}

	if _, err := cron.ParseStandard(c.Dashboard.RefreshSchedule); err != nil {
		return fmt.Errorf("DASHBOARD_REFRESH_SCHEDULE %q: %w", c.Dashboard.RefreshSchedule, err)
	}
	if _, err := cron.ParseStandard(c.Reporting.CronSchedule); err != nil {
		return fmt.Errorf("REPORT_CRON_SCHEDULE %q: %w", c.Reporting.CronSchedule, err)
	}

	if c.WhatsApp.Enabled() {
		if c.WhatsApp.BaseURL == "" {
			return errors.New("WHATSAPP_BASE_URL must not be empty")
		}
		if c.WhatsApp.APIVersion == "" {
			return errors.New("WHATSAPP_API_VERSION must not be empty")
		}
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getenvFloat(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}
	return f, nil
}

func getenvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}

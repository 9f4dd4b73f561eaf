package config

import (
	"errors"
	"os"
	"strings"
)

// Config holds the core runtime configuration for the service.
// Values are primarily sourced from environment variables, with
// sensible defaults where appropriate. See .env.example.
type Config struct {
	AdminUser     string
	AdminPassword string

	DatabaseURL string

	ListenAddr string

	// CalendarID is the Google Calendar to sync meeting events from.
	CalendarID string

	// ServiceAccountJSON holds the service account key as raw JSON.
	// If empty, ServiceAccountPath is read instead.
	ServiceAccountJSON string
	ServiceAccountPath string

	// ImpersonateUser is the domain user the delegated Drive credential
	// acts as. Empty disables the delegated strategy.
	ImpersonateUser string

	// OwnDomain is the operator's email domain. Attendees on this domain
	// are never treated as the counterpart of a meeting.
	OwnDomain string

	// CronSecret guards the machine-called endpoints (/v1/cron/daily-sync
	// and /metrics). If empty, those endpoints are disabled.
	CronSecret string

	// SyncCron is an optional cron schedule (evaluated in JST) for the
	// in-process daily sync. Empty means an external scheduler drives the
	// cron endpoint instead.
	SyncCron string
}

// Load reads configuration from environment variables and applies defaults.
func Load() *Config {
	return &Config{
		AdminUser:          getenv("APP_ADMIN_USER", "admin"),
		AdminPassword:      getenv("APP_ADMIN_PASSWORD", "changeme"),
		DatabaseURL:        os.Getenv("APP_DATABASE_URL"),
		ListenAddr:         getenv("APP_LISTEN_ADDR", ":8080"),
		CalendarID:         os.Getenv("GCAL_CALENDAR_ID"),
		ServiceAccountJSON: os.Getenv("GCAL_SERVICE_ACCOUNT_JSON"),
		ServiceAccountPath: getenv("GCAL_SERVICE_ACCOUNT_PATH", "./google-service-account.json"),
		ImpersonateUser:    os.Getenv("GCAL_IMPERSONATE_USER"),
		OwnDomain:          getenv("APP_OWN_DOMAIN", "digital-hacks.com"),
		CronSecret:         os.Getenv("APP_CRON_SECRET"),
		SyncCron:           os.Getenv("APP_SYNC_CRON"),
	}
}

// ServiceAccountKey returns the service account key JSON, preferring the
// inline env value over the key file.
func (c *Config) ServiceAccountKey() ([]byte, error) {
	if s := strings.TrimSpace(c.ServiceAccountJSON); s != "" {
		return []byte(s), nil
	}
	if c.ServiceAccountPath == "" {
		return nil, errors.New("GCAL_SERVICE_ACCOUNT_JSON or GCAL_SERVICE_ACCOUNT_PATH is required")
	}
	return os.ReadFile(c.ServiceAccountPath)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

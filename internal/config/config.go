package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the core runtime configuration for the service.
// Values are primarily sourced from environment variables, with
// sensible defaults where appropriate.
type Config struct {
	AdminUser     string
	AdminPassword string

	// DatabaseURL is either a postgres:// URL or a sqlite location
	// ("sqlite://path" or a bare file path).
	DatabaseURL string

	ListenAddr string

	// SessionTTL is how long a login stays valid.
	SessionTTL time.Duration

	// CookieSecure marks the session cookie Secure (HTTPS only).
	CookieSecure bool

	// CORSOrigins lists origins allowed to call the API from a browser.
	// "*" allows any origin; an empty list disables CORS headers.
	CORSOrigins []string

	Version string
}

// Load reads configuration from environment variables and applies
// defaults for anything unset or unparsable.
func Load() *Config {
	cfg := &Config{
		AdminUser:     getenv("APP_ADMIN_USER", "admin"),
		AdminPassword: getenv("APP_ADMIN_PASSWORD", "changeme"),
		DatabaseURL:   getenv("APP_DATABASE_URL", "sqlite://drilllog.db"),
		ListenAddr:    getenv("APP_LISTEN_ADDR", ":8080"),
		SessionTTL:    14 * 24 * time.Hour,
		CookieSecure:  os.Getenv("APP_COOKIE_SECURE") == "true",
		CORSOrigins:   splitList(os.Getenv("APP_CORS_ORIGINS")),
		Version:       getenv("APP_VERSION", "dev"),
	}

	if v := os.Getenv("APP_SESSION_TTL_HOURS"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil && hours > 0 {
			cfg.SessionTTL = time.Duration(hours) * time.Hour
		}
	}

	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

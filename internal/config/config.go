package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// RateLimitConfig controls the sliding-window quota applied to contact
// form submissions. The window moves continuously, so a client can never
// burst twice across a window boundary.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// SMTPConfig holds the outbound mail server configuration.
type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	Encryption  string // "none", "ssl", "starttls"
}

// Config captures runtime configuration sourced from environment variables.
type Config struct {
	Environment  string
	HTTPPort     string
	DatabasePath string
	FrontendDir  string
	BlogDir      string

	RedisURL         string
	ContactRecipient string
	ContactRateLimit RateLimitConfig
	SMTP             SMTPConfig

	SiteLockEnabled bool
	SitePassword    string

	AdminToken string
	AlertURLs  []string
}

// Load reads env vars and falls back to defaults so the server can boot
// with zero configuration in development. A .env file is honored when
// present. Validation fails fast on configuration that would otherwise
// surface as a runtime denial on every request.
func Load() (Config, error) {
	// Missing .env is fine; real deployments set env vars directly.
	_ = godotenv.Load()

	cfg := Config{
		Environment:  getEnv("ALORA_ENV", "development"),
		HTTPPort:     getEnv("ALORA_HTTP_PORT", "8080"),
		DatabasePath: getEnv("ALORA_DB_PATH", filepath.Join("data", "alora.db")),
		FrontendDir:  getEnv("ALORA_FRONTEND_DIR", filepath.Clean(filepath.Join("..", "frontend", "dist"))),
		BlogDir:      getEnv("ALORA_BLOG_DIR", filepath.Join("content", "blog")),

		RedisURL:         getEnv("REDIS_URL", "redis://localhost:6379/0"),
		ContactRecipient: getEnv("CONTACT_FORM_RECIPIENT", "contact@aloraops.com"),
		ContactRateLimit: RateLimitConfig{
			Requests: getEnvInt("CONTACT_RATE_LIMIT", 3),
			Window:   getEnvDuration("CONTACT_RATE_WINDOW", time.Hour),
		},
		SMTP: SMTPConfig{
			Host:        getEnv("SMTP_HOST", ""),
			Port:        getEnvInt("SMTP_PORT", 587),
			Username:    getEnv("SMTP_USERNAME", ""),
			Password:    getEnv("SMTP_PASSWORD", ""),
			FromAddress: getEnv("SMTP_FROM_ADDRESS", "noreply@contact.aloraops.com"),
			Encryption:  getEnv("SMTP_ENCRYPTION", "starttls"),
		},

		SiteLockEnabled: getEnvBool("ENABLE_PASSWORD_PROTECTION", false),
		SitePassword:    getEnv("SITE_PASSWORD", ""),

		AdminToken: getEnv("ALORA_ADMIN_TOKEN", ""),
		AlertURLs:  splitList(getEnv("ALORA_ALERT_URLS", "")),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return Config{}, fmt.Errorf("ensure data directory: %w", err)
	}

	return cfg, nil
}

// Validate rejects configurations that would deny every request at
// runtime. The gate itself still fails closed if a bad config slips
// through; this just moves the failure to startup.
func (c Config) Validate() error {
	if c.SiteLockEnabled && c.SitePassword == "" {
		return fmt.Errorf("ENABLE_PASSWORD_PROTECTION is set but SITE_PASSWORD is empty")
	}
	if c.ContactRateLimit.Requests <= 0 {
		return fmt.Errorf("CONTACT_RATE_LIMIT must be positive, got %d", c.ContactRateLimit.Requests)
	}
	if c.ContactRateLimit.Window <= 0 {
		return fmt.Errorf("CONTACT_RATE_WINDOW must be positive, got %s", c.ContactRateLimit.Window)
	}
	if c.IsProduction() {
		if c.SMTP.Host == "" {
			return fmt.Errorf("SMTP_HOST is required in production")
		}
		if c.ContactRecipient == "" {
			return fmt.Errorf("CONTACT_FORM_RECIPIENT is required in production")
		}
	}
	return nil
}

// IsProduction reports whether the server runs with production settings.
func (c Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}

	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}

	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}

	return fallback
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

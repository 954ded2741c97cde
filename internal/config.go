package internal

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/DukeRupert/parkiez/internal/analytics"
	"github.com/DukeRupert/parkiez/internal/domain"
)

// devSessionSecret signs session cookies when SESSION_SECRET is unset in development.
const devSessionSecret = "parkiez-dev-session-secret-change-me"

type Config struct {
	Env      string
	Port     int
	LogLevel string

	// Application base URL
	BaseURL string

	// Parkiez backend API
	BackendURL     string
	BackendTimeout time.Duration

	// Operator session cookie
	SessionSecret string
	SessionTTL    time.Duration

	// Password rule reporting ("all" or "first")
	PasswordPolicy domain.PasswordPolicy

	// Analytics chart sizing
	ChartLayout analytics.LayoutConfig

	// Rate limits (attempts per window)
	LoginRateLimit      int
	LoginRateWindow     time.Duration
	AttendantRateLimit  int
	AttendantRateWindow time.Duration

	// Templates directory for hot reload in development; empty uses the embedded copy
	TemplatesDir string

	// Metrics endpoint authentication
	// If both are empty, the /metrics endpoint will be unprotected (not recommended)
	MetricsUsername string
	MetricsPassword string
}

func NewConfig() (*Config, error) {
	// Load .env file if it exists (ignored in production)
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "debug"),

		BaseURL: getEnv("BASE_URL", "http://localhost:8080"),

		BackendURL:     getEnv("BACKEND_URL", "http://localhost:8081"),
		BackendTimeout: getEnvDuration("BACKEND_TIMEOUT", 10*time.Second),

		SessionSecret: getEnv("SESSION_SECRET", ""),
		SessionTTL:    getEnvDuration("SESSION_TTL", 24*time.Hour),

		ChartLayout: analytics.LayoutConfig{
			NarrowBreakpoint: getEnvInt("CHART_NARROW_BREAKPOINT", analytics.DefaultNarrowBreakpoint),
			NarrowMargin:     getEnvInt("CHART_NARROW_MARGIN", analytics.DefaultNarrowMargin),
			NarrowHeight:     getEnvInt("CHART_NARROW_HEIGHT", analytics.DefaultNarrowHeight),
			WideWidth:        getEnvInt("CHART_WIDE_WIDTH", analytics.DefaultWideWidth),
			WideHeight:       getEnvInt("CHART_WIDE_HEIGHT", analytics.DefaultWideHeight),
		},

		LoginRateLimit:      getEnvInt("LOGIN_RATE_LIMIT", 5),
		LoginRateWindow:     getEnvDuration("LOGIN_RATE_WINDOW", 15*time.Minute),
		AttendantRateLimit:  getEnvInt("ATTENDANT_RATE_LIMIT", 20),
		AttendantRateWindow: getEnvDuration("ATTENDANT_RATE_WINDOW", time.Hour),

		TemplatesDir: getEnv("TEMPLATES_DIR", ""),

		MetricsUsername: getEnv("METRICS_USERNAME", ""),
		MetricsPassword: getEnv("METRICS_PASSWORD", ""),
	}

	policy, err := domain.ParsePasswordPolicy(getEnv("PASSWORD_POLICY", "all"))
	if err != nil {
		return nil, fmt.Errorf("PASSWORD_POLICY: %w", err)
	}
	cfg.PasswordPolicy = policy

	if cfg.SessionSecret == "" {
		if cfg.Env != "development" {
			return nil, fmt.Errorf("SESSION_SECRET is required outside development")
		}
		cfg.SessionSecret = devSessionSecret
	}
	if len(cfg.SessionSecret) < 32 && cfg.Env != "development" {
		return nil, fmt.Errorf("SESSION_SECRET must be at least 32 characters")
	}

	if cfg.BackendURL == "" {
		return nil, fmt.Errorf("BACKEND_URL is required")
	}

	if cfg.ChartLayout.NarrowBreakpoint <= 0 || cfg.ChartLayout.WideWidth <= 0 || cfg.ChartLayout.WideHeight <= 0 || cfg.ChartLayout.NarrowHeight <= 0 {
		return nil, fmt.Errorf("chart layout dimensions must be positive")
	}
	if cfg.ChartLayout.NarrowMargin < 0 {
		return nil, fmt.Errorf("CHART_NARROW_MARGIN must not be negative")
	}

	return cfg, nil
}

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

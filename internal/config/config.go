package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the storefront assistant gateway.
type Config struct {
	BindAddr         string
	ShutdownTimeout  time.Duration
	MetricsNamespace string

	// Backend services the assistant composes against.
	AuthServiceURL    string
	AgentServiceURL   string
	CatalogServiceURL string

	// Storage driver selection. "postgres" requires DatabaseURL, "sqlite"
	// requires StoragePath, anything else falls back to in-memory.
	StorageDriver string
	DatabaseURL   string
	StoragePath   string

	SessionInactivityTimeout time.Duration
	HistoryLimit             int

	// Event planner horizons and pacing.
	SuggestionHorizonDays int
	ReminderHorizonDays   int
	ReminderInterval      time.Duration
	ReminderStagger       time.Duration
	SuggestionDelay       time.Duration
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:                 envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace:         envOrDefault("APP_METRICS_NAMESPACE", "fashionpulse"),
		AuthServiceURL:           envOrDefault("AUTH_SERVICE_URL", "http://localhost:5002"),
		AgentServiceURL:          envOrDefault("AGENT_SERVICE_URL", "http://localhost:5001"),
		CatalogServiceURL:        envOrDefault("CATALOG_SERVICE_URL", "http://localhost:5000"),
		StorageDriver:            envOrDefault("STORAGE_DRIVER", "auto"),
		DatabaseURL:              trimmedEnv("DATABASE_URL"),
		StoragePath:              trimmedEnv("STORAGE_PATH"),
		ShutdownTimeout:          15 * time.Second,
		SessionInactivityTimeout: 30 * time.Minute,
		HistoryLimit:             10,
		SuggestionHorizonDays:    7,
		ReminderHorizonDays:      3,
		ReminderInterval:         time.Minute,
		ReminderStagger:          time.Second,
		SuggestionDelay:          time.Second,
	}

	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionInactivityTimeout, err = durationFromEnv("APP_SESSION_INACTIVITY_TIMEOUT", cfg.SessionInactivityTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.ReminderInterval, err = durationFromEnv("APP_REMINDER_INTERVAL", cfg.ReminderInterval)
	if err != nil {
		return Config{}, err
	}
	cfg.ReminderStagger, err = durationFromEnv("APP_REMINDER_STAGGER", cfg.ReminderStagger)
	if err != nil {
		return Config{}, err
	}
	cfg.SuggestionDelay, err = durationFromEnv("APP_SUGGESTION_DELAY", cfg.SuggestionDelay)
	if err != nil {
		return Config{}, err
	}
	cfg.HistoryLimit, err = intFromEnv("APP_HISTORY_LIMIT", cfg.HistoryLimit)
	if err != nil {
		return Config{}, err
	}
	cfg.SuggestionHorizonDays, err = intFromEnv("APP_SUGGESTION_HORIZON_DAYS", cfg.SuggestionHorizonDays)
	if err != nil {
		return Config{}, err
	}
	cfg.ReminderHorizonDays, err = intFromEnv("APP_REMINDER_HORIZON_DAYS", cfg.ReminderHorizonDays)
	if err != nil {
		return Config{}, err
	}

	if cfg.SessionInactivityTimeout < 5*time.Second {
		return Config{}, fmt.Errorf("APP_SESSION_INACTIVITY_TIMEOUT must be at least 5s")
	}
	if cfg.HistoryLimit <= 0 {
		return Config{}, fmt.Errorf("APP_HISTORY_LIMIT must be positive")
	}
	if cfg.SuggestionHorizonDays < cfg.ReminderHorizonDays {
		return Config{}, fmt.Errorf("APP_SUGGESTION_HORIZON_DAYS must be >= APP_REMINDER_HORIZON_DAYS")
	}
	switch strings.ToLower(strings.TrimSpace(cfg.StorageDriver)) {
	case "auto", "memory", "sqlite", "postgres":
	default:
		return Config{}, fmt.Errorf("invalid STORAGE_DRIVER: %q (expected auto|memory|sqlite|postgres)", cfg.StorageDriver)
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func trimmedEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := trimmedEnv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := trimmedEnv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

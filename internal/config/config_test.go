package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("APP_BIND_ADDR", ":9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.BindAddr != ":9090" {
		t.Fatalf("BindAddr = %q, want %q", cfg.BindAddr, ":9090")
	}
	if cfg.AgentServiceURL != "http://localhost:5001" {
		t.Fatalf("AgentServiceURL = %q, want default", cfg.AgentServiceURL)
	}
	if cfg.HistoryLimit != 10 {
		t.Fatalf("HistoryLimit = %d, want 10", cfg.HistoryLimit)
	}
	if cfg.SuggestionHorizonDays != 7 || cfg.ReminderHorizonDays != 3 {
		t.Fatalf("horizons = %d/%d, want 7/3", cfg.SuggestionHorizonDays, cfg.ReminderHorizonDays)
	}
	if cfg.StorageDriver != "auto" {
		t.Fatalf("StorageDriver = %q, want %q", cfg.StorageDriver, "auto")
	}
}

func TestLoadParsesDurations(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("APP_REMINDER_INTERVAL", "30s")
	t.Setenv("APP_REMINDER_STAGGER", "250ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ReminderInterval != 30*time.Second {
		t.Fatalf("ReminderInterval = %v, want 30s", cfg.ReminderInterval)
	}
	if cfg.ReminderStagger != 250*time.Millisecond {
		t.Fatalf("ReminderStagger = %v, want 250ms", cfg.ReminderStagger)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"bad driver", "STORAGE_DRIVER", "redis"},
		{"bad history limit", "APP_HISTORY_LIMIT", "0"},
		{"bad duration", "APP_REMINDER_INTERVAL", "soon"},
		{"horizon inversion", "APP_SUGGESTION_HORIZON_DAYS", "1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setCoreEnvEmpty(t)
			t.Setenv(tc.key, tc.value)
			if _, err := Load(); err == nil {
				t.Fatalf("Load() with %s=%q should fail", tc.key, tc.value)
			}
		})
	}
}

func setCoreEnvEmpty(t *testing.T) {
	t.Helper()
	keys := []string{
		"APP_BIND_ADDR",
		"APP_SHUTDOWN_TIMEOUT",
		"APP_SESSION_INACTIVITY_TIMEOUT",
		"APP_METRICS_NAMESPACE",
		"APP_REMINDER_INTERVAL",
		"APP_REMINDER_STAGGER",
		"APP_SUGGESTION_DELAY",
		"APP_HISTORY_LIMIT",
		"APP_SUGGESTION_HORIZON_DAYS",
		"APP_REMINDER_HORIZON_DAYS",
		"AUTH_SERVICE_URL",
		"AGENT_SERVICE_URL",
		"CATALOG_SERVICE_URL",
		"STORAGE_DRIVER",
		"DATABASE_URL",
		"STORAGE_PATH",
	}
	for _, key := range keys {
		t.Setenv(key, "")
	}
}

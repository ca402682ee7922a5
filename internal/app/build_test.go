package app

import (
	"context"
	"testing"
	"time"

	"github.com/fashionpulse/assistant/internal/config"
)

func TestBuildWithMockBackends(t *testing.T) {
	cfg := config.Config{
		BindAddr:                 ":0",
		MetricsNamespace:         "test_app_" + time.Now().Format("150405000000000"),
		AuthServiceURL:           "mock",
		AgentServiceURL:          "mock",
		CatalogServiceURL:        "mock",
		StorageDriver:            "memory",
		SessionInactivityTimeout: time.Minute,
		HistoryLimit:             10,
		SuggestionHorizonDays:    7,
		ReminderHorizonDays:      3,
	}

	res, err := Build(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			t.Fatalf("Cleanup() error = %v", err)
		}
	}()

	s := res.Sessions.Create("maya@example.com")
	w, err := res.Sessions.Widget(s.ID)
	if err != nil {
		t.Fatalf("Widget() error = %v", err)
	}
	if err := w.SendText(context.Background(), "hello"); err != nil {
		t.Fatalf("SendText() error = %v", err)
	}
	if len(w.Transcript()) != 3 {
		t.Fatalf("transcript = %d entries, want 3", len(w.Transcript()))
	}
}

// Package app assembles the assistant from configuration.
package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/fashionpulse/assistant/internal/agent"
	"github.com/fashionpulse/assistant/internal/auth"
	"github.com/fashionpulse/assistant/internal/catalog"
	"github.com/fashionpulse/assistant/internal/config"
	"github.com/fashionpulse/assistant/internal/httpapi"
	"github.com/fashionpulse/assistant/internal/observability"
	"github.com/fashionpulse/assistant/internal/planner"
	"github.com/fashionpulse/assistant/internal/session"
	"github.com/fashionpulse/assistant/internal/storage"
	"github.com/fashionpulse/assistant/internal/widget"
)

type BuildResult struct {
	Config   config.Config
	API      *httpapi.Server
	Sessions *session.Manager
	Store    storage.Store
	Auth     auth.Service
	Agent    agent.Adapter
	Catalog  catalog.Client
	Planner  *planner.Planner
	Metrics  *observability.Metrics

	// Cleanup releases external resources (DB handles) on shutdown.
	Cleanup func() error
}

// Build wires every component. A service URL of "mock" swaps that backend
// for its in-process mock, which keeps the gateway runnable without the
// storefront stack.
func Build(ctx context.Context, cfg config.Config) (*BuildResult, error) {
	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	store, err := storage.NewStore(ctx, cfg.StorageDriver, cfg.DatabaseURL, cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	var authSvc auth.Service
	if isMock(cfg.AuthServiceURL) {
		authSvc = auth.NewMockService()
	} else {
		authSvc = auth.NewHTTPService(cfg.AuthServiceURL)
	}

	var adapter agent.Adapter
	if isMock(cfg.AgentServiceURL) {
		adapter = agent.NewMockAdapter()
	} else {
		adapter = agent.NewHTTPAdapter(cfg.AgentServiceURL)
	}

	var catalogClient catalog.Client
	if isMock(cfg.CatalogServiceURL) {
		catalogClient = catalog.NewMockClient()
	} else {
		catalogClient = catalog.NewHTTPClient(cfg.CatalogServiceURL)
	}

	eventPlanner := planner.New(store, adapter, metrics, planner.Options{
		SuggestionHorizonDays: cfg.SuggestionHorizonDays,
		ReminderHorizonDays:   cfg.ReminderHorizonDays,
		SuggestionDelay:       cfg.SuggestionDelay,
		ReminderStagger:       cfg.ReminderStagger,
	})

	factory := func(userID string) *widget.Widget {
		return widget.New(widget.Config{
			UserID:       userID,
			Agent:        adapter,
			Catalog:      catalogClient,
			Store:        store,
			Planner:      eventPlanner,
			Metrics:      metrics,
			HistoryLimit: cfg.HistoryLimit,
			ScanInterval: cfg.ReminderInterval,
		})
	}

	sessions := session.NewManager(cfg.SessionInactivityTimeout, factory, metrics)

	api := httpapi.New(cfg, sessions, authSvc, store, metrics)

	return &BuildResult{
		Config:   cfg,
		API:      api,
		Sessions: sessions,
		Store:    store,
		Auth:     authSvc,
		Agent:    adapter,
		Catalog:  catalogClient,
		Planner:  eventPlanner,
		Metrics:  metrics,
		Cleanup:  store.Close,
	}, nil
}

func isMock(url string) bool {
	return strings.EqualFold(strings.TrimSpace(url), "mock")
}

package storage

import (
	"context"
	"fmt"
	"strings"
)

// NewStore selects a driver. "auto" prefers postgres when DATABASE_URL is
// set, then sqlite when a path is set, then in-memory.
func NewStore(ctx context.Context, driver, databaseURL, storagePath string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "auto":
		if strings.TrimSpace(databaseURL) != "" {
			return NewPostgresStore(ctx, databaseURL)
		}
		if strings.TrimSpace(storagePath) != "" {
			return NewSQLiteStore(ctx, storagePath)
		}
		return NewInMemoryStore(), nil
	case "memory":
		return NewInMemoryStore(), nil
	case "sqlite":
		if strings.TrimSpace(storagePath) == "" {
			return nil, fmt.Errorf("sqlite driver requires STORAGE_PATH")
		}
		return NewSQLiteStore(ctx, storagePath)
	case "postgres":
		if strings.TrimSpace(databaseURL) == "" {
			return nil, fmt.Errorf("postgres driver requires DATABASE_URL")
		}
		return NewPostgresStore(ctx, databaseURL)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}
}

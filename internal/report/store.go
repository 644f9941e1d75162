// Package report persists and serves daily reports. A Store is a byte
// slot per calendar date; the Cache layers report encoding and a
// freshness window on top; the Service is the single entry every
// surface (HTTP, cron, CLI, function) goes through.
package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"diderot/internal/config"
	"diderot/internal/model"
)

// ErrNotFound is returned when no report is stored for a date.
var ErrNotFound = errors.New("report not found")

// Store is a byte-oriented key-value slot per ISO date (YYYY-MM-DD).
// Put overwrites; the previous value for the date is gone.
type Store interface {
	Get(ctx context.Context, date string) ([]byte, error)
	Put(ctx context.Context, date string, data []byte) error
	Delete(ctx context.Context, date string) error
	Dates(ctx context.Context) ([]string, error)
	Close() error
}

// NewStore builds the backend named in the configuration.
func NewStore(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.ReportStore {
	case "memory":
		return NewMemoryStore(), nil
	case "file":
		return NewFileStore(cfg.ReportDir), nil
	case "gcs":
		return NewGCSStore(ctx, cfg.ReportBucket)
	case "postgres":
		return NewPostgresStore(ctx, cfg.DatabaseURL)
	case "redis":
		return NewRedisStore(cfg.RedisURL)
	default:
		return nil, fmt.Errorf("unsupported report store: %s", cfg.ReportStore)
	}
}

// ValidateDate rejects keys that are not ISO calendar dates before
// they reach a backend.
func ValidateDate(date string) error {
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return fmt.Errorf("invalid report date %q: %w", date, err)
	}
	return nil
}

package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"diderot/internal/metrics"
	"diderot/internal/model"
)

// CacheWriteError reports a report that was generated but could not be
// persisted. The run's result is still usable; only its freshness
// guarantee is gone.
type CacheWriteError struct {
	Date string
	Err  error
}

func (e *CacheWriteError) Error() string {
	return fmt.Sprintf("caching report for %s: %v", e.Date, e.Err)
}

func (e *CacheWriteError) Unwrap() error {
	return e.Err
}

// Cache maps calendar dates to daily reports with a validity window.
// Concurrent Puts for one date are last-write-wins: each write is a
// single marshal and store call with no read-modify-write cycle.
type Cache struct {
	store    Store
	validity time.Duration
	now      func() time.Time
}

func NewCache(store Store, validity time.Duration) *Cache {
	if validity <= 0 {
		validity = 24 * time.Hour
	}
	return &Cache{
		store:    store,
		validity: validity,
		now:      time.Now,
	}
}

// Get decodes the stored report for the date. ErrNotFound passes
// through untouched so callers can distinguish absent from broken.
func (c *Cache) Get(ctx context.Context, date string) (*model.DailyReport, error) {
	if err := ValidateDate(date); err != nil {
		return nil, err
	}

	data, err := c.store.Get(ctx, date)
	if err != nil {
		if err == ErrNotFound {
			metrics.CacheEvents.WithLabelValues("miss").Inc()
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading cached report: %w", err)
	}

	var rep model.DailyReport
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("decoding cached report for %s: %w", date, err)
	}

	metrics.CacheEvents.WithLabelValues("hit").Inc()
	return &rep, nil
}

// Put overwrites the date's slot with the report.
func (c *Cache) Put(ctx context.Context, date string, rep *model.DailyReport) error {
	if err := ValidateDate(date); err != nil {
		return err
	}

	data, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("encoding report for %s: %w", date, err)
	}

	if err := c.store.Put(ctx, date, data); err != nil {
		metrics.CacheEvents.WithLabelValues("write_error").Inc()
		return &CacheWriteError{Date: date, Err: err}
	}
	return nil
}

// Fresh reports whether rep is still inside the validity window,
// measured against the wall clock now, not the write time. Exactly at
// the window boundary a report is stale.
func (c *Cache) Fresh(rep *model.DailyReport) bool {
	if rep == nil {
		return false
	}
	return c.now().Sub(rep.GeneratedAt) < c.validity
}

// IsFresh reports whether the date has a stored report that is still
// inside the validity window.
func (c *Cache) IsFresh(ctx context.Context, date string) bool {
	rep, err := c.Get(ctx, date)
	if err != nil {
		return false
	}
	if !c.Fresh(rep) {
		metrics.CacheEvents.WithLabelValues("stale").Inc()
		return false
	}
	return true
}

package report

import (
	"context"

	"diderot/internal/logging"
	"diderot/internal/model"
)

// Generator runs the pipeline for one date.
type Generator interface {
	Run(ctx context.Context, date string) (*model.DailyReport, error)
}

// Notifier announces a freshly generated report.
type Notifier interface {
	Announce(ctx context.Context, rep *model.DailyReport) error
}

// Service is the cache-first entry for daily digests, shared by the
// HTTP handlers, the cron schedule, the CLI and the function target.
type Service struct {
	cache     *Cache
	generator Generator
	notifiers []Notifier
	log       *logging.Entry
}

func NewService(cache *Cache, generator Generator, notifiers ...Notifier) *Service {
	return &Service{
		cache:     cache,
		generator: generator,
		notifiers: notifiers,
		log:       logging.WithComponent("digest"),
	}
}

// DailyDigest returns the date's report, generating it only when the
// cached copy is missing or stale, or when force is set. A failed
// cache write comes back as a *CacheWriteError alongside the report:
// the digest is still good, it just will not survive a restart.
func (s *Service) DailyDigest(ctx context.Context, date string, force bool) (*model.DailyReport, error) {
	if err := ValidateDate(date); err != nil {
		return nil, err
	}

	if !force {
		if rep, err := s.cache.Get(ctx, date); err == nil && s.cache.Fresh(rep) {
			s.log.WithField("date", date).Info("serving cached report")
			return rep, nil
		}
	}

	s.log.WithField("date", date).WithField("force", force).Info("generating report")

	rep, err := s.generator.Run(ctx, date)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Put(ctx, date, rep); err != nil {
		s.log.WithField("date", date).WithField("error", err.Error()).Error("report generated but not cached")
		return rep, err
	}

	s.announce(ctx, rep)
	return rep, nil
}

// Cached returns the stored report for the date without triggering
// generation.
func (s *Service) Cached(ctx context.Context, date string) (*model.DailyReport, error) {
	return s.cache.Get(ctx, date)
}

// announce fans the report out to the configured notifiers. Delivery
// is best-effort; a failed announcement only logs.
func (s *Service) announce(ctx context.Context, rep *model.DailyReport) {
	for _, n := range s.notifiers {
		if err := n.Announce(ctx, rep); err != nil {
			s.log.WithField("date", rep.Date).
				WithField("error", err.Error()).
				Warn("report announcement failed")
		}
	}
}

package report

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"diderot/internal/model"
)

type fakeGenerator struct {
	mu     sync.Mutex
	runs   int
	report *model.DailyReport
	err    error
}

func (g *fakeGenerator) Run(ctx context.Context, date string) (*model.DailyReport, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.runs++
	if g.err != nil {
		return nil, g.err
	}
	rep := *g.report
	rep.Date = date
	return &rep, nil
}

func (g *fakeGenerator) Runs() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.runs
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (n *fakeNotifier) Announce(ctx context.Context, rep *model.DailyReport) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
	return n.err
}

func TestDailyDigestServesFreshCache(t *testing.T) {
	cache := NewCache(NewMemoryStore(), 24*time.Hour)
	ctx := context.Background()

	cached := sampleReport("2026-08-23", time.Now().UTC())
	require.NoError(t, cache.Put(ctx, "2026-08-23", cached))

	gen := &fakeGenerator{report: sampleReport("2026-08-23", time.Now().UTC())}
	svc := NewService(cache, gen)

	got, err := svc.DailyDigest(ctx, "2026-08-23", false)
	require.NoError(t, err)
	require.Equal(t, cached, got)
	require.Equal(t, 0, gen.Runs())
}

func TestDailyDigestRegeneratesStaleCache(t *testing.T) {
	cache := NewCache(NewMemoryStore(), 24*time.Hour)
	ctx := context.Background()

	stale := sampleReport("2026-08-23", time.Now().UTC().Add(-25*time.Hour))
	require.NoError(t, cache.Put(ctx, "2026-08-23", stale))

	gen := &fakeGenerator{report: sampleReport("2026-08-23", time.Now().UTC())}
	svc := NewService(cache, gen)

	_, err := svc.DailyDigest(ctx, "2026-08-23", false)
	require.NoError(t, err)
	require.Equal(t, 1, gen.Runs())
}

func TestDailyDigestForceBypassesCache(t *testing.T) {
	cache := NewCache(NewMemoryStore(), 24*time.Hour)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "2026-08-23", sampleReport("2026-08-23", time.Now().UTC())))

	gen := &fakeGenerator{report: sampleReport("2026-08-23", time.Now().UTC())}
	svc := NewService(cache, gen)

	_, err := svc.DailyDigest(ctx, "2026-08-23", true)
	require.NoError(t, err)
	require.Equal(t, 1, gen.Runs())
}

func TestDailyDigestCommitsResult(t *testing.T) {
	cache := NewCache(NewMemoryStore(), 24*time.Hour)
	ctx := context.Background()

	gen := &fakeGenerator{report: sampleReport("2026-08-23", time.Now().UTC())}
	svc := NewService(cache, gen)

	got, err := svc.DailyDigest(ctx, "2026-08-23", false)
	require.NoError(t, err)

	stored, err := cache.Get(ctx, "2026-08-23")
	require.NoError(t, err)
	require.Equal(t, got, stored)
}

func TestDailyDigestReturnsReportOnCacheWriteFailure(t *testing.T) {
	cache := NewCache(&failingStore{}, 24*time.Hour)

	gen := &fakeGenerator{report: sampleReport("2026-08-23", time.Now().UTC())}
	svc := NewService(cache, gen)

	got, err := svc.DailyDigest(context.Background(), "2026-08-23", false)
	require.NotNil(t, got)
	require.Error(t, err)

	var writeErr *CacheWriteError
	require.ErrorAs(t, err, &writeErr)
}

func TestDailyDigestNotifiesOnGeneration(t *testing.T) {
	cache := NewCache(NewMemoryStore(), 24*time.Hour)
	gen := &fakeGenerator{report: sampleReport("2026-08-23", time.Now().UTC())}
	slack := &fakeNotifier{}
	kafka := &fakeNotifier{err: context.DeadlineExceeded} // failure only logs
	svc := NewService(cache, gen, slack, kafka)

	_, err := svc.DailyDigest(context.Background(), "2026-08-23", false)
	require.NoError(t, err)
	require.Equal(t, 1, slack.calls)
	require.Equal(t, 1, kafka.calls)
}

func TestDailyDigestPropagatesGenerationFailure(t *testing.T) {
	cache := NewCache(NewMemoryStore(), 24*time.Hour)
	gen := &fakeGenerator{err: context.DeadlineExceeded}
	notifier := &fakeNotifier{}
	svc := NewService(cache, gen, notifier)

	_, err := svc.DailyDigest(context.Background(), "2026-08-23", false)
	require.Error(t, err)
	require.Equal(t, 0, notifier.calls)
}

func TestDailyDigestRejectsInvalidDate(t *testing.T) {
	svc := NewService(NewCache(NewMemoryStore(), 24*time.Hour), &fakeGenerator{})

	_, err := svc.DailyDigest(context.Background(), "tomorrow", false)
	require.Error(t, err)
}

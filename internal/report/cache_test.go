package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"diderot/internal/model"
)

func sampleReport(date string, generatedAt time.Time) *model.DailyReport {
	return &model.DailyReport{
		Date:        date,
		GeneratedAt: generatedAt,
		Status:      model.RunComplete,
		Headlines: []model.HeadlineReport{
			{
				Headline: model.Headline{
					ID:        "h-1",
					Title:     "Senate passes budget bill",
					Category:  model.CategoryPolitics,
					Origin:    model.OriginLive,
					CreatedAt: generatedAt,
				},
				NeutralTitle:   "Senate approves budget legislation",
				NeutralSummary: "The Senate passed the budget bill.",
				Perspectives: []model.PerspectiveAnalysis{
					{
						View: model.PerspectiveView{
							HeadlineID:    "h-1",
							Bucket:        model.BucketLeft,
							Name:          "Progressive Reform",
							Justification: "Expands social programs.",
							Sources:       []string{"CNN"},
						},
						Flaws: model.FlawReport{
							Fallacies:      []string{"appeal to emotion"},
							MissingContext: []string{"cost projections"},
							BiasNotes:      []string{"selective framing"},
						},
					},
				},
				Citations: []model.Citation{
					{Source: "CNN", Title: "Senate passes budget bill", URL: "https://example.com/a"},
				},
			},
		},
	}
}

func TestCacheRoundTripFidelity(t *testing.T) {
	cache := NewCache(NewMemoryStore(), 24*time.Hour)
	ctx := context.Background()

	want := sampleReport("2026-08-23", time.Date(2026, 8, 23, 6, 0, 0, 0, time.UTC))
	require.NoError(t, cache.Put(ctx, "2026-08-23", want))

	got, err := cache.Get(ctx, "2026-08-23")
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestCacheGetIsIdempotent(t *testing.T) {
	cache := NewCache(NewMemoryStore(), 24*time.Hour)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "2026-08-23", sampleReport("2026-08-23", time.Now().UTC())))

	first, err := cache.Get(ctx, "2026-08-23")
	require.NoError(t, err)
	second, err := cache.Get(ctx, "2026-08-23")
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestCachePutOverwrites(t *testing.T) {
	cache := NewCache(NewMemoryStore(), 24*time.Hour)
	ctx := context.Background()

	old := sampleReport("2026-08-23", time.Now().UTC())
	require.NoError(t, cache.Put(ctx, "2026-08-23", old))

	replacement := sampleReport("2026-08-23", time.Now().UTC())
	replacement.Status = model.RunPartial
	replacement.Headlines[0].Degraded = true
	require.NoError(t, cache.Put(ctx, "2026-08-23", replacement))

	got, err := cache.Get(ctx, "2026-08-23")
	require.NoError(t, err)
	require.Equal(t, model.RunPartial, got.Status)
	require.True(t, got.Headlines[0].Degraded)
}

func TestCacheMiss(t *testing.T) {
	cache := NewCache(NewMemoryStore(), 24*time.Hour)

	_, err := cache.Get(context.Background(), "2026-01-01")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCacheRejectsInvalidDate(t *testing.T) {
	cache := NewCache(NewMemoryStore(), 24*time.Hour)
	ctx := context.Background()

	_, err := cache.Get(ctx, "not-a-date")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)

	err = cache.Put(ctx, "08/23/2026", sampleReport("2026-08-23", time.Now().UTC()))
	require.Error(t, err)
}

func TestFreshnessBoundary(t *testing.T) {
	generated := time.Date(2026, 8, 23, 6, 0, 0, 0, time.UTC)
	cache := NewCache(NewMemoryStore(), 24*time.Hour)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "2026-08-23", sampleReport("2026-08-23", generated)))

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"just generated", generated, true},
		{"one second before expiry", generated.Add(24*time.Hour - time.Second), true},
		{"exactly at expiry", generated.Add(24 * time.Hour), false},
		{"after expiry", generated.Add(25 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache.now = func() time.Time { return tt.now }
			require.Equal(t, tt.want, cache.IsFresh(ctx, "2026-08-23"))
		})
	}
}

func TestIsFreshWithoutReport(t *testing.T) {
	cache := NewCache(NewMemoryStore(), 24*time.Hour)
	require.False(t, cache.IsFresh(context.Background(), "2026-08-23"))
}

func TestCacheWrapsStoreFailure(t *testing.T) {
	cache := NewCache(&failingStore{}, 24*time.Hour)

	err := cache.Put(context.Background(), "2026-08-23", sampleReport("2026-08-23", time.Now().UTC()))
	require.Error(t, err)

	var writeErr *CacheWriteError
	require.ErrorAs(t, err, &writeErr)
	require.Equal(t, "2026-08-23", writeErr.Date)
}

type failingStore struct{}

func (s *failingStore) Get(ctx context.Context, date string) ([]byte, error) {
	return nil, ErrNotFound
}

func (s *failingStore) Put(ctx context.Context, date string, data []byte) error {
	return context.DeadlineExceeded
}

func (s *failingStore) Delete(ctx context.Context, date string) error { return nil }

func (s *failingStore) Dates(ctx context.Context) ([]string, error) { return nil, nil }

func (s *failingStore) Close() error { return nil }

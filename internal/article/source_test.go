package article

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"diderot/internal/feed"
	"diderot/internal/llm"
	"diderot/internal/mocks"
	"diderot/internal/model"
	"diderot/internal/perspective"
	"diderot/internal/pipeline"
)

func testTaxonomy(t *testing.T) *perspective.Taxonomy {
	t.Helper()
	tax, err := perspective.New([]perspective.Source{
		{Name: "CNN", Bucket: model.BucketLeft, FeedURL: "https://cnn.example.com/rss"},
		{Name: "Reuters", Bucket: model.BucketCenter, FeedURL: "https://reuters.example.com/rss"},
		{Name: "Fox News", Bucket: model.BucketRight, FeedURL: "https://fox.example.com/rss"},
	})
	require.NoError(t, err)
	return tax
}

func testHeadline() model.Headline {
	return model.Headline{
		ID:        "h-1",
		Title:     "Senate Passes Budget Bill",
		Category:  model.CategoryPolitics,
		Origin:    model.OriginLive,
		CreatedAt: time.Now().UTC(),
	}
}

func synthesizer() func(req llm.Request) (string, error) {
	return func(req llm.Request) (string, error) {
		return `{"title": "Synthesized take", "summary": "How this outlet frames the story."}`, nil
	}
}

func TestFetchForPrefersLiveItems(t *testing.T) {
	fetcher := &mocks.FeedFetcher{
		Feeds: map[string]*feed.Feed{
			"https://cnn.example.com/rss": {Items: []feed.Item{
				{Title: "Senate Passes Sweeping Budget Bill", Link: "https://cnn.example.com/budget", GUID: "1",
					Description: "The Senate approved the budget."},
			}},
		},
	}
	client := &mocks.LLMClient{CompleteFunc: synthesizer()}
	src := NewSource(fetcher, pipeline.NewRunner(client, 0), testTaxonomy(t), 6)

	byBucket, err := src.FetchFor(context.Background(), testHeadline())
	require.NoError(t, err)

	require.Len(t, byBucket[model.BucketLeft], 1)
	live := byBucket[model.BucketLeft][0]
	require.Equal(t, model.OriginLive, live.Origin)
	require.Equal(t, "CNN", live.Source)
	require.Equal(t, "https://cnn.example.com/budget", live.URL)
	require.Equal(t, "The Senate approved the budget.", live.Summary)

	// The other outlets had no live feed, so their coverage is
	// synthesized and carries no URL.
	for _, bucket := range []model.Bucket{model.BucketCenter, model.BucketRight} {
		require.Len(t, byBucket[bucket], 1)
		require.Equal(t, model.OriginSimulated, byBucket[bucket][0].Origin)
		require.Empty(t, byBucket[bucket][0].URL)
	}
}

func TestFetchForSynthesizesOnNoLiveMatch(t *testing.T) {
	fetcher := &mocks.FeedFetcher{
		Feeds: map[string]*feed.Feed{
			"https://cnn.example.com/rss": {Items: []feed.Item{
				{Title: "Completely Unrelated Celebrity Story", Link: "https://cnn.example.com/x", GUID: "1"},
			}},
		},
	}
	client := &mocks.LLMClient{CompleteFunc: synthesizer()}
	src := NewSource(fetcher, pipeline.NewRunner(client, 0), testTaxonomy(t), 6)

	byBucket, err := src.FetchFor(context.Background(), testHeadline())
	require.NoError(t, err)
	require.Len(t, byBucket[model.BucketLeft], 1)
	require.Equal(t, model.OriginSimulated, byBucket[model.BucketLeft][0].Origin)
}

func TestFetchForTotalFailureIsEmptyNotError(t *testing.T) {
	fetcher := &mocks.FeedFetcher{} // every feed fails
	client := &mocks.LLMClient{Err: errors.New("model down")}
	src := NewSource(fetcher, pipeline.NewRunner(client, 0), testTaxonomy(t), 6)

	byBucket, err := src.FetchFor(context.Background(), testHeadline())
	require.NoError(t, err)
	require.Empty(t, byBucket)
}

func TestFetchForRespectsArticleBudget(t *testing.T) {
	fetcher := &mocks.FeedFetcher{}
	client := &mocks.LLMClient{CompleteFunc: synthesizer()}
	src := NewSource(fetcher, pipeline.NewRunner(client, 0), testTaxonomy(t), 2)

	byBucket, err := src.FetchFor(context.Background(), testHeadline())
	require.NoError(t, err)

	total := 0
	for _, articles := range byBucket {
		total += len(articles)
	}
	require.Equal(t, 2, total)
	// Rotation starts at the front of the presentation order.
	require.Len(t, byBucket[model.BucketLeft], 1)
	require.Len(t, byBucket[model.BucketCenter], 1)
}

func TestFetchForSkipsFailingOutlet(t *testing.T) {
	fetcher := &mocks.FeedFetcher{}
	client := &mocks.LLMClient{CompleteFunc: func(req llm.Request) (string, error) {
		if strings.Contains(req.Prompt, "Reuters") {
			return "", errors.New("model refused")
		}
		return `{"title": "Synthesized take", "summary": "Framing."}`, nil
	}}
	src := NewSource(fetcher, pipeline.NewRunner(client, 0), testTaxonomy(t), 6)

	byBucket, err := src.FetchFor(context.Background(), testHeadline())
	require.NoError(t, err)
	require.Len(t, byBucket[model.BucketLeft], 1)
	require.Empty(t, byBucket[model.BucketCenter])
	require.Len(t, byBucket[model.BucketRight], 1)
}

package mocks

import (
	"context"
	"fmt"
	"sync"

	"diderot/internal/feed"
)

// FeedFetcher serves canned feeds by URL. URLs with a scripted error
// fail; unscripted URLs fail with a generic error, the common "feed is
// down" posture for tests.
type FeedFetcher struct {
	mu sync.Mutex

	Feeds map[string]*feed.Feed
	Errs  map[string]error

	Requested []string
}

func (f *FeedFetcher) FetchFeed(ctx context.Context, url string) (*feed.Feed, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.Requested = append(f.Requested, url)
	f.mu.Unlock()

	if err, ok := f.Errs[url]; ok {
		return nil, err
	}
	if fd, ok := f.Feeds[url]; ok {
		return fd, nil
	}
	return nil, fmt.Errorf("feed unavailable: %s", url)
}

// FetchMultipleFeeds mirrors the real client's contract on top of the
// scripted single-feed fetch.
func (f *FeedFetcher) FetchMultipleFeeds(ctx context.Context, urls []string) (map[string]*feed.Feed, map[string]error) {
	feeds := make(map[string]*feed.Feed)
	errs := make(map[string]error)
	for _, url := range urls {
		fd, err := f.FetchFeed(ctx, url)
		if err != nil {
			errs[url] = err
			continue
		}
		feeds[url] = fd
	}
	return feeds, errs
}

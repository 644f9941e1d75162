// Package headline collects the day's top headlines, live from Google
// News when possible and from model or fixed fallbacks when not.
package headline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"diderot/internal/feed"
	"diderot/internal/logging"
	"diderot/internal/model"
	"diderot/internal/pipeline"
)

// Google News section feeds, the live path.
const (
	googleNewsTop      = "https://news.google.com/rss"
	googleNewsWorld    = "https://news.google.com/rss/sections/topic/WORLD"
	googleNewsPolitics = "https://news.google.com/rss/sections/topic/POLITICS"
)

// classifyBatchLimit caps how many top-feed titles go to the
// classifier in one call.
const classifyBatchLimit = 15

// Fetcher is the part of the feed client the source needs.
type Fetcher interface {
	FetchMultipleFeeds(ctx context.Context, urls []string) (map[string]*feed.Feed, map[string]error)
}

// liveItemFilter drops junk feed entries before they become headline
// candidates: stale stories and fragment titles.
var liveItemFilter = feed.FilterOptions{
	MinTitleLength: 8,
	MaxAge:         48 * time.Hour,
}

// Source produces the day's headlines. It prefers live feed items,
// falls back to model-generated headlines, and finally to a fixed
// list, so callers normally always get a full set.
type Source struct {
	feeds   Fetcher
	runner  *pipeline.Runner
	feedURL map[model.Category]string
	log     *logging.Entry
}

func NewSource(feeds Fetcher, runner *pipeline.Runner) *Source {
	return &Source{
		feeds:  feeds,
		runner: runner,
		feedURL: map[model.Category]string{
			model.CategoryOther:    googleNewsTop,
			model.CategoryWorld:    googleNewsWorld,
			model.CategoryPolitics: googleNewsPolitics,
		},
		log: logging.WithComponent("headline"),
	}
}

// FetchToday returns up to max deduplicated headlines. Live items come
// first; a short list is padded from the fixed fallbacks. An error is
// returned only when every path produced nothing.
func (s *Source) FetchToday(ctx context.Context, max int) ([]model.Headline, error) {
	if max <= 0 {
		max = 10
	}

	headlines := s.fetchLive(ctx, max)

	if len(headlines) == 0 {
		s.log.Warn("no live headlines, generating fallbacks")
		headlines = s.generateFallback(ctx, max)
	}

	// Pad a short set from the fixed list, skipping stories already
	// present under another phrasing.
	if len(headlines) < max {
		headlines = appendUnique(headlines, fixedFallbacks(max), max)
	}
	if len(headlines) > max {
		headlines = headlines[:max]
	}

	if len(headlines) == 0 {
		return nil, &pipeline.SourceFetchError{
			Source: "google news",
			Err:    fmt.Errorf("no headlines from feeds, generation or fallback list"),
		}
	}
	return headlines, nil
}

// fetchLive pulls the three section feeds through the concurrent
// multi-feed fetch, filtering out stale and fragment items. World and
// politics items carry their section as category; top items are
// classified by the model, defaulting to other.
func (s *Source) fetchLive(ctx context.Context, max int) []model.Headline {
	urls := []string{
		s.feedURL[model.CategoryWorld],
		s.feedURL[model.CategoryPolitics],
		s.feedURL[model.CategoryOther],
	}
	urlCategory := map[string]model.Category{
		s.feedURL[model.CategoryWorld]:    model.CategoryWorld,
		s.feedURL[model.CategoryPolitics]: model.CategoryPolitics,
		s.feedURL[model.CategoryOther]:    model.CategoryOther,
	}

	feeds, errs := s.feeds.FetchMultipleFeeds(ctx, urls)
	for u, err := range errs {
		s.log.WithField("feed", u).WithField("error", err.Error()).Warn("section feed failed")
	}

	bySection := make(map[model.Category][]feed.Item, len(urls))
	for u, f := range feeds {
		bySection[urlCategory[u]] = feed.FilterItems(feed.UniqueItems(f.Items), liveItemFilter)
	}

	topCategories := s.classifyTop(ctx, bySection[model.CategoryOther])

	now := time.Now().UTC()
	seen := make(map[string]bool)
	var headlines []model.Headline

	add := func(item feed.Item, category model.Category) {
		title := feed.TrimSourceSuffix(item.Title)
		key := feed.NormalizeTitle(title)
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		headlines = append(headlines, model.Headline{
			ID:        uuid.NewString(),
			Title:     title,
			Category:  category,
			Origin:    model.OriginLive,
			CreatedAt: now,
		})
	}

	for _, item := range bySection[model.CategoryWorld] {
		add(item, model.CategoryWorld)
	}
	for _, item := range bySection[model.CategoryPolitics] {
		add(item, model.CategoryPolitics)
	}
	for _, item := range bySection[model.CategoryOther] {
		category := model.CategoryOther
		if c, ok := topCategories[feed.NormalizeTitle(feed.TrimSourceSuffix(item.Title))]; ok {
			category = c
		}
		add(item, category)
	}

	if len(headlines) > max {
		headlines = headlines[:max]
	}
	return headlines
}

// classifyTop asks the model to categorize the leading top-feed
// titles. A classifier failure costs nothing: items stay other.
func (s *Source) classifyTop(ctx context.Context, items []feed.Item) map[string]model.Category {
	if len(items) == 0 {
		return nil
	}
	if len(items) > classifyBatchLimit {
		items = items[:classifyBatchLimit]
	}

	titles := make([]string, len(items))
	for i, item := range items {
		titles[i] = feed.TrimSourceSuffix(item.Title)
	}

	categories, err := s.runner.ClassifyHeadlines(ctx, titles)
	if err != nil {
		s.log.WithField("error", err.Error()).Warn("headline classification failed, defaulting to other")
		return nil
	}
	return categories
}

// generateFallback asks the model to invent today's headlines. If that
// fails too the fixed list stands in.
func (s *Source) generateFallback(ctx context.Context, max int) []model.Headline {
	generated, err := s.runner.GenerateHeadlines(ctx, max)
	if err != nil {
		s.log.WithField("error", err.Error()).Warn("headline generation failed, using fixed list")
		return nil
	}

	now := time.Now().UTC()
	seen := make(map[string]bool)
	var headlines []model.Headline
	for _, g := range generated {
		key := feed.NormalizeTitle(g.Title)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		headlines = append(headlines, model.Headline{
			ID:        uuid.NewString(),
			Title:     g.Title,
			Category:  model.ParseCategory(g.Category),
			Origin:    model.OriginSimulated,
			CreatedAt: now,
		})
		if len(headlines) == max {
			break
		}
	}
	return headlines
}

// appendUnique pads headlines from extras up to max, skipping
// normalized-title duplicates.
func appendUnique(headlines []model.Headline, extras []model.Headline, max int) []model.Headline {
	seen := make(map[string]bool, len(headlines))
	for _, h := range headlines {
		seen[feed.NormalizeTitle(h.Title)] = true
	}

	for _, h := range extras {
		if len(headlines) >= max {
			break
		}
		key := feed.NormalizeTitle(h.Title)
		if seen[key] {
			continue
		}
		seen[key] = true
		headlines = append(headlines, h)
	}
	return headlines
}

// fixedFallbacks is the last resort: evergreen placeholder headlines
// so a report can always be produced. When n exceeds the base list the
// titles cycle with a numbered update suffix, keeping every entry
// unique so a large max still fills completely.
func fixedFallbacks(n int) []model.Headline {
	titles := []struct {
		title    string
		category model.Category
	}{
		{"Global Climate Summit Reaches Historic Agreement", model.CategoryWorld},
		{"Congress Passes Major Infrastructure Bill", model.CategoryPolitics},
		{"International Trade Dispute Escalates", model.CategoryWorld},
		{"Supreme Court Rules on Key Constitutional Case", model.CategoryPolitics},
		{"UN Security Council Addresses Regional Conflict", model.CategoryWorld},
		{"Federal Reserve Announces New Economic Policy", model.CategoryPolitics},
		{"Major Tech Company Faces Regulatory Scrutiny", model.CategoryPolitics},
		{"International Space Station Celebrates Milestone", model.CategoryWorld},
		{"Global Health Organization Issues New Guidelines", model.CategoryWorld},
		{"Congressional Committee Launches Investigation", model.CategoryPolitics},
	}

	now := time.Now().UTC()
	headlines := make([]model.Headline, 0, n)
	for round := 0; len(headlines) < n; round++ {
		for _, t := range titles {
			if len(headlines) == n {
				break
			}
			title := t.title
			if round > 0 {
				title = fmt.Sprintf("%s (Update %d)", t.title, round+1)
			}
			headlines = append(headlines, model.Headline{
				ID:        uuid.NewString(),
				Title:     title,
				Category:  t.category,
				Origin:    model.OriginSimulated,
				CreatedAt: now,
			})
		}
	}
	return headlines
}

// Package article gathers each outlet's coverage of a headline: a
// live feed item when one matches, a synthesized stand-in otherwise.
package article

import (
	"context"

	"diderot/internal/feed"
	"diderot/internal/logging"
	"diderot/internal/model"
	"diderot/internal/perspective"
	"diderot/internal/pipeline"
)

// Fetcher is the part of the feed client the source needs.
type Fetcher interface {
	FetchFeed(ctx context.Context, url string) (*feed.Feed, error)
}

// Source collects per-perspective articles for one headline. Outlets
// are tried in rotation across the buckets so no perspective starves
// when the per-headline article budget is smaller than the outlet
// table. Individual outlet failures are logged and skipped; an empty
// bucket is a normal outcome, not an error.
type Source struct {
	feeds       Fetcher
	runner      *pipeline.Runner
	taxonomy    *perspective.Taxonomy
	maxArticles int
	log         *logging.Entry
}

func NewSource(feeds Fetcher, runner *pipeline.Runner, taxonomy *perspective.Taxonomy, maxArticles int) *Source {
	if maxArticles <= 0 {
		maxArticles = 6
	}
	return &Source{
		feeds:       feeds,
		runner:      runner,
		taxonomy:    taxonomy,
		maxArticles: maxArticles,
		log:         logging.WithComponent("article"),
	}
}

// FetchFor returns the headline's coverage grouped by bucket. The
// error is always nil today; the signature leaves room for a future
// hard-failure mode without breaking the orchestrator contract.
func (s *Source) FetchFor(ctx context.Context, h model.Headline) (map[model.Bucket][]model.SourcedArticle, error) {
	out := make(map[model.Bucket][]model.SourcedArticle)
	total := 0

	for _, src := range s.rotation() {
		if total >= s.maxArticles {
			break
		}
		if ctx.Err() != nil {
			break
		}

		art, err := s.fetchOne(ctx, h, src)
		if err != nil {
			s.log.WithField("headline", h.Title).
				WithField("source", src.Name).
				WithField("error", err.Error()).
				Warn("outlet yielded no article")
			continue
		}

		out[src.Bucket] = append(out[src.Bucket], art)
		total++
	}

	return out, nil
}

// rotation interleaves the outlet table across buckets in presentation
// order: first outlet of each bucket, then the second of each, and so
// on. Truncating the rotation at any article budget keeps the buckets
// balanced.
func (s *Source) rotation() []perspective.Source {
	ordering := s.taxonomy.Ordering()
	perBucket := make([][]perspective.Source, len(ordering))
	longest := 0
	for i, b := range ordering {
		perBucket[i] = s.taxonomy.SourcesFor(b)
		if len(perBucket[i]) > longest {
			longest = len(perBucket[i])
		}
	}

	var out []perspective.Source
	for round := 0; round < longest; round++ {
		for _, sources := range perBucket {
			if round < len(sources) {
				out = append(out, sources[round])
			}
		}
	}
	return out
}

// fetchOne tries the outlet's live feed first and falls back to a
// model-synthesized summary of how that outlet would cover the story.
func (s *Source) fetchOne(ctx context.Context, h model.Headline, src perspective.Source) (model.SourcedArticle, error) {
	if src.FeedURL != "" {
		if art, ok := s.fetchLive(ctx, h, src); ok {
			return art, nil
		}
	}

	syn, err := s.runner.SynthesizeArticle(ctx, src.Name, src.Bucket, h.Title)
	if err != nil {
		return model.SourcedArticle{}, &pipeline.SourceFetchError{Source: src.Name, Err: err}
	}

	return model.SourcedArticle{
		HeadlineID: h.ID,
		Source:     src.Name,
		Bucket:     src.Bucket,
		Title:      syn.Title,
		Summary:    syn.Summary,
		Origin:     model.OriginSimulated,
	}, nil
}

// fetchLive scans the outlet's feed for an item covering the headline.
// A feed failure or no matching item both report false; the caller
// falls through to synthesis.
func (s *Source) fetchLive(ctx context.Context, h model.Headline, src perspective.Source) (model.SourcedArticle, bool) {
	f, err := s.feeds.FetchFeed(ctx, src.FeedURL)
	if err != nil {
		s.log.WithField("source", src.Name).
			WithField("error", err.Error()).
			Debug("outlet feed unavailable, synthesizing")
		return model.SourcedArticle{}, false
	}

	for _, item := range feed.UniqueItems(f.Items) {
		if !feed.TitleMatches(h.Title, item.Title, 2) {
			continue
		}
		return model.SourcedArticle{
			HeadlineID: h.ID,
			Source:     src.Name,
			Bucket:     src.Bucket,
			Title:      feed.TrimSourceSuffix(item.Title),
			Summary:    item.Description,
			URL:        item.Link,
			Origin:     model.OriginLive,
		}, true
	}
	return model.SourcedArticle{}, false
}

package pipeline

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"diderot/internal/logging"
	"diderot/internal/metrics"
	"diderot/internal/model"
	"diderot/internal/perspective"
)

// State is the phase a pipeline run is in.
type State string

const (
	StateIdle              State = "idle"
	StateFetchingHeadlines State = "fetching_headlines"
	StatePerHeadline       State = "per_headline_processing"
	StateAggregating       State = "aggregating"
	StateDone              State = "done"
	StateFailed            State = "failed"
)

// HeadlineFinder produces the day's headlines.
type HeadlineFinder interface {
	FetchToday(ctx context.Context, max int) ([]model.Headline, error)
}

// ArticleFinder gathers per-perspective coverage for one headline.
type ArticleFinder interface {
	FetchFor(ctx context.Context, h model.Headline) (map[model.Bucket][]model.SourcedArticle, error)
}

// Orchestrator drives a full daily run: headlines, per-headline
// analysis with bounded concurrency, aggregation. Stage failures
// degrade their own headline and never spill into the others; the only
// fatal condition is having no headlines at all.
type Orchestrator struct {
	headlines     HeadlineFinder
	articles      ArticleFinder
	runner        *Runner
	taxonomy      *perspective.Taxonomy
	maxHeadlines  int
	maxConcurrent int
	log           *logging.Entry
}

func NewOrchestrator(headlines HeadlineFinder, articles ArticleFinder, runner *Runner, taxonomy *perspective.Taxonomy, maxHeadlines, maxConcurrent int) *Orchestrator {
	if maxHeadlines <= 0 {
		maxHeadlines = 10
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 3
	}
	return &Orchestrator{
		headlines:     headlines,
		articles:      articles,
		runner:        runner,
		taxonomy:      taxonomy,
		maxHeadlines:  maxHeadlines,
		maxConcurrent: maxConcurrent,
		log:           logging.WithComponent("orchestrator"),
	}
}

// Run generates the report for one date. The report is returned, not
// stored; committing it is the caller's job.
func (o *Orchestrator) Run(ctx context.Context, date string) (*model.DailyReport, error) {
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return nil, fmt.Errorf("invalid report date %q: %w", date, err)
	}

	state := StateIdle
	o.transition(&state, StateFetchingHeadlines, date)

	headlines, err := o.headlines.FetchToday(ctx, o.maxHeadlines)
	if err != nil {
		o.transition(&state, StateFailed, date)
		metrics.PipelineRuns.WithLabelValues(string(model.RunFailed)).Inc()
		return nil, &FatalError{Err: fmt.Errorf("fetching headlines: %w", err)}
	}
	if len(headlines) > o.maxHeadlines {
		headlines = headlines[:o.maxHeadlines]
	}

	if len(headlines) == 0 {
		o.transition(&state, StateDone, date)
		o.log.WithField("date", date).Info("no headlines today, report is empty")
		metrics.PipelineRuns.WithLabelValues(string(model.RunComplete)).Inc()
		metrics.LastRunHeadlines.Set(0)
		return &model.DailyReport{
			Date:        date,
			Headlines:   []model.HeadlineReport{},
			GeneratedAt: time.Now().UTC(),
			Status:      model.RunComplete,
		}, nil
	}

	o.transition(&state, StatePerHeadline, date)

	reports := make([]model.HeadlineReport, len(headlines))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.maxConcurrent)

	for i, h := range headlines {
		i, h := i, h
		g.Go(func() error {
			rep, err := o.processHeadline(gctx, h)
			if err != nil {
				return err
			}
			reports[i] = rep
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		o.transition(&state, StateFailed, date)
		metrics.PipelineRuns.WithLabelValues(string(model.RunFailed)).Inc()
		return nil, fmt.Errorf("pipeline run aborted: %w", err)
	}

	o.transition(&state, StateAggregating, date)

	status := model.RunComplete
	degraded := 0
	for _, rep := range reports {
		if rep.Degraded {
			degraded++
		}
	}
	if degraded > 0 {
		status = model.RunPartial
	}

	report := &model.DailyReport{
		Date:        date,
		Headlines:   reports,
		GeneratedAt: time.Now().UTC(),
		Status:      status,
	}

	o.transition(&state, StateDone, date)
	o.log.WithField("date", date).
		WithField("headlines", len(reports)).
		WithField("degraded", degraded).
		WithField("status", string(status)).
		Info("pipeline run finished")
	metrics.PipelineRuns.WithLabelValues(string(status)).Inc()
	metrics.LastRunHeadlines.Set(float64(len(reports)))

	return report, nil
}

// processHeadline runs the per-headline stage chain. Failures degrade
// the report instead of propagating; the returned error is non-nil
// only when the context is gone and the whole run should stop.
func (o *Orchestrator) processHeadline(ctx context.Context, h model.Headline) (model.HeadlineReport, error) {
	rep := model.HeadlineReport{
		Headline:     h,
		NeutralTitle: h.Title,
		Perspectives: []model.PerspectiveAnalysis{},
	}

	byBucket, err := o.articles.FetchFor(ctx, h)
	if err != nil {
		return o.degrade(ctx, rep, "collecting articles", err)
	}

	articles := flattenArticles(byBucket, o.taxonomy.Ordering())
	if len(articles) == 0 {
		// Nothing to analyze from any bucket: neutral-only report.
		neutral, err := o.runner.ComposeReport(ctx, h, model.FactSet{HeadlineID: h.ID})
		if err != nil {
			return o.degrade(ctx, rep, "composing report", err)
		}
		rep.NeutralTitle = neutral.Title
		rep.NeutralSummary = neutral.Summary
		return rep, nil
	}

	facts, err := o.runner.ExtractFacts(ctx, h, articles)
	if err != nil {
		return o.degrade(ctx, rep, "extracting facts", err)
	}

	if h.Category == model.CategoryWorld || h.Category == model.CategoryPolitics {
		views, err := o.runner.DeterminePerspectives(ctx, facts, articles)
		if err != nil {
			return o.degrade(ctx, rep, "determining perspectives", err)
		}
		views = keepCoveredViews(views, byBucket)

		flaws := make([]model.FlawReport, len(views))
		fg, fctx := errgroup.WithContext(ctx)
		for i, v := range views {
			i, v := i, v
			fg.Go(func() error {
				fr, err := o.runner.DetectFlaws(fctx, v)
				if err != nil {
					return err
				}
				flaws[i] = fr
				return nil
			})
		}
		if err := fg.Wait(); err != nil {
			return o.degrade(ctx, rep, "detecting flaws", err)
		}

		paired := make([]model.PerspectiveAnalysis, len(views))
		for i, v := range views {
			paired[i] = model.PerspectiveAnalysis{View: v, Flaws: flaws[i]}
		}

		if len(paired) > 0 {
			analyses, err := o.runner.Synthesize(ctx, h, paired)
			if err != nil {
				return o.degrade(ctx, rep, "synthesizing analysis", err)
			}
			rep.Perspectives = o.normalizeAnalyses(analyses, byBucket)
		}
	}

	neutral, err := o.runner.ComposeReport(ctx, h, facts)
	if err != nil {
		return o.degrade(ctx, rep, "composing report", err)
	}
	rep.NeutralTitle = neutral.Title
	rep.NeutralSummary = neutral.Summary
	rep.Citations = citations(articles)

	return rep, nil
}

// degrade turns a stage failure into a stub report for the headline,
// unless the failure was the run being canceled.
func (o *Orchestrator) degrade(ctx context.Context, rep model.HeadlineReport, what string, err error) (model.HeadlineReport, error) {
	if ctx.Err() != nil {
		return model.HeadlineReport{}, ctx.Err()
	}

	o.log.WithField("headline", rep.Headline.Title).
		WithField("failed", what).
		WithField("error", err.Error()).
		Warn("headline degraded")

	rep.Degraded = true
	rep.DegradedReason = fmt.Sprintf("%s: %v", what, err)
	rep.NeutralTitle = rep.Headline.Title
	rep.NeutralSummary = "Analysis unavailable for: " + rep.Headline.Title
	rep.Perspectives = []model.PerspectiveAnalysis{}
	rep.Citations = nil
	return rep, nil
}

func (o *Orchestrator) transition(state *State, to State, date string) {
	o.log.WithField("date", date).
		WithField("from", string(*state)).
		WithField("to", string(to)).
		Debug("state transition")
	*state = to
}

// flattenArticles lays the per-bucket coverage out in presentation
// order so prompts and citations are stable.
func flattenArticles(byBucket map[model.Bucket][]model.SourcedArticle, ordering []model.Bucket) []model.SourcedArticle {
	var out []model.SourcedArticle
	for _, b := range ordering {
		out = append(out, byBucket[b]...)
	}
	return out
}

// keepCoveredViews drops views for buckets that have no articles
// behind them, including anything the model invented for an unknown
// bucket.
func keepCoveredViews(views []model.PerspectiveView, byBucket map[model.Bucket][]model.SourcedArticle) []model.PerspectiveView {
	var out []model.PerspectiveView
	for _, v := range views {
		if len(byBucket[v.Bucket]) > 0 {
			out = append(out, v)
		}
	}
	return out
}

// normalizeAnalyses enforces the presentation invariants no matter
// what the model returned: one analysis per bucket at most, only
// buckets with coverage, ordered left to center to right.
func (o *Orchestrator) normalizeAnalyses(analyses []model.PerspectiveAnalysis, byBucket map[model.Bucket][]model.SourcedArticle) []model.PerspectiveAnalysis {
	picked := make(map[model.Bucket]model.PerspectiveAnalysis, len(analyses))
	for _, a := range analyses {
		b := a.View.Bucket
		if len(byBucket[b]) == 0 {
			continue
		}
		if _, dup := picked[b]; dup {
			continue
		}
		picked[b] = a
	}

	out := make([]model.PerspectiveAnalysis, 0, len(picked))
	for _, b := range o.taxonomy.Ordering() {
		if a, ok := picked[b]; ok {
			out = append(out, a)
		}
	}
	return out
}

func citations(articles []model.SourcedArticle) []model.Citation {
	out := make([]model.Citation, 0, len(articles))
	for _, a := range articles {
		out = append(out, model.Citation{
			Source: a.Source,
			Title:  a.Title,
			URL:    a.URL,
		})
	}
	return out
}

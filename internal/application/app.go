// Package application wires the whole digest system together:
// configuration, stores, model client, sources, pipeline, service and
// HTTP surface.
package application

import (
	"context"
	"fmt"
	"time"

	"diderot/internal/article"
	"diderot/internal/config"
	"diderot/internal/feed"
	"diderot/internal/headline"
	"diderot/internal/llm"
	"diderot/internal/logging"
	"diderot/internal/notify"
	"diderot/internal/perspective"
	"diderot/internal/pipeline"
	"diderot/internal/report"
	"diderot/internal/transport/handler"
)

// maxStageRetries bounds the transient-failure retry loop per stage.
const maxStageRetries = 3

// Application holds the wired system and its cleanup.
type Application struct {
	Config  *config.Config
	Service *report.Service
	Store   report.Store
	Handler *handler.Report

	cleanups []func() error
}

// New builds the application from the environment. Everything is
// constructed once here and passed by reference; nothing reads config
// ambiently after this point.
func New(ctx context.Context) (*Application, error) {
	logging.Init()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	taxonomy := perspective.Default()
	if cfg.SourcesFile != "" {
		taxonomy, err = perspective.Load(cfg.SourcesFile)
		if err != nil {
			return nil, fmt.Errorf("loading source table: %w", err)
		}
	}

	client, err := llm.New(llm.Options{
		Provider:          cfg.LLMProvider,
		APIKey:            cfg.ProviderAPIKey(),
		Model:             cfg.LLMModel,
		RequestsPerMinute: cfg.LLMRequestsPerMinute,
		Timeout:           time.Duration(cfg.LLMTimeoutSeconds) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("creating model client: %w", err)
	}

	app := &Application{Config: cfg}

	store, err := report.NewStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating report store: %w", err)
	}
	app.Store = store
	app.cleanups = append(app.cleanups, store.Close)

	runner := pipeline.NewRunner(client, maxStageRetries)
	feeds := feed.NewClient()
	headlines := headline.NewSource(feeds, runner)
	articles := article.NewSource(feeds, runner, taxonomy, cfg.MaxArticlesPerHeadline)
	orchestrator := pipeline.NewOrchestrator(headlines, articles, runner, taxonomy,
		cfg.MaxHeadlines, cfg.MaxConcurrentHeadlines)

	cache := report.NewCache(store, time.Duration(cfg.CacheDurationHours)*time.Hour)

	var notifiers []report.Notifier
	if cfg.SlackBotToken != "" {
		notifiers = append(notifiers, notify.NewSlack(cfg.SlackBotToken, cfg.SlackChannel))
	}
	if cfg.KafkaBroker != "" {
		kafka := notify.NewKafka(cfg.KafkaBroker, cfg.KafkaTopic)
		notifiers = append(notifiers, kafka)
		app.cleanups = append(app.cleanups, kafka.Close)
	}

	app.Service = report.NewService(cache, orchestrator, notifiers...)
	app.Handler = handler.NewReport(app.Service, cache, store)

	return app, nil
}

// Close releases every resource New opened, keeping the first error.
func (a *Application) Close() error {
	var firstErr error
	for _, cleanup := range a.cleanups {
		if err := cleanup(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

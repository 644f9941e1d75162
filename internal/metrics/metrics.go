package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PipelineRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "diderot_pipeline_runs_total",
		Help: "Completed pipeline runs by final status.",
	}, []string{"status"})

	ModelCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "diderot_model_calls_total",
		Help: "Language model calls by stage and outcome.",
	}, []string{"stage", "outcome"})

	CacheEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "diderot_cache_events_total",
		Help: "Report cache activity: hit, miss, stale, write_error.",
	}, []string{"event"})

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "diderot_stage_duration_seconds",
		Help:    "Wall time of analysis stages.",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})

	LastRunHeadlines = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "diderot_last_run_headlines",
		Help: "Headline count of the most recent pipeline run.",
	})
)

package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"diderot/internal/llm"
	"diderot/internal/logging"
	"diderot/internal/metrics"
)

// StageSpec identifies one model-backed analysis step and its
// generation settings.
type StageSpec struct {
	Name        string
	System      string
	Temperature float64
	MaxTokens   int
}

const strictRetryPreamble = "Your previous response was not valid JSON. " +
	"Respond with only the requested JSON, no prose, no code fences.\n\n"

// Runner executes analysis stages against the model, retrying
// transient failures with exponential backoff.
type Runner struct {
	client     llm.Client
	maxRetries int
	backoff    func(attempt int) time.Duration
	log        *logging.Entry
}

func NewRunner(client llm.Client, maxRetries int) *Runner {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Runner{
		client:     client,
		maxRetries: maxRetries,
		backoff: func(attempt int) time.Duration {
			return time.Duration(1<<uint(attempt-1)) * time.Second
		},
		log: logging.WithComponent("pipeline"),
	}
}

// Execute runs one model call for the stage and returns the extracted
// JSON payload text. Transient failures are retried up to maxRetries
// times; other failures return immediately.
func (r *Runner) Execute(ctx context.Context, spec StageSpec, prompt string) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			delay := r.backoff(attempt)
			r.log.WithField("stage", spec.Name).
				WithField("attempt", attempt).
				WithField("delay", delay.String()).
				Warn("retrying stage after transient failure")
			if err := wait(ctx, delay); err != nil {
				return "", err
			}
		}

		start := time.Now()
		text, err := r.client.Complete(ctx, llm.Request{
			System:      spec.System,
			Prompt:      prompt,
			Temperature: spec.Temperature,
			MaxTokens:   spec.MaxTokens,
		})
		metrics.StageDuration.WithLabelValues(spec.Name).Observe(time.Since(start).Seconds())

		if err == nil {
			metrics.ModelCalls.WithLabelValues(spec.Name, "ok").Inc()
			return llm.ExtractJSON(text), nil
		}

		lastErr = err
		if !llm.IsTransient(err) {
			metrics.ModelCalls.WithLabelValues(spec.Name, "error").Inc()
			return "", fmt.Errorf("stage %s: %w", spec.Name, err)
		}
		metrics.ModelCalls.WithLabelValues(spec.Name, "retry").Inc()
	}

	metrics.ModelCalls.WithLabelValues(spec.Name, "exhausted").Inc()
	return "", fmt.Errorf("stage %s: retries exhausted: %w", spec.Name, lastErr)
}

// runStage executes the stage and decodes its payload into T. A
// malformed payload earns exactly one stricter re-prompt; a second
// malformed payload is reported as MalformedResponseError.
func runStage[T any](ctx context.Context, r *Runner, spec StageSpec, prompt string) (T, error) {
	var out T

	payload, err := r.Execute(ctx, spec, prompt)
	if err != nil {
		return out, err
	}
	if jsonErr := json.Unmarshal([]byte(payload), &out); jsonErr == nil {
		return out, nil
	}

	r.log.WithField("stage", spec.Name).Warn("malformed response, re-prompting strictly")

	payload, err = r.Execute(ctx, spec, strictRetryPreamble+prompt)
	if err != nil {
		return out, err
	}
	if jsonErr := json.Unmarshal([]byte(payload), &out); jsonErr != nil {
		return out, &MalformedResponseError{
			Stage:   spec.Name,
			Content: truncate(payload, 200),
			Err:     jsonErr,
		}
	}
	return out, nil
}

func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

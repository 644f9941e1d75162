// Package llm gives the pipeline a provider-agnostic language model
// client. OpenAI and Anthropic go through their official SDKs, Gemini
// through the Generative Language REST API.
package llm

import (
	"context"
	"fmt"
	"time"
)

// Request is a single completion call.
type Request struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Client executes completion requests against one model provider.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Options selects and tunes a provider.
type Options struct {
	Provider          string
	APIKey            string
	Model             string
	RequestsPerMinute int
	Timeout           time.Duration
}

// New builds the provider named in opts, wrapped with the shared rate
// limit and per-call timeout.
func New(opts Options) (Client, error) {
	var base Client
	switch opts.Provider {
	case "openai":
		base = NewOpenAI(opts.APIKey, opts.Model)
	case "anthropic":
		base = NewAnthropic(opts.APIKey, opts.Model)
	case "gemini":
		base = NewGemini(opts.APIKey, opts.Model)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", opts.Provider)
	}
	return Throttle(base, opts.RequestsPerMinute, opts.Timeout), nil
}

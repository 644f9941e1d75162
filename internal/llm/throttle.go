package llm

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Throttled spaces calls out to stay under the provider's request
// quota and bounds each call with a timeout. All pipeline stages share
// one Throttled client, so concurrent headlines contend here instead
// of at the provider.
type Throttled struct {
	inner   Client
	limiter *rate.Limiter
	timeout time.Duration
}

func Throttle(inner Client, requestsPerMinute int, timeout time.Duration) *Throttled {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 30
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Throttled{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1),
		timeout: timeout,
	}
}

func (t *Throttled) Complete(ctx context.Context, req Request) (string, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	return t.inner.Complete(ctx, req)
}

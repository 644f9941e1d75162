package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// TransientError marks a model call failure worth retrying: rate
// limits, 5xx responses, timeouts and transport trouble.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return "transient model error: " + e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is retryable.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// classify wraps a provider error, tagging it transient when retrying
// could help. status 0 means the request never got an HTTP response.
func classify(provider string, status int, err error) error {
	wrapped := fmt.Errorf("%s API error: %w", provider, err)
	if errors.Is(err, context.Canceled) {
		return wrapped
	}
	if status == 0 || status == http.StatusTooManyRequests || status >= 500 {
		return &TransientError{Err: wrapped}
	}
	return wrapped
}

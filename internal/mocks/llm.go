// Package mocks holds hand-rolled test doubles shared by the package
// tests: a scriptable model client and a canned feed transport.
package mocks

import (
	"context"
	"fmt"
	"sync"

	"diderot/internal/llm"
)

// LLMClient is a scriptable llm.Client. Responses can come from a
// routing function (CompleteFunc) or a FIFO queue; every request is
// recorded. Safe for the orchestrator's concurrent stages.
type LLMClient struct {
	mu sync.Mutex

	// CompleteFunc, when set, decides every response.
	CompleteFunc func(req llm.Request) (string, error)

	// Responses are consumed in order when CompleteFunc is nil.
	Responses []string
	// Err, when set, is returned for every call (after queued
	// responses run out when both are set).
	Err error

	Requests []llm.Request
}

func (c *LLMClient) Complete(ctx context.Context, req llm.Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.Requests = append(c.Requests, req)

	if c.CompleteFunc != nil {
		return c.CompleteFunc(req)
	}
	if len(c.Responses) > 0 {
		resp := c.Responses[0]
		c.Responses = c.Responses[1:]
		return resp, nil
	}
	if c.Err != nil {
		return "", c.Err
	}
	return "", fmt.Errorf("mock llm client: no response scripted")
}

// Calls returns how many requests the client served.
func (c *LLMClient) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Requests)
}

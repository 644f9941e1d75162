package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

type recordingClient struct {
	calls    int
	lastReq  Request
	deadline bool
	err      error
}

func (c *recordingClient) Complete(ctx context.Context, req Request) (string, error) {
	c.calls++
	c.lastReq = req
	_, c.deadline = ctx.Deadline()
	if c.err != nil {
		return "", c.err
	}
	return "ok", nil
}

func TestThrottlePassesThrough(t *testing.T) {
	inner := &recordingClient{}
	client := Throttle(inner, 600, time.Minute)

	text, err := client.Complete(context.Background(), Request{Prompt: "hello", Temperature: 0.5})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if text != "ok" {
		t.Errorf("Expected 'ok', got %q", text)
	}
	if inner.calls != 1 {
		t.Errorf("Expected 1 call, got %d", inner.calls)
	}
	if inner.lastReq.Prompt != "hello" {
		t.Errorf("Request not forwarded, got %+v", inner.lastReq)
	}
	if !inner.deadline {
		t.Error("Expected a deadline on the inner context")
	}
}

func TestThrottleForwardsErrors(t *testing.T) {
	want := errors.New("boom")
	inner := &recordingClient{err: want}
	client := Throttle(inner, 600, time.Minute)

	_, err := client.Complete(context.Background(), Request{Prompt: "x"})
	if !errors.Is(err, want) {
		t.Errorf("Expected inner error, got %v", err)
	}
}

func TestThrottleRespectsCancel(t *testing.T) {
	inner := &recordingClient{}
	// One request a minute: the second call has to wait for a token.
	client := Throttle(inner, 1, time.Minute)

	if _, err := client.Complete(context.Background(), Request{Prompt: "first"}); err != nil {
		t.Fatalf("First call failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Complete(ctx, Request{Prompt: "second"})
	if err == nil {
		t.Fatal("Expected error waiting on canceled context")
	}
	if inner.calls != 1 {
		t.Errorf("Second call should not have reached the provider, calls = %d", inner.calls)
	}
}

func TestThrottleDefaults(t *testing.T) {
	inner := &recordingClient{}
	client := Throttle(inner, 0, 0)

	if client.timeout != 2*time.Minute {
		t.Errorf("Expected default timeout, got %v", client.timeout)
	}
	if _, err := client.Complete(context.Background(), Request{Prompt: "x"}); err != nil {
		t.Fatalf("Complete with defaults failed: %v", err)
	}
}

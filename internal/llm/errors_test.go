package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassify(t *testing.T) {
	base := errors.New("boom")

	tests := []struct {
		name      string
		status    int
		err       error
		transient bool
	}{
		{"transport failure", 0, base, true},
		{"timeout", 0, context.DeadlineExceeded, true},
		{"rate limited", 429, base, true},
		{"server error", 500, base, true},
		{"bad gateway", 502, base, true},
		{"bad request", 400, base, false},
		{"unauthorized", 401, base, false},
		{"not found", 404, base, false},
		{"caller canceled", 0, context.Canceled, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := classify("test", test.status, test.err)
			if IsTransient(err) != test.transient {
				t.Errorf("classify(%d, %v): transient = %v, want %v", test.status, test.err, IsTransient(err), test.transient)
			}
			if !errors.Is(err, test.err) {
				t.Errorf("classify(%d, %v) lost the cause", test.status, test.err)
			}
		})
	}
}

func TestIsTransientSeesWrappedErrors(t *testing.T) {
	inner := &TransientError{Err: errors.New("overloaded")}
	wrapped := fmt.Errorf("stage extract_facts: %w", inner)

	if !IsTransient(wrapped) {
		t.Error("expected wrapped transient error to stay transient")
	}
	if IsTransient(errors.New("plain")) {
		t.Error("plain error must not be transient")
	}
}

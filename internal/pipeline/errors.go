package pipeline

import "fmt"

// MalformedResponseError reports a model response that stayed
// unparseable after the strict re-prompt. The offending payload is
// kept, truncated, for the logs.
type MalformedResponseError struct {
	Stage   string
	Content string
	Err     error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("stage %s returned malformed response: %v", e.Stage, e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// SourceFetchError reports one outlet or feed failing to produce
// usable content. Callers log it and move on; it never aborts a run.
type SourceFetchError struct {
	Source string
	Err    error
}

func (e *SourceFetchError) Error() string {
	return fmt.Sprintf("fetching from %s: %v", e.Source, e.Err)
}

func (e *SourceFetchError) Unwrap() error {
	return e.Err
}

// FatalError aborts a run: headline collection failed on every path,
// so there is nothing to build a report from.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("pipeline cannot proceed: %v", e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

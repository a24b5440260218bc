package summarizer

import (
	"context"
	"strings"
)

// Summarizer turns a combined meeting transcript into a short summary with
// key points.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (Result, error)
}

// Result is the outcome of one summarization call. When the service reported
// an error, Err carries its message and Summary mirrors it so callers can
// still see what happened.
type Result struct {
	Summary   string
	KeyPoints []string
	Err       string
}

// Failed reports whether the caller should discard this result and build its
// own fallback: the service signalled an error, or no usable summary came back.
func (r Result) Failed() bool {
	return r.Err != "" || strings.TrimSpace(r.Summary) == ""
}

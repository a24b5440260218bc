package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// NoSummaryMessage is returned when the model answered but produced no usable text.
const NoSummaryMessage = "Unable to generate a summary for this meeting."

// serviceError is an error the summarization service reported about the
// request itself (bad input, model-side failure). It degrades to a visible
// Result instead of failing the call.
type serviceError struct {
	message string
}

func (e *serviceError) Error() string { return e.message }

// ErrRetriesExhausted means the model stayed in its loading state past the
// configured retry budget.
var ErrRetriesExhausted = errors.New("summarization retries exhausted")

// Summarize truncates the transcript, asks the configured backend for a
// summary and derives key points from it. Service-reported errors come back
// as a degraded Result with Err set; transport and retry-budget failures are
// returned as errors for the caller to handle.
func (s *implSummarizer) Summarize(ctx context.Context, transcript string) (Result, error) {
	text := truncateRunes(transcript, s.maxInputChars)
	if len(text) < len(transcript) {
		s.logger.Debug(ctx, "Transcript truncated from %d to %d chars before summarization", len(transcript), len(text))
	}

	raw, err := s.backend.generate(ctx, text)
	if err != nil {
		var svcErr *serviceError
		if errors.As(err, &svcErr) {
			s.logger.Warn(ctx, "Summarization service reported error: %s", svcErr.message)
			return Result{Summary: svcErr.message, Err: svcErr.message}, nil
		}
		return Result{}, fmt.Errorf("generate summary: %w", err)
	}

	summary := strings.TrimSpace(raw)
	if summary == "" {
		return Result{
			Summary:   NoSummaryMessage,
			KeyPoints: []string{NoSummaryMessage},
		}, nil
	}

	return Result{Summary: summary, KeyPoints: KeyPoints(summary)}, nil
}

// KeyPoints splits a summary into at most 5 sentence fragments of at least
// 5 characters each.
func KeyPoints(summary string) []string {
	points := make([]string, 0, 5)
	for _, frag := range strings.FieldsFunc(summary, func(r rune) bool {
		return r == '.' || r == '?' || r == '!'
	}) {
		frag = strings.TrimSpace(frag)
		if len(frag) < 5 {
			continue
		}
		points = append(points, frag)
		if len(points) == 5 {
			break
		}
	}
	return points
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

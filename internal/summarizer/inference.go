package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/Shlok-Goswami/virtudesk/internal/logger"
	"github.com/Shlok-Goswami/virtudesk/pkg/backoff"
)

// inferenceBackend talks to a hosted-inference summarization endpoint.
// The model may still be loading when called; the service signals that with
// a 503 status or a JSON error field containing "loading", and the backend
// waits a fixed backoff before trying again, up to maxRetries attempts.
type inferenceBackend struct {
	url          string
	apiKey       string
	retryBackoff time.Duration
	maxRetries   int
	client       *http.Client
	logger       logger.Logger
}

func (b *inferenceBackend) generate(ctx context.Context, text string) (string, error) {
	for attempt := 0; ; attempt++ {
		summary, retry, err := b.call(ctx, text)
		if err != nil {
			return "", err
		}
		if !retry {
			return summary, nil
		}
		if attempt >= b.maxRetries {
			return "", fmt.Errorf("%w: model still loading after %d attempts", ErrRetriesExhausted, attempt+1)
		}
		b.logger.Info(ctx, "Summarization model loading, retrying in %s (attempt %d/%d)", b.retryBackoff, attempt+1, b.maxRetries)
		if !backoff.Sleep(ctx, b.retryBackoff) {
			return "", ctx.Err()
		}
	}
}

// call performs one request. retry is true when the service asked us to wait
// for the model; service-side failures come back as *serviceError.
func (b *inferenceBackend) call(ctx context.Context, text string) (summary string, retry bool, err error) {
	payload, _ := json.Marshal(map[string]string{"inputs": text})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.url, bytes.NewReader(payload))
	if err != nil {
		return "", false, err
	}
	req.Header.Set("Content-Type", "application/json")
	if b.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+b.apiKey)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("post transcript: %w", err)
	}
	defer resp.Body.Close()

	// Read the body once up front. Status and content type decide how to
	// interpret it; the body is never assumed to be JSON.
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusServiceUnavailable {
		return "", true, nil
	}

	if !isJSON(resp.Header.Get("Content-Type")) {
		return "", false, &serviceError{message: fmt.Sprintf("unexpected %s response from summarization service (%s)", resp.Header.Get("Content-Type"), resp.Status)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", false, &serviceError{message: fmt.Sprintf("summarization service returned %s: %s", resp.Status, snippet(body))}
	}

	return parseInferenceBody(body)
}

// The service answers in one of three shapes: an array whose first element
// carries the text, a bare string, or an object carrying the text (or an
// error). Anything else is a parse failure.
type inferenceObject struct {
	Error         string `json:"error"`
	SummaryText   string `json:"summary_text"`
	GeneratedText string `json:"generated_text"`
	Summary       string `json:"summary"`
}

func (o inferenceObject) text() string {
	for _, t := range []string{o.SummaryText, o.GeneratedText, o.Summary} {
		if strings.TrimSpace(t) != "" {
			return t
		}
	}
	return ""
}

func parseInferenceBody(body []byte) (summary string, retry bool, err error) {
	switch firstByte(body) {
	case '[':
		var items []inferenceObject
		if err := json.Unmarshal(body, &items); err != nil {
			return "", false, &serviceError{message: "unparsable summarization response: " + snippet(body)}
		}
		if len(items) == 0 {
			return "", false, nil
		}
		return items[0].text(), false, nil
	case '"':
		var s string
		if err := json.Unmarshal(body, &s); err != nil {
			return "", false, &serviceError{message: "unparsable summarization response: " + snippet(body)}
		}
		return s, false, nil
	case '{':
		var obj inferenceObject
		if err := json.Unmarshal(body, &obj); err != nil {
			return "", false, &serviceError{message: "unparsable summarization response: " + snippet(body)}
		}
		if obj.Error != "" {
			if strings.Contains(strings.ToLower(obj.Error), "loading") {
				return "", true, nil
			}
			return "", false, &serviceError{message: obj.Error}
		}
		return obj.text(), false, nil
	default:
		return "", false, &serviceError{message: "unparsable summarization response: " + snippet(body)}
	}
}

func firstByte(body []byte) byte {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}

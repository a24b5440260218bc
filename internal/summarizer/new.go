package summarizer

import (
	"context"
	"net/http"
	"time"

	"github.com/Shlok-Goswami/virtudesk/internal/config"
	"github.com/Shlok-Goswami/virtudesk/internal/logger"
)

// backend produces raw summary text for a (already truncated) transcript.
// Service-reported failures come back as *serviceError so the orchestrator
// can degrade them instead of treating them as transport faults.
type backend interface {
	generate(ctx context.Context, text string) (string, error)
}

type implSummarizer struct {
	backend       backend
	maxInputChars int
	logger        logger.Logger
}

// New creates a Summarizer using the backend selected in cfg.
func New(cfg config.SummarizerConfig, log logger.Logger) Summarizer {
	var b backend
	switch cfg.Backend {
	case config.BackendGemini:
		b = &geminiBackend{
			apiKeys: cfg.Gemini.APIKeys,
			model:   cfg.Gemini.Model,
			logger:  log,
		}
	case config.BackendOpenAI:
		b = &openaiBackend{
			baseURL: cfg.OpenAI.BaseURL,
			apiKey:  cfg.OpenAI.APIKey,
			model:   cfg.OpenAI.Model,
			client:  &http.Client{Timeout: 75 * time.Second},
			logger:  log,
		}
	default:
		b = &inferenceBackend{
			url:          cfg.Inference.URL,
			apiKey:       cfg.Inference.APIKey,
			retryBackoff: cfg.Inference.RetryBackoff.Std(),
			maxRetries:   cfg.Inference.MaxRetries,
			client:       &http.Client{Timeout: 60 * time.Second},
			logger:       log,
		}
	}

	return &implSummarizer{
		backend:       b,
		maxInputChars: cfg.MaxInputChars,
		logger:        log,
	}
}

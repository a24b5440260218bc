package transcriber

import (
	"net/http"
	"time"

	"github.com/Shlok-Goswami/virtudesk/internal/config"
	"github.com/Shlok-Goswami/virtudesk/internal/logger"
)

type implTranscriber struct {
	baseURL      string
	apiKey       string
	pollInterval time.Duration
	jobTimeout   time.Duration
	client       *http.Client
	logger       logger.Logger
}

// New creates a Transcriber talking to the speech service configured in cfg.
func New(cfg config.TranscriberConfig, log logger.Logger) Transcriber {
	return &implTranscriber{
		baseURL:      cfg.BaseURL,
		apiKey:       cfg.APIKey,
		pollInterval: cfg.PollInterval.Std(),
		jobTimeout:   cfg.JobTimeout.Std(),
		client:       &http.Client{Timeout: 60 * time.Second},
		logger:       log,
	}
}

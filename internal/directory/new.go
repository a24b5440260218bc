package directory

import (
	"net/http"
	"time"

	"github.com/Shlok-Goswami/virtudesk/internal/config"
	"github.com/Shlok-Goswami/virtudesk/internal/logger"
)

type implDirectory struct {
	baseURL  string
	apiKey   string
	pageSize int
	client   *http.Client
	logger   logger.Logger
}

// New creates a Directory talking to the member-directory service in cfg.
func New(cfg config.DirectoryConfig, log logger.Logger) Directory {
	return &implDirectory{
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		pageSize: cfg.PageSize,
		client:   &http.Client{Timeout: 30 * time.Second},
		logger:   log,
	}
}

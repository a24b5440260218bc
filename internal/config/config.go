package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Paths       PathsConfig       `yaml:"paths"`
	Transcriber TranscriberConfig `yaml:"transcriber"`
	Summarizer  SummarizerConfig  `yaml:"summarizer"`
	Directory   DirectoryConfig   `yaml:"directory"`
	Storage     StorageConfig     `yaml:"storage"`
	Session     SessionConfig     `yaml:"session"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type PathsConfig struct {
	// Spool is optional; empty disables the chunk-file watcher.
	Spool     string `yaml:"spool"`
	Artifacts string `yaml:"artifacts"`
}

type TranscriberConfig struct {
	BaseURL      string   `yaml:"base_url"`
	APIKey       string   `yaml:"api_key"`
	PollInterval Duration `yaml:"poll_interval"`
	JobTimeout   Duration `yaml:"job_timeout"`
}

type SummarizerConfig struct {
	Backend       string          `yaml:"backend"`
	MaxInputChars int             `yaml:"max_input_chars"`
	Inference     InferenceConfig `yaml:"inference"`
	Gemini        GeminiConfig    `yaml:"gemini"`
	OpenAI        OpenAIConfig    `yaml:"openai"`
}

type InferenceConfig struct {
	URL          string   `yaml:"url"`
	APIKey       string   `yaml:"api_key"`
	RetryBackoff Duration `yaml:"retry_backoff"`
	MaxRetries   int      `yaml:"max_retries"`
}

type GeminiConfig struct {
	APIKeys []string `yaml:"api_keys"`
	Model   string   `yaml:"model"`
}

type OpenAIConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

type DirectoryConfig struct {
	BaseURL  string `yaml:"base_url"`
	APIKey   string `yaml:"api_key"`
	PageSize int    `yaml:"page_size"`
}

type StorageConfig struct {
	Path string `yaml:"path"`
}

type SessionConfig struct {
	MaxConcurrentTranscriptions int `yaml:"max_concurrent_transcriptions"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Duration wraps time.Duration so values like "3s" or "10m" decode from YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

// Load reads and validates the YAML config at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

const (
	BackendInference = "inference"
	BackendGemini    = "gemini"
	BackendOpenAI    = "openai"
)

func (c *Config) Validate() error {
	if c.Transcriber.BaseURL == "" {
		return fmt.Errorf("transcriber.base_url is required")
	}

	if c.Summarizer.Backend == "" {
		c.Summarizer.Backend = BackendInference
	}
	switch c.Summarizer.Backend {
	case BackendInference:
		if c.Summarizer.Inference.URL == "" {
			return fmt.Errorf("summarizer.inference.url is required")
		}
	case BackendGemini:
		if len(c.Summarizer.Gemini.APIKeys) == 0 {
			return fmt.Errorf("summarizer.gemini.api_keys is required")
		}
	case BackendOpenAI:
		if c.Summarizer.OpenAI.APIKey == "" {
			return fmt.Errorf("summarizer.openai.api_key is required")
		}
	default:
		return fmt.Errorf("summarizer.backend must be one of inference, gemini, openai")
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Paths.Artifacts == "" {
		c.Paths.Artifacts = "data/artifacts"
	}
	if c.Transcriber.PollInterval <= 0 {
		c.Transcriber.PollInterval = Duration(3 * time.Second)
	}
	if c.Transcriber.JobTimeout <= 0 {
		c.Transcriber.JobTimeout = Duration(10 * time.Minute)
	}
	if c.Summarizer.MaxInputChars <= 0 {
		c.Summarizer.MaxInputChars = 4000
	}
	if c.Summarizer.Inference.RetryBackoff <= 0 {
		c.Summarizer.Inference.RetryBackoff = Duration(15 * time.Second)
	}
	if c.Summarizer.Inference.MaxRetries <= 0 {
		c.Summarizer.Inference.MaxRetries = 8
	}
	if c.Summarizer.Gemini.Model == "" {
		c.Summarizer.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Summarizer.OpenAI.Model == "" {
		c.Summarizer.OpenAI.Model = "gpt-4o-mini"
	}
	if c.Directory.PageSize <= 0 {
		c.Directory.PageSize = 100
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "data/virtudesk.db"
	}
	if c.Session.MaxConcurrentTranscriptions <= 0 {
		c.Session.MaxConcurrentTranscriptions = 4
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}

	return nil
}

package config

import (
	"os"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name: "valid inference config",
			config: Config{
				Transcriber: TranscriberConfig{
					BaseURL: "https://stt.example.com",
				},
				Summarizer: SummarizerConfig{
					Inference: InferenceConfig{
						URL: "https://models.example.com/summarize",
					},
				},
			},
			wantErr: false,
		},
		{
			name: "missing transcriber base url",
			config: Config{
				Summarizer: SummarizerConfig{
					Inference: InferenceConfig{
						URL: "https://models.example.com/summarize",
					},
				},
			},
			wantErr: true,
		},
		{
			name: "inference backend without url",
			config: Config{
				Transcriber: TranscriberConfig{
					BaseURL: "https://stt.example.com",
				},
			},
			wantErr: true,
		},
		{
			name: "gemini backend without keys",
			config: Config{
				Transcriber: TranscriberConfig{
					BaseURL: "https://stt.example.com",
				},
				Summarizer: SummarizerConfig{Backend: BackendGemini},
			},
			wantErr: true,
		},
		{
			name: "gemini backend with keys",
			config: Config{
				Transcriber: TranscriberConfig{
					BaseURL: "https://stt.example.com",
				},
				Summarizer: SummarizerConfig{
					Backend: BackendGemini,
					Gemini:  GeminiConfig{APIKeys: []string{"k1"}},
				},
			},
			wantErr: false,
		},
		{
			name: "openai backend without key",
			config: Config{
				Transcriber: TranscriberConfig{
					BaseURL: "https://stt.example.com",
				},
				Summarizer: SummarizerConfig{Backend: BackendOpenAI},
			},
			wantErr: true,
		},
		{
			name: "unknown backend",
			config: Config{
				Transcriber: TranscriberConfig{
					BaseURL: "https://stt.example.com",
				},
				Summarizer: SummarizerConfig{Backend: "magic"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := Config{
		Transcriber: TranscriberConfig{BaseURL: "https://stt.example.com"},
		Summarizer: SummarizerConfig{
			Inference: InferenceConfig{URL: "https://models.example.com/summarize"},
		},
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if cfg.Summarizer.Backend != BackendInference {
		t.Errorf("Backend = %v, want %v", cfg.Summarizer.Backend, BackendInference)
	}
	if cfg.Transcriber.PollInterval.Std() != 3*time.Second {
		t.Errorf("PollInterval = %v, want 3s", cfg.Transcriber.PollInterval.Std())
	}
	if cfg.Transcriber.JobTimeout.Std() != 10*time.Minute {
		t.Errorf("JobTimeout = %v, want 10m", cfg.Transcriber.JobTimeout.Std())
	}
	if cfg.Summarizer.MaxInputChars != 4000 {
		t.Errorf("MaxInputChars = %v, want 4000", cfg.Summarizer.MaxInputChars)
	}
	if cfg.Summarizer.Inference.RetryBackoff.Std() != 15*time.Second {
		t.Errorf("RetryBackoff = %v, want 15s", cfg.Summarizer.Inference.RetryBackoff.Std())
	}
	if cfg.Summarizer.Inference.MaxRetries != 8 {
		t.Errorf("MaxRetries = %v, want 8", cfg.Summarizer.Inference.MaxRetries)
	}
	if cfg.Directory.PageSize != 100 {
		t.Errorf("PageSize = %v, want 100", cfg.Directory.PageSize)
	}
	if cfg.Session.MaxConcurrentTranscriptions != 4 {
		t.Errorf("MaxConcurrentTranscriptions = %v, want 4", cfg.Session.MaxConcurrentTranscriptions)
	}
	if cfg.Storage.Path != "data/virtudesk.db" {
		t.Errorf("Storage.Path = %v, want data/virtudesk.db", cfg.Storage.Path)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("Logging = %+v, want info/text", cfg.Logging)
	}
}

func TestLoad(t *testing.T) {
	// Create a temporary config file
	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	content := `
server:
  addr: ":9090"

transcriber:
  base_url: "https://stt.example.com"
  api_key: "stt-key"
  poll_interval: "250ms"
  job_timeout: "1m"

summarizer:
  backend: "inference"
  max_input_chars: 2000
  inference:
    url: "https://models.example.com/summarize"
    api_key: "model-key"
    retry_backoff: "5s"
    max_retries: 3

directory:
  base_url: "https://api.example.com"
  page_size: 50

logging:
  level: "debug"
  format: "json"
`

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Errorf("Addr = %v, want :9090", cfg.Server.Addr)
	}
	if cfg.Transcriber.PollInterval.Std() != 250*time.Millisecond {
		t.Errorf("PollInterval = %v, want 250ms", cfg.Transcriber.PollInterval.Std())
	}
	if cfg.Summarizer.MaxInputChars != 2000 {
		t.Errorf("MaxInputChars = %v, want 2000", cfg.Summarizer.MaxInputChars)
	}
	if cfg.Summarizer.Inference.MaxRetries != 3 {
		t.Errorf("MaxRetries = %v, want 3", cfg.Summarizer.Inference.MaxRetries)
	}
	if cfg.Directory.PageSize != 50 {
		t.Errorf("PageSize = %v, want 50", cfg.Directory.PageSize)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Load() should return error for nonexistent file")
	}
}

func TestLoadBadDuration(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	content := `
transcriber:
  base_url: "https://stt.example.com"
  poll_interval: "soon"
summarizer:
  inference:
    url: "https://models.example.com/summarize"
`
	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(tmpfile.Name()); err == nil {
		t.Error("Load() should reject an unparsable duration")
	}
}

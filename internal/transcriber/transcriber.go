package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Shlok-Goswami/virtudesk/pkg/backoff"
)

var (
	// ErrJobFailed means the speech service reported a terminal error for the job.
	ErrJobFailed = errors.New("transcription job failed")
	// ErrJobTimeout means the job did not reach a terminal state within the configured timeout.
	ErrJobTimeout = errors.New("transcription job timed out")
)

// Job statuses reported by the speech service. Anything not terminal keeps polling.
const (
	statusPending    = "pending"
	statusProcessing = "processing"
	statusCompleted  = "completed"
	statusError      = "error"
)

type uploadResponse struct {
	UploadURL string `json:"upload_url"`
}

type jobResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Text   string `json:"text"`
	Error  string `json:"error"`
}

// Transcribe uploads the audio, submits a transcription job and polls it to a
// terminal state. Failures are returned as errors; degrading them to an empty
// transcript is the caller's decision.
func (t *implTranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", nil
	}

	uploadURL, err := t.upload(ctx, audio)
	if err != nil {
		return "", fmt.Errorf("upload audio: %w", err)
	}
	t.logger.Debug(ctx, "Audio uploaded (%d bytes)", len(audio))

	jobID, err := t.submit(ctx, uploadURL)
	if err != nil {
		return "", fmt.Errorf("submit job: %w", err)
	}
	t.logger.Debug(ctx, "Transcription job submitted: %s", jobID)

	return t.waitForJob(ctx, jobID)
}

// upload sends the raw audio bytes and returns the handle the service assigned.
func (t *implTranscriber) upload(ctx context.Context, audio []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/upload", bytes.NewReader(audio))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	t.authorize(req)

	resp, err := t.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("upload %s: %s", resp.Status, string(body))
	}

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("upload decode: %w", err)
	}
	if out.UploadURL == "" {
		return "", fmt.Errorf("upload response missing upload_url")
	}
	return out.UploadURL, nil
}

// submit creates a transcription job referencing an earlier upload.
func (t *implTranscriber) submit(ctx context.Context, uploadURL string) (string, error) {
	payload, _ := json.Marshal(map[string]string{"audio_url": uploadURL})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/transcripts", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	t.authorize(req)

	resp, err := t.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("submit %s: %s", resp.Status, string(body))
	}

	var out jobResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("submit decode: %w", err)
	}
	if out.ID == "" {
		return "", fmt.Errorf("submit response missing id")
	}
	return out.ID, nil
}

// waitForJob polls until the job completes, errors, or the job timeout passes.
func (t *implTranscriber) waitForJob(ctx context.Context, jobID string) (string, error) {
	deadline := time.Now().Add(t.jobTimeout)

	for {
		job, err := t.poll(ctx, jobID)
		if err != nil {
			return "", fmt.Errorf("poll job %s: %w", jobID, err)
		}

		switch job.Status {
		case statusCompleted:
			return job.Text, nil
		case statusError:
			return "", fmt.Errorf("%w: %s", ErrJobFailed, job.Error)
		case statusPending, statusProcessing:
			// keep waiting
		default:
			t.logger.Warn(ctx, "Job %s reported unknown status %q, still polling", jobID, job.Status)
		}

		if time.Now().After(deadline) {
			return "", fmt.Errorf("%w: job %s after %s", ErrJobTimeout, jobID, t.jobTimeout)
		}
		if !backoff.Sleep(ctx, t.pollInterval) {
			return "", ctx.Err()
		}
	}
}

func (t *implTranscriber) poll(ctx context.Context, jobID string) (*jobResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"/transcripts/"+jobID, nil)
	if err != nil {
		return nil, err
	}
	t.authorize(req)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("status %s: %s", resp.Status, string(body))
	}

	var out jobResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("status decode: %w", err)
	}
	return &out, nil
}

func (t *implTranscriber) authorize(req *http.Request) {
	if t.apiKey != "" {
		req.Header.Set("Authorization", t.apiKey)
	}
}

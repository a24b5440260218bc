package summarizer

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/Shlok-Goswami/virtudesk/internal/logger"
)

const meetingPrompt = `You are an assistant that writes concise meeting recaps. Based on the transcript below, write a short summary of the meeting in plain prose.

Requirements:
- 2 to 4 sentences covering what was discussed and decided
- Mention concrete outcomes, decisions and action items when present
- Do not invent content that is not in the transcript
- No markdown, no headings, no bullet points

Transcript:
---
%s
---`

// geminiBackend summarizes through the Gemini API, rotating across the
// configured keys when one is rate limited.
type geminiBackend struct {
	apiKeys []string
	model   string
	logger  logger.Logger

	mu         sync.Mutex
	currentKey int
}

func (b *geminiBackend) generate(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf(meetingPrompt, text)

	attempts := len(b.apiKeys)
	var lastErr error

	for range attempts {
		keyIdx, key := b.activeKey()

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			b.rotateKey()
			continue
		}

		result, err := client.Models.GenerateContent(ctx, b.model, genai.Text(prompt), nil)
		if err != nil {
			errMsg := err.Error()
			if strings.Contains(errMsg, "429") || strings.Contains(errMsg, "quota") || strings.Contains(errMsg, "RESOURCE_EXHAUSTED") {
				b.logger.Warn(ctx, "Gemini key %d rate limited, rotating...", keyIdx+1)
				b.rotateKey()
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var out strings.Builder
			for _, part := range result.Candidates[0].Content.Parts {
				out.WriteString(part.Text)
			}
			return out.String(), nil
		}

		return "", &serviceError{message: "empty response from model"}
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (b *geminiBackend) activeKey() (int, string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentKey, b.apiKeys[b.currentKey]
}

func (b *geminiBackend) rotateKey() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.currentKey = (b.currentKey + 1) % len(b.apiKeys)
}

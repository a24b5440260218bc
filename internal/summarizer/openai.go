package summarizer

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	openaigo "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/Shlok-Goswami/virtudesk/internal/logger"
)

const openaiSystemPrompt = "You are an assistant that writes concise meeting recaps. Summarize the transcript in 2 to 4 plain prose sentences, covering decisions and action items. No markdown."

// openaiBackend summarizes through an OpenAI-compatible chat completion API.
type openaiBackend struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	logger  logger.Logger
}

func (b *openaiBackend) generate(ctx context.Context, text string) (string, error) {
	opts := []option.RequestOption{
		option.WithAPIKey(b.apiKey),
		option.WithHTTPClient(b.client),
		option.WithMaxRetries(2),
	}
	if baseURL := strings.TrimRight(strings.TrimSpace(b.baseURL), "/"); baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := openaigo.NewClient(opts...)

	completion, err := client.Chat.Completions.New(ctx, openaigo.ChatCompletionNewParams{
		Model: openaigo.ChatModel(b.model),
		Messages: []openaigo.ChatCompletionMessageParamUnion{
			openaigo.SystemMessage(openaiSystemPrompt),
			openaigo.UserMessage(text),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", &serviceError{message: "empty response from model"}
	}
	return completion.Choices[0].Message.Content, nil
}

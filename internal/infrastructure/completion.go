package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"widgetbot/internal/interfaces"
)

// Generation knobs. Tunables, not contract.
const (
	completionTemperature = 0.7
	completionMaxTokens   = 500
)

// CompletionClient talks to an OpenAI-compatible chat-completions endpoint.
// The default base URL points at Gemini's compatibility API, but any provider
// speaking the same wire format works.
type CompletionClient struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

func NewCompletionClient(apiKey, baseURL, model string) *CompletionClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &CompletionClient{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: completionTemperature,
		maxTokens:   completionMaxTokens,
	}
}

func (c *CompletionClient) GenerateReply(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
	})
	if err != nil {
		return "", classifyCompletionError(err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("ai: empty completion response")
	}
	return resp.Choices[0].Message.Content, nil
}

// classifyCompletionError maps provider failures onto the typed kinds callers
// branch on; anything unrecognized passes through as a generic failure.
func classifyCompletionError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %v", interfaces.ErrAIUnauthorized, err)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", interfaces.ErrAIQuotaExceeded, err)
		}
	}
	return err
}

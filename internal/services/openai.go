package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAICompleter talks to any OpenAI-compatible chat completions endpoint
// (OpenRouter by default).
type OpenAICompleter struct {
	client openai.Client
}

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Referer string
	Title   string
}

func NewOpenAICompleter(cfg OpenAIConfig) (*OpenAICompleter, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("inference api key is empty")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		opts = append(opts, option.WithBaseURL(base))
	}
	if cfg.Referer != "" {
		opts = append(opts, option.WithHeader("HTTP-Referer", cfg.Referer))
	}
	if cfg.Title != "" {
		opts = append(opts, option.WithHeader("X-Title", cfg.Title))
	}

	return &OpenAICompleter{client: openai.NewClient(opts...)}, nil
}

func (c *OpenAICompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(req.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(req.MaxTokens)
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%w (finish reason = %s)", ErrEmptyCompletion, resp.Choices[0].FinishReason)
	}

	return text, nil
}

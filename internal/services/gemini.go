package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiCompleter calls Google's Gemini API directly instead of going
// through an OpenAI-compatible router.
type GeminiCompleter struct {
	client       *genai.Client
	defaultModel string
}

func NewGeminiCompleter(ctx context.Context, apiKey, defaultModel string) (*GeminiCompleter, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	if defaultModel == "" {
		defaultModel = "gemini-2.0-flash-001"
	}

	return &GeminiCompleter{client: client, defaultModel: defaultModel}, nil
}

func (g *GeminiCompleter) Close() {
	g.client.Close()
}

func (g *GeminiCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	model := g.client.GenerativeModel(geminiModelName(req.Model, g.defaultModel))
	model.SetTemperature(0.3)
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	text := strings.TrimSpace(extractGeminiText(resp))
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}

// geminiModelName maps catalog ids like "google/gemini-2.0-flash-lite-001:free"
// to Gemini model names. Non-Google ids use the fallback.
func geminiModelName(id, fallback string) string {
	id = strings.TrimSpace(id)
	if !strings.HasPrefix(id, "google/") {
		return fallback
	}

	name := strings.TrimPrefix(id, "google/")
	if i := strings.Index(name, ":"); i >= 0 {
		name = name[:i]
	}
	if name == "" {
		return fallback
	}
	return name
}

func extractGeminiText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}

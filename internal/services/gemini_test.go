package services

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
)

func TestGeminiModelName(t *testing.T) {
	const fallback = "gemini-2.0-flash-001"

	tests := []struct {
		id   string
		want string
	}{
		{"google/gemini-2.5-pro-preview", "gemini-2.5-pro-preview"},
		{"google/gemini-2.0-flash-lite-001:free", "gemini-2.0-flash-lite-001"},
		{"openai/gpt-4o", fallback},
		{"deepseek/deepseek-chat", fallback},
		{"google/", fallback},
		{"", fallback},
	}

	for _, tc := range tests {
		t.Run(tc.id, func(t *testing.T) {
			if got := geminiModelName(tc.id, fallback); got != tc.want {
				t.Errorf("geminiModelName(%q) = %q, want %q", tc.id, got, tc.want)
			}
		})
	}
}

func TestExtractGeminiText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("Hello, "), genai.Text("world")}}},
			{Content: nil},
		},
	}

	if got := extractGeminiText(resp); got != "Hello, world" {
		t.Fatalf("unexpected text %q", got)
	}
}

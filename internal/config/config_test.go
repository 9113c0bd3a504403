package config

import (
	"testing"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("OPENROUTER_API_KEY", "or-key")
	t.Setenv("DEEPSEEK_API_KEY", "")
	t.Setenv("INFERENCE_PROVIDER", "")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "")
	t.Setenv("DEFAULT_MODEL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "5000" {
		t.Errorf("Expected default port 5000, got %q", cfg.Port)
	}
	if cfg.DefaultModel != "deepseek/deepseek-chat" {
		t.Errorf("Expected default model, got %q", cfg.DefaultModel)
	}
	if cfg.InferenceBaseURL != "https://openrouter.ai/api/v1" {
		t.Errorf("Unexpected base URL %q", cfg.InferenceBaseURL)
	}
	if cfg.APIKey() != "or-key" {
		t.Errorf("Expected OPENROUTER_API_KEY to be used, got %q", cfg.APIKey())
	}
}

func TestLoad_UsesEnvValues(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "8081")
	t.Setenv("AI_REQUESTS_PER_MINUTE", "7")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8081" {
		t.Errorf("Expected port 8081, got %q", cfg.Port)
	}
	if cfg.RequestsPerMinute != 7 {
		t.Errorf("Expected 7 requests per minute, got %d", cfg.RequestsPerMinute)
	}
}

func TestAPIKey_FallsBackToDeepSeek(t *testing.T) {
	cfg := &Config{InferenceProvider: "openrouter", DeepSeekAPIKey: "ds-key"}
	if got := cfg.APIKey(); got != "ds-key" {
		t.Errorf("Expected 'ds-key', got %q", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"openrouter with key", Config{InferenceProvider: "openrouter", OpenRouterAPIKey: "k"}, false},
		{"openrouter without key", Config{InferenceProvider: "openrouter"}, true},
		{"gemini with key", Config{InferenceProvider: "gemini", GeminiAPIKey: "g"}, false},
		{"gemini ignores openrouter key", Config{InferenceProvider: "gemini", OpenRouterAPIKey: "k"}, true},
		{"unknown provider", Config{InferenceProvider: "bedrock", OpenRouterAPIKey: "k"}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := tc.cfg
			err := cfg.validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Expected error=%v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestValidate_ResetsNonPositiveLimits(t *testing.T) {
	cfg := Config{InferenceProvider: "openai", OpenRouterAPIKey: "k", RequestsPerMinute: -1}
	if err := cfg.validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RequestsPerMinute != 20 {
		t.Errorf("Expected 20, got %d", cfg.RequestsPerMinute)
	}
	if cfg.ChatSessionTTLMin != 120 {
		t.Errorf("Expected 120, got %d", cfg.ChatSessionTTLMin)
	}
}

func TestLoggerFormat(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"development defaults to text", Config{Env: "development"}, "text"},
		{"production defaults to json", Config{Env: "production"}, "json"},
		{"explicit format wins", Config{Env: "production", LogFormat: "text"}, "text"},
		{"explicit json in development", Config{Env: "development", LogFormat: "json"}, "json"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cfg.LoggerFormat(); got != tc.want {
				t.Errorf("Expected %q, got %q", tc.want, got)
			}
		})
	}
}

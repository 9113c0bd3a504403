package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port        string `env:"PORT" envDefault:"5000"`
	Env         string `env:"APP_ENV" envDefault:"development"`
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT"` // "json" or "text"; defaults by APP_ENV

	// Document database
	MongoURI      string `env:"MONGO_URI"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"smartbrief"`

	// Redis (optional, chat sessions stay in memory when unset)
	RedisURL string `env:"REDIS_URL"`

	// Inference
	InferenceProvider string `env:"INFERENCE_PROVIDER" envDefault:"openrouter"`
	InferenceBaseURL  string `env:"INFERENCE_BASE_URL" envDefault:"https://openrouter.ai/api/v1"`
	OpenRouterAPIKey  string `env:"OPENROUTER_API_KEY"`
	DeepSeekAPIKey    string `env:"DEEPSEEK_API_KEY"`
	GeminiAPIKey      string `env:"GEMINI_API_KEY"`
	DefaultModel      string `env:"DEFAULT_MODEL" envDefault:"deepseek/deepseek-chat"`
	SiteURL           string `env:"SITE_URL" envDefault:"https://smartbrief.yoursite.com"`
	AppTitle          string `env:"APP_TITLE" envDefault:"SmartBrief"`

	// Limits
	RequestsPerMinute int `env:"AI_REQUESTS_PER_MINUTE" envDefault:"20"`
	ChatSessionTTLMin int `env:"CHAT_SESSION_TTL_MINUTES" envDefault:"120"`
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// APIKey returns the key for the configured inference provider.
func (c *Config) APIKey() string {
	if c.UsesGemini() {
		return c.GeminiAPIKey
	}
	if c.OpenRouterAPIKey != "" {
		return c.OpenRouterAPIKey
	}
	return c.DeepSeekAPIKey
}

// UsesGemini reports whether completions go to the Gemini API.
func (c *Config) UsesGemini() bool {
	return strings.EqualFold(strings.TrimSpace(c.InferenceProvider), "gemini")
}

func (c *Config) validate() error {
	switch strings.ToLower(strings.TrimSpace(c.InferenceProvider)) {
	case "openrouter", "openai", "gemini":
	default:
		return fmt.Errorf("unsupported INFERENCE_PROVIDER %q", c.InferenceProvider)
	}

	if c.APIKey() == "" {
		if c.UsesGemini() {
			return fmt.Errorf("required environment variable GEMINI_API_KEY is not set")
		}
		return fmt.Errorf("required environment variable OPENROUTER_API_KEY (or DEEPSEEK_API_KEY) is not set")
	}

	if c.RequestsPerMinute <= 0 {
		c.RequestsPerMinute = 20
	}
	if c.ChatSessionTTLMin <= 0 {
		c.ChatSessionTTLMin = 120
	}

	return nil
}

// IsProduction reports whether the service runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), "production")
}

// LoggerFormat returns LOG_FORMAT, or json in production and text elsewhere
// when it is unset.
func (c *Config) LoggerFormat() string {
	if f := strings.TrimSpace(c.LogFormat); f != "" {
		return f
	}
	if c.IsProduction() {
		return "json"
	}
	return "text"
}

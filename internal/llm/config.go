package llm

import (
	"os"
	"time"
)

// Config selects and configures the coaching model provider
type Config struct {
	// Provider is one of "gemini", "openai", "anthropic", "openrouter" or "mock"
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds one Generate call including retries
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic settings
type AnthropicConfig struct {
	APIKey string
	Model  string
}

// OpenAIConfig holds OpenAI settings. BaseURL targets compatible APIs.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// GeminiConfig holds Gemini settings
type GeminiConfig struct {
	APIKey string
	Model  string
}

// OpenRouterConfig holds OpenRouter settings
type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig controls backoff for transient failures
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns the defaults. Gemini flash is the default coach model.
func DefaultConfig() Config {
	return Config{
		Provider:   "gemini",
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 45 * time.Second,
	}
}

// ConfigFromEnv reads CONLIT_* variables over the defaults
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	setString(&cfg.Provider, "CONLIT_LLM_PROVIDER")

	setString(&cfg.Gemini.APIKey, "CONLIT_GEMINI_API_KEY")
	setString(&cfg.Gemini.Model, "CONLIT_GEMINI_MODEL")

	setString(&cfg.OpenAI.APIKey, "CONLIT_OPENAI_API_KEY")
	setString(&cfg.OpenAI.Model, "CONLIT_OPENAI_MODEL")
	setString(&cfg.OpenAI.BaseURL, "CONLIT_OPENAI_BASE_URL")

	setString(&cfg.Anthropic.APIKey, "CONLIT_ANTHROPIC_API_KEY")
	setString(&cfg.Anthropic.Model, "CONLIT_ANTHROPIC_MODEL")

	setString(&cfg.OpenRouter.APIKey, "CONLIT_OPENROUTER_API_KEY")
	setString(&cfg.OpenRouter.Model, "CONLIT_OPENROUTER_MODEL")

	if v := os.Getenv("CONLIT_LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = d
		}
	}

	return cfg
}

// DiscoverConfig looks for a well-known API key (Gemini, OpenAI, Anthropic,
// OpenRouter in that order) and returns a config for the first one found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	switch {
	case os.Getenv("GEMINI_API_KEY") != "":
		cfg.Provider = "gemini"
		cfg.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	case os.Getenv("OPENAI_API_KEY") != "":
		cfg.Provider = "openai"
		cfg.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	case os.Getenv("ANTHROPIC_API_KEY") != "":
		cfg.Provider = "anthropic"
		cfg.Anthropic.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	case os.Getenv("OPENROUTER_API_KEY") != "":
		cfg.Provider = "openrouter"
		cfg.OpenRouter.APIKey = os.Getenv("OPENROUTER_API_KEY")
	default:
		return Config{}, false
	}
	return cfg, true
}

// ResolveConfig prefers explicit CONLIT_* settings and falls back to discovery.
// It reports false when no provider key is available.
func ResolveConfig() (Config, bool) {
	cfg := ConfigFromEnv()
	if cfg.Provider == "mock" || cfg.hasKey() {
		return cfg, true
	}
	return DiscoverConfig()
}

func (c Config) hasKey() bool {
	switch c.Provider {
	case "gemini":
		return c.Gemini.APIKey != ""
	case "openai":
		return c.OpenAI.APIKey != ""
	case "anthropic":
		return c.Anthropic.APIKey != ""
	case "openrouter":
		return c.OpenRouter.APIKey != ""
	}
	return false
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

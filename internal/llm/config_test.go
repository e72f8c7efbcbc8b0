package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearKeys(t *testing.T) {
	for _, k := range []string{
		"CONLIT_LLM_PROVIDER", "CONLIT_GEMINI_API_KEY", "CONLIT_OPENAI_API_KEY",
		"CONLIT_ANTHROPIC_API_KEY", "CONLIT_OPENROUTER_API_KEY", "CONLIT_LLM_TIMEOUT",
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
}

func TestConfigFromEnv(t *testing.T) {
	clearKeys(t)
	t.Setenv("CONLIT_LLM_PROVIDER", "openai")
	t.Setenv("CONLIT_OPENAI_API_KEY", "sk-test")
	t.Setenv("CONLIT_LLM_TIMEOUT", "5s")

	cfg := ConfigFromEnv()

	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}

func TestResolveConfig(t *testing.T) {
	clearKeys(t)
	_, ok := ResolveConfig()
	assert.False(t, ok)

	t.Setenv("ANTHROPIC_API_KEY", "ak")
	cfg, ok := ResolveConfig()
	require.True(t, ok)
	assert.Equal(t, "anthropic", cfg.Provider)

	t.Setenv("CONLIT_GEMINI_API_KEY", "gk")
	cfg, ok = ResolveConfig()
	require.True(t, ok)
	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, "gk", cfg.Gemini.APIKey)
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: "mock"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "mock", p.ModelID())

	_, err = NewProvider(context.Background(), Config{Provider: "nope"}, nil)
	assert.Error(t, err)

	cfg := DefaultConfig()
	cfg.Provider = "openai"
	cfg.OpenAI.APIKey = "sk-test"
	p, err = NewProvider(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &RetryProvider{}, p)
	assert.Equal(t, "gpt-4o-mini", p.ModelID())
}

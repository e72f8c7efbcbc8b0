package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMockProvider_QueueAndCalls(t *testing.T) {
	mock := NewMockProvider()
	mock.AddResponse(MockResponse{Content: json.RawMessage("```json\n{\"answer\":\"x\",\"tags\":[]}\n```")})

	resp, err := mock.Generate(context.Background(), Request{Schema: testSchema()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"answer":"x","tags":[]}`, string(resp.Content))

	_, err = mock.Generate(context.Background(), Request{})
	var unavailable *ErrProviderUnavailable
	assert.True(t, errors.As(err, &unavailable))
	assert.Equal(t, 2, mock.CallCount())
	assert.Equal(t, "mock", mock.ModelID())
}

func TestLoggingProvider(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{}`), Usage: Usage{InputTokens: 10, OutputTokens: 4}},
		MockResponse{Err: errors.New("boom")},
	)
	p := WithLogging(mock, zap.New(core))
	ctx := WithPurpose(context.Background(), "coaching_plan")

	_, err := p.Generate(ctx, Request{})
	require.NoError(t, err)
	_, err = p.Generate(ctx, Request{})
	require.Error(t, err)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "LLM request completed", entries[0].Message)
	assert.Equal(t, "coaching_plan", entries[0].ContextMap()["purpose"])
	assert.Equal(t, int64(10), entries[0].ContextMap()["input_tokens"])
	assert.Equal(t, "LLM request failed", entries[1].Message)
}

func TestPurposeFrom_Default(t *testing.T) {
	assert.Equal(t, "unknown", PurposeFrom(context.Background()))
}

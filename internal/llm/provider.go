package llm

import (
	"context"
	"encoding/json"
)

// Provider generates structured output from a language model
type Provider interface {
	// Generate sends the request and returns the model output. When
	// req.Schema is set the content is validated JSON for that schema.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the configured model identifier
	ModelID() string
}

// Request is a single generation request
type Request struct {
	System      string
	Messages    []Message
	Schema      *Schema
	MaxTokens   int
	Temperature float64
}

// Message is one conversation turn
type Message struct {
	Role    Role
	Content string
}

// Role is the sender of a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is the JSON Schema a response must satisfy.
// Name doubles as the schema cache key and must be unique per definition.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Response is the model output
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason string // "end" or "max_tokens"
}

// Usage is the token accounting for one request
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

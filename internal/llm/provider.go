// Package llm wraps the generative model providers used for flashcard authoring and hints
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates JSON output from a prompt
type Provider interface {
	// Generate sends the request to the model.
	// When req.Schema is set the returned Content is JSON that conforms to it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier the provider talks to
	ModelID() string
}

// Request describes a single generation call
type Request struct {
	System   string
	Messages []Message
	// Schema, when set, switches the provider to structured output
	Schema      *Schema
	MaxTokens   int
	Temperature float64
}

// Message is one turn of the conversation
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
// Name is used as the cache key for compiled schemas and as the OpenAI schema name.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Response holds the model output
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason string
}

// Usage reports token consumption
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// UserPrompt builds a single-turn request
func UserPrompt(system, prompt string, schema *Schema, maxTokens int) Request {
	return Request{
		System:      system,
		Messages:    []Message{{Role: RoleUser, Content: prompt}},
		Schema:      schema,
		MaxTokens:   maxTokens,
		Temperature: 0.7,
	}
}

// Package llm contains completion provider client implementations.
package llm

import "context"

// Message is a single role-tagged chat message.
type Message struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// Request is a completion request to a provider.
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

// Response is a completion returned by a provider.
type Response struct {
	Content string `json:"content"`
	Model   string `json:"model,omitempty"`
}

// Provider is the interface completion backends implement.
type Provider interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req Request) (*Response, error)

	// Name returns the provider name.
	Name() string
}

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const openaiAPIURL = "https://api.openai.com/v1/chat/completions"

// OpenAIClient implements Provider against an OpenAI-compatible
// chat-completions endpoint, so the service can point at any gateway that
// speaks the same wire format.
type OpenAIClient struct {
	apiKey  string
	model   string
	baseURL string
	limiter *rate.Limiter
	client  *http.Client
}

var _ Provider = (*OpenAIClient)(nil)

// OpenAIOptions configures an OpenAIClient.
type OpenAIOptions struct {
	APIKey  string
	Model   string
	BaseURL string        // Full completions URL; default is the OpenAI API
	MaxRPS  float64       // Requests per second cap; 0 disables limiting
	Timeout time.Duration // Default: 120s
}

// NewOpenAIClient creates a new OpenAI-compatible client.
func NewOpenAIClient(opts OpenAIOptions) *OpenAIClient {
	if opts.BaseURL == "" {
		opts.BaseURL = openaiAPIURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 120 * time.Second
	}

	c := &OpenAIClient{
		apiKey:  opts.APIKey,
		model:   opts.Model,
		baseURL: opts.BaseURL,
		client:  &http.Client{Timeout: opts.Timeout},
	}
	if opts.MaxRPS > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.MaxRPS), 1)
	}
	return c
}

// Name returns the provider name.
func (c *OpenAIClient) Name() string { return "openai" }

type openaiRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

type openaiResponse struct {
	Model   string         `json:"model"`
	Choices []openaiChoice `json:"choices"`
	Error   *openaiError   `json:"error,omitempty"`
}

type openaiChoice struct {
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

type openaiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Complete sends a completion request to the chat-completions endpoint.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("llm: rate limit wait: %w", err)
		}
	}

	model := req.Model
	if model == "" {
		model = c.model
	}

	body, err := json.Marshal(openaiRequest{
		Model:       model,
		Messages:    req.Messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("llm: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("llm: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("llm: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("llm: read response: %w", err)
	}

	var parsed openaiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("llm: decode response (status %d): %w", resp.StatusCode, err)
	}

	if parsed.Error != nil {
		return nil, fmt.Errorf("llm: openai error (%s): %s", parsed.Error.Type, parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("llm: openai returned status %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("llm: openai returned no choices")
	}

	return &Response{Content: parsed.Choices[0].Message.Content, Model: parsed.Model}, nil
}

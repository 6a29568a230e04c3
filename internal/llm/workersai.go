package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	workersAIBaseURL = "https://api.cloudflare.com/client/v4"

	// DefaultWorkersAIModel is the model used when the config does not
	// name one.
	DefaultWorkersAIModel = "@cf/meta/llama-3.3-70b-instruct-fp8-fast"
)

// WorkersAIClient implements Provider against the Cloudflare Workers AI
// REST API.
type WorkersAIClient struct {
	accountID string
	apiToken  string
	model     string
	baseURL   string
	limiter   *rate.Limiter
	client    *http.Client
}

// Compile-time check that WorkersAIClient implements Provider.
var _ Provider = (*WorkersAIClient)(nil)

// WorkersAIOptions configures a WorkersAIClient.
type WorkersAIOptions struct {
	AccountID string
	APIToken  string
	Model     string        // Default: DefaultWorkersAIModel
	BaseURL   string        // Override for testing
	MaxRPS    float64       // Requests per second cap; 0 disables limiting
	Timeout   time.Duration // Default: 120s
}

// NewWorkersAIClient creates a new Workers AI client.
func NewWorkersAIClient(opts WorkersAIOptions) *WorkersAIClient {
	if opts.Model == "" {
		opts.Model = DefaultWorkersAIModel
	}
	if opts.BaseURL == "" {
		opts.BaseURL = workersAIBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 120 * time.Second
	}

	c := &WorkersAIClient{
		accountID: opts.AccountID,
		apiToken:  opts.APIToken,
		model:     opts.Model,
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		client:    &http.Client{Timeout: opts.Timeout},
	}
	if opts.MaxRPS > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.MaxRPS), 1)
	}
	return c
}

// Name returns the provider name.
func (c *WorkersAIClient) Name() string { return "workers-ai" }

// workersAIRequest is the request body for the /ai/run endpoint.
type workersAIRequest struct {
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

// workersAIResponse is the standard Cloudflare API envelope.
type workersAIResponse struct {
	Result  workersAIResult  `json:"result"`
	Success bool             `json:"success"`
	Errors  []workersAIError `json:"errors"`
}

type workersAIResult struct {
	Response string `json:"response"`
}

type workersAIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Complete sends a completion request to the Workers AI API.
func (c *WorkersAIClient) Complete(ctx context.Context, req Request) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("llm: rate limit wait: %w", err)
		}
	}

	model := req.Model
	if model == "" {
		model = c.model
	}

	body, err := json.Marshal(workersAIRequest{
		Messages:    req.Messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("llm: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/accounts/%s/ai/run/%s", c.baseURL, c.accountID, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("llm: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("llm: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("llm: read response: %w", err)
	}

	var parsed workersAIResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("llm: decode response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK || !parsed.Success {
		if len(parsed.Errors) > 0 {
			return nil, fmt.Errorf("llm: workers-ai error %d: %s", parsed.Errors[0].Code, parsed.Errors[0].Message)
		}
		return nil, fmt.Errorf("llm: workers-ai returned status %d", resp.StatusCode)
	}

	return &Response{Content: parsed.Result.Response, Model: model}, nil
}

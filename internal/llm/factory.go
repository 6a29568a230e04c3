package llm

import (
	"fmt"
	"time"
)

// ProviderOptions carries the provider-agnostic connection settings.
type ProviderOptions struct {
	AccountID string // Workers AI only
	APIToken  string
	Model     string
	BaseURL   string
	MaxRPS    float64
	Timeout   time.Duration
}

// NewProvider creates a provider client by kind ("workers-ai" or "openai").
// The kind is matched exactly; an empty kind defaults to "workers-ai".
func NewProvider(kind string, opts ProviderOptions) (Provider, error) {
	switch kind {
	case "", "workers-ai":
		return NewWorkersAIClient(WorkersAIOptions{
			AccountID: opts.AccountID,
			APIToken:  opts.APIToken,
			Model:     opts.Model,
			BaseURL:   opts.BaseURL,
			MaxRPS:    opts.MaxRPS,
			Timeout:   opts.Timeout,
		}), nil
	case "openai":
		return NewOpenAIClient(OpenAIOptions{
			APIKey:  opts.APIToken,
			Model:   opts.Model,
			BaseURL: opts.BaseURL,
			MaxRPS:  opts.MaxRPS,
			Timeout: opts.Timeout,
		}), nil
	default:
		return nil, fmt.Errorf("llm: unsupported provider kind: %q", kind)
	}
}

// Package augment turns structured scan findings and session context into
// natural-language text via an external completion provider. Provider
// failures never escape this package: callers always get a string.
package augment

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/0x6d61/websentry/internal/engine"
	"github.com/0x6d61/websentry/internal/llm"
)

// Fixed fallback texts. The empty-completion and provider-error cases are
// deliberately kept distinct.
const (
	scanFallbackEmpty = "AI analysis unavailable"
	scanFallbackError = "AI analysis temporarily unavailable"
	chatFallbackEmpty = "I apologize, but I cannot provide a response at this time. Please try again."
	chatFallbackError = "I apologize, but I am temporarily unavailable. Please try again in a moment."
)

const (
	scanSystemPrompt = "You are a cybersecurity expert analyzing web application security. Provide professional, actionable security assessments."
	chatSystemPrompt = "You are a friendly cybersecurity assistant helping users understand their security scan results. Speak in clear, simple language. Be helpful and educational."

	noScansContext = "No scans performed yet."
)

// Generation bounds per call site.
const (
	scanMaxTokens   = 1000
	scanTemperature = 0.7
	chatMaxTokens   = 500
	chatTemperature = 0.8
)

// Augmenter builds prompts and absorbs provider failures into fixed
// fallback strings.
type Augmenter struct {
	provider llm.Provider
	model    string
	logger   zerolog.Logger
}

// New creates an Augmenter. The model identifier is fixed per instance;
// an empty model falls back to the provider's default.
func New(provider llm.Provider, model string, logger zerolog.Logger) *Augmenter {
	return &Augmenter{provider: provider, model: model, logger: logger}
}

// AugmentScan produces a natural-language assessment of the URL grounded in
// the detected findings. It never fails: empty completions and provider
// errors degrade to fixed texts.
func (a *Augmenter) AugmentScan(ctx context.Context, url string, findings []engine.Finding) string {
	lines := make([]string, 0, len(findings))
	for _, f := range findings {
		lines = append(lines, fmt.Sprintf("- %s (%s): %s", f.Type, f.Severity, f.Description))
	}

	userPrompt := "Analyze this URL for security vulnerabilities: " + url +
		"\n\nAlready detected issues:\n" + strings.Join(lines, "\n") +
		"\n\nProvide additional security insights and recommendations in clear, professional language."

	resp, err := a.provider.Complete(ctx, llm.Request{
		Model: a.model,
		Messages: []llm.Message{
			{Role: "system", Content: scanSystemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens:   scanMaxTokens,
		Temperature: scanTemperature,
	})
	if err != nil {
		a.logger.Warn().Err(err).Str("url", url).Msg("scan augmentation failed")
		return scanFallbackError
	}
	if resp.Content == "" {
		return scanFallbackEmpty
	}
	return resp.Content
}

// AugmentChat produces an assistant reply grounded in the session's recent
// scans and chat history. recentScans and recentTurns are expected to be
// pre-trimmed by the caller (most recent 5 scans, most recent 6 turns).
// It never fails.
func (a *Augmenter) AugmentChat(ctx context.Context, message string, recentScans []engine.ScanRecord, recentTurns []engine.ChatTurn) string {
	scanContext := noScansContext
	if len(recentScans) > 0 {
		lines := make([]string, 0, len(recentScans))
		for _, s := range recentScans {
			lines = append(lines, fmt.Sprintf("- %s (Risk: %s, Vulnerabilities: %d)", s.URL, s.RiskLevel, len(s.Findings)))
		}
		scanContext = "Recent security scans:\n" + strings.Join(lines, "\n")
	}

	messages := make([]llm.Message, 0, len(recentTurns)+2)
	messages = append(messages, llm.Message{
		Role:    "system",
		Content: chatSystemPrompt + "\n\n" + scanContext,
	})
	for _, t := range recentTurns {
		messages = append(messages, llm.Message{Role: string(t.Role), Content: t.Content})
	}
	messages = append(messages, llm.Message{Role: "user", Content: message})

	resp, err := a.provider.Complete(ctx, llm.Request{
		Model:       a.model,
		Messages:    messages,
		MaxTokens:   chatMaxTokens,
		Temperature: chatTemperature,
	})
	if err != nil {
		a.logger.Warn().Err(err).Msg("chat augmentation failed")
		return chatFallbackError
	}
	if resp.Content == "" {
		return chatFallbackEmpty
	}
	return resp.Content
}

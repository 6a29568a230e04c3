package augment

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/0x6d61/websentry/internal/engine"
	"github.com/0x6d61/websentry/internal/llm"
)

// stubProvider records the last request and returns a canned result.
type stubProvider struct {
	lastReq llm.Request
	content string
	err     error
}

func (p *stubProvider) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	p.lastReq = req
	if p.err != nil {
		return nil, p.err
	}
	return &llm.Response{Content: p.content}, nil
}

func (p *stubProvider) Name() string { return "stub" }

func newTestAugmenter(p llm.Provider) *Augmenter {
	return New(p, "test-model", zerolog.Nop())
}

func TestAugmentScan_Success(t *testing.T) {
	p := &stubProvider{content: "looks risky"}
	a := newTestAugmenter(p)

	findings := []engine.Finding{
		{Type: "Insecure Protocol", Severity: engine.SeverityHigh, Description: "Using HTTP instead of HTTPS exposes data in transit"},
	}
	got := a.AugmentScan(context.Background(), "http://example.com/", findings)

	if got != "looks risky" {
		t.Errorf("AugmentScan = %q, want provider content", got)
	}
	if p.lastReq.Model != "test-model" {
		t.Errorf("model = %q, want test-model", p.lastReq.Model)
	}
	if p.lastReq.MaxTokens != 1000 {
		t.Errorf("max tokens = %d, want 1000", p.lastReq.MaxTokens)
	}
	if p.lastReq.Temperature != 0.7 {
		t.Errorf("temperature = %v, want 0.7", p.lastReq.Temperature)
	}
}

func TestAugmentScan_PromptContent(t *testing.T) {
	p := &stubProvider{content: "ok"}
	a := newTestAugmenter(p)

	findings := []engine.Finding{
		{Type: "Insecure Protocol", Severity: engine.SeverityHigh, Description: "Using HTTP instead of HTTPS exposes data in transit"},
		{Type: "Sensitive Endpoint Detected", Severity: engine.SeverityMedium, Description: "Admin or login endpoints should have extra security"},
	}
	a.AugmentScan(context.Background(), "http://example.com/admin", findings)

	msgs := p.lastReq.Messages
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2 (system + user)", len(msgs))
	}
	if msgs[0].Role != "system" || msgs[0].Content != scanSystemPrompt {
		t.Errorf("system message = %+v, want fixed scan system prompt", msgs[0])
	}
	user := msgs[1].Content
	if !strings.Contains(user, "Analyze this URL for security vulnerabilities: http://example.com/admin") {
		t.Errorf("user prompt missing URL line:\n%s", user)
	}
	if !strings.Contains(user, "- Insecure Protocol (HIGH): Using HTTP instead of HTTPS exposes data in transit") {
		t.Errorf("user prompt missing first finding bullet:\n%s", user)
	}
	if !strings.Contains(user, "- Sensitive Endpoint Detected (MEDIUM): Admin or login endpoints should have extra security") {
		t.Errorf("user prompt missing second finding bullet:\n%s", user)
	}
}

func TestAugmentScan_EmptyCompletion(t *testing.T) {
	a := newTestAugmenter(&stubProvider{content: ""})
	got := a.AugmentScan(context.Background(), "https://example.com/", nil)
	if got != "AI analysis unavailable" {
		t.Errorf("AugmentScan(empty completion) = %q, want fixed fallback", got)
	}
}

func TestAugmentScan_ProviderError(t *testing.T) {
	a := newTestAugmenter(&stubProvider{err: errors.New("connection refused")})
	got := a.AugmentScan(context.Background(), "https://example.com/", nil)
	if got != "AI analysis temporarily unavailable" {
		t.Errorf("AugmentScan(provider error) = %q, want fixed fallback", got)
	}
}

func TestAugmentChat_NoScans(t *testing.T) {
	p := &stubProvider{content: "hi"}
	a := newTestAugmenter(p)

	a.AugmentChat(context.Background(), "hello", nil, nil)

	msgs := p.lastReq.Messages
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if !strings.HasSuffix(msgs[0].Content, "No scans performed yet.") {
		t.Errorf("system prompt does not end with the no-scans context line:\n%s", msgs[0].Content)
	}
}

func TestAugmentChat_ScanContext(t *testing.T) {
	p := &stubProvider{content: "hi"}
	a := newTestAugmenter(p)

	scans := []engine.ScanRecord{
		{URL: "http://a.example/", RiskLevel: engine.SeverityHigh, Findings: []engine.Finding{{}, {}}},
		{URL: "https://b.example/", RiskLevel: engine.SeverityLow},
	}
	a.AugmentChat(context.Background(), "what did you find?", scans, nil)

	sys := p.lastReq.Messages[0].Content
	if !strings.Contains(sys, "Recent security scans:") {
		t.Errorf("system prompt missing scan context header:\n%s", sys)
	}
	if !strings.Contains(sys, "- http://a.example/ (Risk: HIGH, Vulnerabilities: 2)") {
		t.Errorf("system prompt missing first scan line:\n%s", sys)
	}
	if !strings.Contains(sys, "- https://b.example/ (Risk: LOW, Vulnerabilities: 0)") {
		t.Errorf("system prompt missing second scan line:\n%s", sys)
	}
	if strings.Contains(sys, "No scans performed yet.") {
		t.Errorf("system prompt contains no-scans line despite scans:\n%s", sys)
	}
}

func TestAugmentChat_MessageAssembly(t *testing.T) {
	p := &stubProvider{content: "hi"}
	a := newTestAugmenter(p)

	turns := []engine.ChatTurn{
		{Role: engine.RoleUser, Content: "first question"},
		{Role: engine.RoleAssistant, Content: "first answer"},
	}
	a.AugmentChat(context.Background(), "second question", nil, turns)

	msgs := p.lastReq.Messages
	if len(msgs) != 4 {
		t.Fatalf("got %d messages, want 4 (system + 2 history + user)", len(msgs))
	}
	if msgs[1].Role != "user" || msgs[1].Content != "first question" {
		t.Errorf("history[0] = %+v", msgs[1])
	}
	if msgs[2].Role != "assistant" || msgs[2].Content != "first answer" {
		t.Errorf("history[1] = %+v", msgs[2])
	}
	if msgs[3].Role != "user" || msgs[3].Content != "second question" {
		t.Errorf("final message = %+v", msgs[3])
	}

	if p.lastReq.MaxTokens != 500 {
		t.Errorf("max tokens = %d, want 500", p.lastReq.MaxTokens)
	}
	if p.lastReq.Temperature != 0.8 {
		t.Errorf("temperature = %v, want 0.8", p.lastReq.Temperature)
	}
}

func TestAugmentChat_EmptyCompletion(t *testing.T) {
	a := newTestAugmenter(&stubProvider{content: ""})
	got := a.AugmentChat(context.Background(), "hello", nil, nil)
	want := "I apologize, but I cannot provide a response at this time. Please try again."
	if got != want {
		t.Errorf("AugmentChat(empty completion) = %q, want %q", got, want)
	}
}

func TestAugmentChat_ProviderError(t *testing.T) {
	a := newTestAugmenter(&stubProvider{err: errors.New("timeout")})
	got := a.AugmentChat(context.Background(), "hello", nil, nil)
	want := "I apologize, but I am temporarily unavailable. Please try again in a moment."
	if got != want {
		t.Errorf("AugmentChat(provider error) = %q, want %q", got, want)
	}
}

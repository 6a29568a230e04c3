package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Context windows handed to the augmenter on a chat turn.
const (
	recentScanWindow = 5
	recentTurnWindow = 6
)

// --------------------------------------------------------------------------
// Interfaces for dependency injection (break import cycles)
// --------------------------------------------------------------------------

// DetectFunc runs pure heuristic detection over a URL string.
type DetectFunc func(url string) []Finding

// Store is the slice of the session store the orchestrator needs.
type Store interface {
	Load(ctx context.Context, sessionID string) (*SessionState, error)
	AppendScan(ctx context.Context, sessionID string, rec ScanRecord) error
	AppendChatTurns(ctx context.Context, sessionID string, user, assistant ChatTurn) error
	History(ctx context.Context, sessionID string) (*SessionState, error)
}

// Augmenter produces natural-language text from findings or session
// context. Implementations never fail; degradation happens inside.
type Augmenter interface {
	AugmentScan(ctx context.Context, url string, findings []Finding) string
	AugmentChat(ctx context.Context, message string, recentScans []ScanRecord, recentTurns []ChatTurn) string
}

// --------------------------------------------------------------------------
// Orchestrator
// --------------------------------------------------------------------------

// Orchestrator composes detection, scoring, augmentation, and the session
// store into the per-session scan and chat operations. Operations on the
// same session id are serialized; different sessions run concurrently.
type Orchestrator struct {
	detect DetectFunc
	aug    Augmenter
	store  Store
	logger zerolog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewOrchestrator creates an orchestrator with all components wired up.
func NewOrchestrator(detect DetectFunc, aug Augmenter, store Store, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		detect: detect,
		aug:    aug,
		store:  store,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
}

// sessionLock returns the mutex serializing operations for one session id.
func (o *Orchestrator) sessionLock(sessionID string) *sync.Mutex {
	o.mu.Lock()
	defer o.mu.Unlock()

	l, ok := o.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		o.locks[sessionID] = l
	}
	return l
}

// InitSession ensures a loadable state exists for the session. It is
// idempotent: a new session simply loads empty.
func (o *Orchestrator) InitSession(ctx context.Context, sessionID string) error {
	l := o.sessionLock(sessionID)
	l.Lock()
	defer l.Unlock()

	if _, err := o.store.Load(ctx, sessionID); err != nil {
		return fmt.Errorf("engine: init session: %w", err)
	}
	return nil
}

// Scan runs the full pipeline against a URL and appends the result to the
// session's scan log.
//
// Pipeline:
//  1. Heuristic detection over the URL string
//  2. Risk scoring and classification
//  3. AI augmentation (cannot fail the operation)
//  4. Build the record and persist it durably
//
// The operation is total with respect to its input: any URL, including an
// empty string, produces a well-formed record. Only storage failure is
// returned as an error.
func (o *Orchestrator) Scan(ctx context.Context, sessionID, url string) (*ScanRecord, error) {
	l := o.sessionLock(sessionID)
	l.Lock()
	defer l.Unlock()

	findings := o.detect(url)
	score := RiskScore(findings)
	level := ClassifyRisk(score)

	analysis := o.aug.AugmentScan(ctx, url, findings)

	now := time.Now()
	rec := ScanRecord{
		URL:        url,
		Timestamp:  now.UnixMilli(),
		Findings:   findings,
		AIAnalysis: analysis,
		RiskScore:  score,
		RiskLevel:  level,
		ScannedAt:  now.UTC().Format(time.RFC3339),
	}

	if err := o.store.AppendScan(ctx, sessionID, rec); err != nil {
		return nil, fmt.Errorf("engine: persist scan: %w", err)
	}

	o.logger.Info().
		Str("session", sessionID).
		Str("url", url).
		Int("findings", len(findings)).
		Int("risk_score", score).
		Str("risk_level", string(level)).
		Msg("scan completed")

	return &rec, nil
}

// Chat produces an assistant reply grounded in the session's recent scans
// and chat history, then appends both turns to the chat log. Only storage
// failure is returned as an error.
func (o *Orchestrator) Chat(ctx context.Context, sessionID, message string) (string, error) {
	l := o.sessionLock(sessionID)
	l.Lock()
	defer l.Unlock()

	state, err := o.store.Load(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("engine: load session: %w", err)
	}

	recentScans := state.Scans
	if len(recentScans) > recentScanWindow {
		recentScans = recentScans[len(recentScans)-recentScanWindow:]
	}
	recentTurns := state.ChatHistory
	if len(recentTurns) > recentTurnWindow {
		recentTurns = recentTurns[len(recentTurns)-recentTurnWindow:]
	}

	response := o.aug.AugmentChat(ctx, message, recentScans, recentTurns)

	err = o.store.AppendChatTurns(ctx, sessionID,
		ChatTurn{Role: RoleUser, Content: message},
		ChatTurn{Role: RoleAssistant, Content: response},
	)
	if err != nil {
		return "", fmt.Errorf("engine: persist chat: %w", err)
	}

	o.logger.Info().
		Str("session", sessionID).
		Int("context_scans", len(recentScans)).
		Msg("chat turn completed")

	return response, nil
}

// History returns the session's current scan and chat logs without
// mutation.
func (o *Orchestrator) History(ctx context.Context, sessionID string) (*SessionState, error) {
	l := o.sessionLock(sessionID)
	l.Lock()
	defer l.Unlock()

	state, err := o.store.History(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("engine: read history: %w", err)
	}
	return state, nil
}

// Package session provides durable, per-session, bounded, ordered logs of
// scans and chat turns.
package session

import (
	"context"
	"time"

	"github.com/0x6d61/websentry/internal/engine"
)

// Retention bounds. When an append would exceed a bound, the oldest entries
// are dropped until the log fits. The chat bound counts turns, not
// exchanges (one exchange appends two turns).
const (
	MaxScans     = 50
	MaxChatTurns = 20
)

// Storage keys within a session.
const (
	keyScans       = "scans"
	keyChatHistory = "chatHistory"
)

// Summary is a lightweight overview of one stored session.
type Summary struct {
	SessionID string    `json:"session_id"`
	ScanCount int       `json:"scan_count"`
	ChatTurns int       `json:"chat_turns"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store persists and retrieves per-session state. Implementations must be
// safe for concurrent use across sessions; callers serialize operations
// within a single session.
type Store interface {
	// Load returns the persisted state for the session, or an empty state
	// if none exists.
	Load(ctx context.Context, sessionID string) (*engine.SessionState, error)

	// AppendScan appends the record to the session's scan log, trims it to
	// MaxScans, and persists the result durably.
	AppendScan(ctx context.Context, sessionID string, rec engine.ScanRecord) error

	// AppendChatTurns appends the user turn then the assistant turn, trims
	// the log to MaxChatTurns, and persists the result durably.
	AppendChatTurns(ctx context.Context, sessionID string, user, assistant engine.ChatTurn) error

	// History returns the current view of the session without mutation.
	History(ctx context.Context, sessionID string) (*engine.SessionState, error)

	// Sessions lists all stored sessions, most recently updated first.
	Sessions(ctx context.Context) ([]Summary, error)

	Close() error
}

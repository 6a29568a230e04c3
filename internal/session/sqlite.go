package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/0x6d61/websentry/internal/engine"
)

// SQLiteStore implements Store using SQLite via modernc.org/sqlite (pure Go).
// Each session holds one row per logical key ("scans", "chatHistory") with
// the full log serialized as JSON, mirroring a keyed durable-object layout.
type SQLiteStore struct {
	db *sql.DB
}

// Compile-time check that SQLiteStore implements Store.
var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLite-backed store.
// dbPath is the path to the SQLite database file; use ":memory:" for testing.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("session: open database: %w", err)
	}

	// Single connection: appends are read-modify-write and SQLite allows
	// one writer at a time.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("session: ping database: %w", err)
	}

	createTableSQL := `
		CREATE TABLE IF NOT EXISTS session_logs (
			session_id  TEXT NOT NULL,
			key         TEXT NOT NULL,
			value_json  TEXT NOT NULL,
			updated_at  TEXT NOT NULL,
			PRIMARY KEY (session_id, key)
		);
	`
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("session: create table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Load returns the persisted state for the session, or an empty state if
// none exists.
func (s *SQLiteStore) Load(ctx context.Context, sessionID string) (*engine.SessionState, error) {
	state := &engine.SessionState{
		Scans:       []engine.ScanRecord{},
		ChatHistory: []engine.ChatTurn{},
	}

	if err := s.get(ctx, sessionID, keyScans, &state.Scans); err != nil {
		return nil, err
	}
	if err := s.get(ctx, sessionID, keyChatHistory, &state.ChatHistory); err != nil {
		return nil, err
	}

	return state, nil
}

// AppendScan appends rec to the session's scan log, drops the oldest
// entries beyond MaxScans, and persists the full log.
func (s *SQLiteStore) AppendScan(ctx context.Context, sessionID string, rec engine.ScanRecord) error {
	var scans []engine.ScanRecord
	if err := s.get(ctx, sessionID, keyScans, &scans); err != nil {
		return err
	}

	scans = append(scans, rec)
	if len(scans) > MaxScans {
		scans = scans[len(scans)-MaxScans:]
	}

	return s.put(ctx, sessionID, keyScans, scans)
}

// AppendChatTurns appends the user turn then the assistant turn, drops the
// oldest entries beyond MaxChatTurns, and persists the full log.
func (s *SQLiteStore) AppendChatTurns(ctx context.Context, sessionID string, user, assistant engine.ChatTurn) error {
	var turns []engine.ChatTurn
	if err := s.get(ctx, sessionID, keyChatHistory, &turns); err != nil {
		return err
	}

	turns = append(turns, user, assistant)
	if len(turns) > MaxChatTurns {
		turns = turns[len(turns)-MaxChatTurns:]
	}

	return s.put(ctx, sessionID, keyChatHistory, turns)
}

// History returns the current view of the session without mutation.
func (s *SQLiteStore) History(ctx context.Context, sessionID string) (*engine.SessionState, error) {
	return s.Load(ctx, sessionID)
}

// get reads and unmarshals one keyed log. Missing rows leave dst untouched.
func (s *SQLiteStore) get(ctx context.Context, sessionID, key string, dst interface{}) error {
	query := `SELECT value_json FROM session_logs WHERE session_id = ? AND key = ?`
	row := s.db.QueryRowContext(ctx, query, sessionID, key)

	var valueJSON string
	if err := row.Scan(&valueJSON); err != nil {
		if err == sql.ErrNoRows {
			return nil
		}
		return fmt.Errorf("session: read %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(valueJSON), dst); err != nil {
		return fmt.Errorf("session: unmarshal %s: %w", key, err)
	}
	return nil
}

// put serializes and upserts one keyed log.
func (s *SQLiteStore) put(ctx context.Context, sessionID, key string, value interface{}) error {
	valueJSON, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("session: marshal %s: %w", key, err)
	}

	query := `
		INSERT INTO session_logs (session_id, key, value_json, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id, key) DO UPDATE SET
			value_json = excluded.value_json,
			updated_at = excluded.updated_at
	`
	_, err = s.db.ExecContext(ctx, query,
		sessionID,
		key,
		string(valueJSON),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("session: write %s: %w", key, err)
	}
	return nil
}

// Sessions lists all stored sessions, most recently updated first.
func (s *SQLiteStore) Sessions(ctx context.Context) ([]Summary, error) {
	query := `
		SELECT session_id, MAX(updated_at)
		FROM session_logs
		GROUP BY session_id
		ORDER BY MAX(updated_at) DESC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("session: list sessions: %w", err)
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var (
			summary   Summary
			updatedAt string
		)
		if err := rows.Scan(&summary.SessionID, &updatedAt); err != nil {
			return nil, fmt.Errorf("session: scan summary row: %w", err)
		}
		t, err := time.Parse(time.RFC3339, updatedAt)
		if err != nil {
			return nil, fmt.Errorf("session: parse updated_at %q: %w", updatedAt, err)
		}
		summary.UpdatedAt = t
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("session: iterate rows: %w", err)
	}

	// Fill in log lengths per session.
	for i := range summaries {
		state, err := s.Load(ctx, summaries[i].SessionID)
		if err != nil {
			return nil, err
		}
		summaries[i].ScanCount = len(state.Scans)
		summaries[i].ChatTurns = len(state.ChatHistory)
	}

	return summaries, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

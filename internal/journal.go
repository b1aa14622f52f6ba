package internal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const journalSchema = `
CREATE TABLE IF NOT EXISTS prompts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	model TEXT NOT NULL,
	prompt TEXT NOT NULL,
	created_at INTEGER NOT NULL
)`

// JournalEntry is one recorded prompt
type JournalEntry struct {
	ID        int64     `json:"id" yaml:"id"`
	SessionID string    `json:"session_id" yaml:"session_id"`
	Model     string    `json:"model" yaml:"model"`
	Prompt    string    `json:"prompt" yaml:"prompt"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Journal records submitted prompts in a SQLite database. Every Journal
// value tags its entries with its own session id.
type Journal struct {
	db        *sql.DB
	sessionID string
	now       func() time.Time
}

// OpenJournal opens (creating if needed) the journal database at path
func OpenJournal(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	db.SetMaxOpenConns(1)

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal ping failed: %w", err)
	}

	j, err := NewJournal(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return j, nil
}

// NewJournal wraps an open database, creating the schema when missing
func NewJournal(db *sql.DB) (*Journal, error) {
	if _, err := db.Exec(journalSchema); err != nil {
		return nil, fmt.Errorf("failed to create journal schema: %w", err)
	}
	return &Journal{
		db:        db,
		sessionID: uuid.NewString(),
		now:       time.Now,
	}, nil
}

// SessionID returns the id attached to entries recorded through j
func (j *Journal) SessionID() string {
	return j.sessionID
}

// Record implements PromptRecorder
func (j *Journal) Record(ctx context.Context, modelID, prompt string) error {
	_, err := j.db.ExecContext(ctx,
		"INSERT INTO prompts (session_id, model, prompt, created_at) VALUES (?, ?, ?, ?)",
		j.sessionID, modelID, prompt, j.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to record prompt: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first
func (j *Journal) Recent(ctx context.Context, limit int) ([]JournalEntry, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := j.db.QueryContext(ctx,
		"SELECT id, session_id, model, prompt, created_at FROM prompts ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var entries []JournalEntry
	for rows.Next() {
		var e JournalEntry
		var created int64
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Model, &e.Prompt, &created); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		e.CreatedAt = time.UnixMilli(created)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return entries, nil
}

// Close closes the underlying database
func (j *Journal) Close() error {
	return j.db.Close()
}

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hackrx/chatgateway/domain"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			title TEXT NOT NULL DEFAULT 'New Chat',
			message_count INTEGER NOT NULL DEFAULT 0,
			last_activity DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			is_active INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_activity ON sessions(is_active, last_activity)`,
		`CREATE TABLE IF NOT EXISTS messages (
			message_id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			message TEXT NOT NULL,
			response TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			metadata TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, created_at)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping checks database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// CreateSession creates a new session.
func (s *SQLiteStore) CreateSession(ctx context.Context, session *domain.Session) error {
	if session.Title == "" {
		session.Title = domain.DefaultSessionTitle
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (session_id, title, message_count, last_activity, is_active, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		session.SessionID, session.Title, session.MessageCount, session.LastActivity, session.IsActive, session.CreatedAt)
	if err != nil {
		return &domain.PersistenceError{Op: "create session", Err: err}
	}
	return nil
}

// GetSession retrieves a session by ID. Returns nil without error when
// the session does not exist.
func (s *SQLiteStore) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	var session domain.Session
	err := s.db.QueryRowContext(ctx,
		`SELECT session_id, title, message_count, last_activity, is_active, created_at FROM sessions WHERE session_id = ?`,
		sessionID).Scan(&session.SessionID, &session.Title, &session.MessageCount, &session.LastActivity, &session.IsActive, &session.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.PersistenceError{Op: "get session", Err: err}
	}
	return &session, nil
}

// TouchSession increments the message counter and refreshes last activity,
// creating the session first if it does not exist. The upsert makes
// concurrent first messages for the same id converge on a single record.
func (s *SQLiteStore) TouchSession(ctx context.Context, sessionID string, incrementBy int) error {
	now := time.Now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (session_id, title, message_count, last_activity, is_active, created_at)
		 VALUES (?, ?, ?, ?, 1, ?)
		 ON CONFLICT(session_id) DO UPDATE SET
			message_count = message_count + excluded.message_count,
			last_activity = excluded.last_activity`,
		sessionID, domain.DefaultSessionTitle, incrementBy, now, now)
	if err != nil {
		return &domain.PersistenceError{Op: "touch session", Err: err}
	}
	return nil
}

// ListActiveSessions lists active sessions ordered by most recent activity.
func (s *SQLiteStore) ListActiveSessions(ctx context.Context, limit int) ([]domain.Session, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, title, message_count, last_activity, is_active, created_at
		 FROM sessions WHERE is_active = 1 ORDER BY last_activity DESC LIMIT ?`, limit)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list sessions", Err: err}
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		var session domain.Session
		if err := rows.Scan(&session.SessionID, &session.Title, &session.MessageCount, &session.LastActivity, &session.IsActive, &session.CreatedAt); err != nil {
			return nil, &domain.PersistenceError{Op: "list sessions", Err: err}
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.PersistenceError{Op: "list sessions", Err: err}
	}
	return sessions, nil
}

// CreateMessage writes an immutable message record.
func (s *SQLiteStore) CreateMessage(ctx context.Context, message *domain.Message) error {
	if message.Message == "" {
		return &domain.ValidationError{Field: "message"}
	}
	if message.Response == "" {
		return &domain.ValidationError{Field: "response"}
	}

	var metadata sql.NullString
	if len(message.Metadata) > 0 {
		metadata = sql.NullString{String: string(message.Metadata), Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (message_id, session_id, message, response, created_at, metadata) VALUES (?, ?, ?, ?, ?, ?)`,
		message.MessageID, message.SessionID, message.Message, message.Response, message.Timestamp, metadata)
	if err != nil {
		return &domain.PersistenceError{Op: "create message", Err: err}
	}
	return nil
}

// GetHistory retrieves one page of a session's transcript together with
// the full message count. The page is selected newest-first with the
// given limit and offset, then reversed so callers receive oldest-first.
func (s *SQLiteStore) GetHistory(ctx context.Context, sessionID string, limit, offset int) ([]domain.Message, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT message_id, session_id, message, response, created_at, metadata
		 FROM messages WHERE session_id = ?
		 ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		sessionID, limit, offset)
	if err != nil {
		return nil, 0, &domain.PersistenceError{Op: "get history", Err: err}
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		var metadata sql.NullString
		if err := rows.Scan(&msg.MessageID, &msg.SessionID, &msg.Message, &msg.Response, &msg.Timestamp, &metadata); err != nil {
			return nil, 0, &domain.PersistenceError{Op: "get history", Err: err}
		}
		if metadata.Valid {
			msg.Metadata = []byte(metadata.String)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, &domain.PersistenceError{Op: "get history", Err: err}
	}

	// Reverse to oldest-first for display
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE session_id = ?`, sessionID).Scan(&total); err != nil {
		return nil, 0, &domain.PersistenceError{Op: "count messages", Err: err}
	}

	return messages, total, nil
}

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore persists assistant state in a local SQLite file. It is the
// client-side durable store for single-machine deployments.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite ping: %w", err)
	}

	if err := initSQLiteSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func initSQLiteSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			user_id TEXT PRIMARY KEY,
			email TEXT NOT NULL,
			name TEXT NOT NULL,
			logged_in INTEGER NOT NULL DEFAULT 0,
			updated_at TIMESTAMP NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS chat_sessions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			messages TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_chat_sessions_user_created ON chat_sessions (user_id, created_at);`,
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			gender TEXT NOT NULL,
			event_date TEXT NOT NULL,
			event_name TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_user_created ON events (user_id, created_at);`,
		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			order_date TEXT NOT NULL,
			status TEXT NOT NULL,
			total REAL NOT NULL,
			item_count INTEGER NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init sqlite schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *SQLiteStore) SaveProfile(ctx context.Context, p Profile) error {
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO profiles (user_id, email, name, logged_in, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   email=excluded.email, name=excluded.name,
		   logged_in=excluded.logged_in, updated_at=excluded.updated_at`,
		p.UserID, p.Email, p.Name, boolToInt(p.LoggedIn), p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Profile(ctx context.Context, userID string) (Profile, error) {
	var (
		p        Profile
		loggedIn int
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, email, name, logged_in, updated_at FROM profiles WHERE user_id = ?`,
		userID,
	).Scan(&p.UserID, &p.Email, &p.Name, &loggedIn, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	if err != nil {
		return Profile{}, fmt.Errorf("load profile: %w", err)
	}
	p.LoggedIn = loggedIn != 0
	return p, nil
}

func (s *SQLiteStore) SaveChatSession(ctx context.Context, sess ChatSession, limit int) error {
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(sess.Messages)
	if err != nil {
		return fmt.Errorf("marshal messages: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO chat_sessions (id, user_id, title, created_at, messages)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   title=excluded.title, created_at=excluded.created_at, messages=excluded.messages`,
		sess.ID, sess.UserID, sess.Title, sess.CreatedAt, string(payload),
	)
	if err != nil {
		return fmt.Errorf("save chat session: %w", err)
	}

	if limit > 0 {
		_, err = s.db.ExecContext(ctx,
			`DELETE FROM chat_sessions WHERE user_id = ? AND id NOT IN (
				SELECT id FROM chat_sessions WHERE user_id = ?
				ORDER BY created_at DESC LIMIT ?
			)`,
			sess.UserID, sess.UserID, limit,
		)
		if err != nil {
			return fmt.Errorf("trim chat sessions: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) ChatSessions(ctx context.Context, userID string) ([]ChatSession, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, title, created_at, messages FROM chat_sessions
		 WHERE user_id = ? ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query chat sessions: %w", err)
	}
	defer rows.Close()

	var out []ChatSession
	for rows.Next() {
		var (
			sess    ChatSession
			payload string
		)
		if err := rows.Scan(&sess.ID, &sess.UserID, &sess.Title, &sess.CreatedAt, &payload); err != nil {
			return nil, fmt.Errorf("scan chat session: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &sess.Messages); err != nil {
			return nil, fmt.Errorf("decode chat session %s: %w", sess.ID, err)
		}
		out = append(out, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chat sessions: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) AppendEvent(ctx context.Context, e Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (id, user_id, gender, event_date, event_name, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.Gender, e.Date, e.Event, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Events(ctx context.Context, userID string) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, gender, event_date, event_name, created_at FROM events
		 WHERE user_id = ? ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.UserID, &e.Gender, &e.Date, &e.Event, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) SaveOrder(ctx context.Context, o Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO orders (id, user_id, order_date, status, total, item_count)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		o.ID, o.UserID, o.Date, o.Status, o.Total, o.ItemCount,
	)
	if err != nil {
		return fmt.Errorf("save order: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Orders(ctx context.Context, userID string) ([]Order, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, order_date, status, total, item_count FROM orders
		 WHERE user_id = ? ORDER BY order_date DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Date, &o.Status, &o.Total, &o.ItemCount); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

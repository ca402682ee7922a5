package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists assistant state in PostgreSQL for shared deployments.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := initPostgresSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &PostgresStore{pool: pool}, nil
}

func initPostgresSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			user_id TEXT PRIMARY KEY,
			email TEXT NOT NULL,
			name TEXT NOT NULL,
			logged_in BOOLEAN NOT NULL DEFAULT FALSE,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE TABLE IF NOT EXISTS chat_sessions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			messages JSONB NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_chat_sessions_user_created ON chat_sessions (user_id, created_at);`,
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			gender TEXT NOT NULL,
			event_date TEXT NOT NULL,
			event_name TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_user_created ON events (user_id, created_at);`,
		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			order_date TEXT NOT NULL,
			status TEXT NOT NULL,
			total DOUBLE PRECISION NOT NULL,
			item_count INTEGER NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *PostgresStore) SaveProfile(ctx context.Context, p Profile) error {
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO profiles (user_id, email, name, logged_in, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id) DO UPDATE SET
		   email=EXCLUDED.email, name=EXCLUDED.name,
		   logged_in=EXCLUDED.logged_in, updated_at=EXCLUDED.updated_at`,
		p.UserID, p.Email, p.Name, p.LoggedIn, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (s *PostgresStore) Profile(ctx context.Context, userID string) (Profile, error) {
	var p Profile
	err := s.pool.QueryRow(ctx,
		`SELECT user_id, email, name, logged_in, updated_at FROM profiles WHERE user_id=$1`,
		userID,
	).Scan(&p.UserID, &p.Email, &p.Name, &p.LoggedIn, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	if err != nil {
		return Profile{}, fmt.Errorf("load profile: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) SaveChatSession(ctx context.Context, sess ChatSession, limit int) error {
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

	_, err = s.pool.Exec(ctx,
		`INSERT INTO chat_sessions (id, user_id, title, created_at, messages)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE SET
		   title=EXCLUDED.title, created_at=EXCLUDED.created_at, messages=EXCLUDED.messages`,
		sess.ID, sess.UserID, sess.Title, sess.CreatedAt, payload,
	)
	if err != nil {
		return fmt.Errorf("save chat session: %w", err)
	}

	if limit > 0 {
		_, err = s.pool.Exec(ctx,
			`DELETE FROM chat_sessions WHERE user_id=$1 AND id NOT IN (
				SELECT id FROM chat_sessions WHERE user_id=$1
				ORDER BY created_at DESC LIMIT $2
			)`,
			sess.UserID, limit,
		)
		if err != nil {
			return fmt.Errorf("trim chat sessions: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) ChatSessions(ctx context.Context, userID string) ([]ChatSession, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, title, created_at, messages FROM chat_sessions
		 WHERE user_id=$1 ORDER BY created_at DESC`,
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
			payload []byte
		)
		if err := rows.Scan(&sess.ID, &sess.UserID, &sess.Title, &sess.CreatedAt, &payload); err != nil {
			return nil, fmt.Errorf("scan chat session: %w", err)
		}
		if err := json.Unmarshal(payload, &sess.Messages); err != nil {
			return nil, fmt.Errorf("decode chat session %s: %w", sess.ID, err)
		}
		out = append(out, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chat sessions: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) AppendEvent(ctx context.Context, e Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO events (id, user_id, gender, event_date, event_name, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.UserID, e.Gender, e.Date, e.Event, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

func (s *PostgresStore) Events(ctx context.Context, userID string) ([]Event, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, gender, event_date, event_name, created_at FROM events
		 WHERE user_id=$1 ORDER BY created_at DESC`,
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

func (s *PostgresStore) SaveOrder(ctx context.Context, o Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO orders (id, user_id, order_date, status, total, item_count)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		o.ID, o.UserID, o.Date, o.Status, o.Total, o.ItemCount,
	)
	if err != nil {
		return fmt.Errorf("save order: %w", err)
	}
	return nil
}

func (s *PostgresStore) Orders(ctx context.Context, userID string) ([]Order, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, order_date, status, total, item_count FROM orders
		 WHERE user_id=$1 ORDER BY order_date DESC, id DESC`,
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

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

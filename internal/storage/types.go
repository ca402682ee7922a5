package storage

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("record not found")

// Profile holds the identity fields persisted after a successful login.
type Profile struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	LoggedIn  bool      `json:"logged_in"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChatMessage is the durable shape of one transcript entry. Presentation
// details (products, option buttons) stay in the live widget; history keeps
// only what is needed to replay a conversation.
type ChatMessage struct {
	Text     string    `json:"text"`
	FromUser bool      `json:"from_user"`
	SentAt   time.Time `json:"sent_at"`
}

// ChatSession is a snapshot of a widget transcript.
type ChatSession struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id"`
	Title     string        `json:"title"`
	CreatedAt time.Time     `json:"created_at"`
	Messages  []ChatMessage `json:"messages"`
}

// Event is a saved calendar event. Dates are immutable after creation;
// reminders are computed from Date, never stored.
type Event struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Gender    string    `json:"gender"`
	Date      string    `json:"date"` // YYYY-MM-DD
	Event     string    `json:"event"`
	CreatedAt time.Time `json:"created_at"`
}

// Order is one entry of the locally persisted order history.
type Order struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	Date      string  `json:"date"` // YYYY-MM-DD
	Status    string  `json:"status"`
	Total     float64 `json:"total"`
	ItemCount int     `json:"item_count"`
}

// Store persists per-user assistant state: identity, chat history, calendar
// events and orders. Chat sessions are kept newest first and capped; events
// and orders are append-only.
type Store interface {
	SaveProfile(ctx context.Context, p Profile) error
	Profile(ctx context.Context, userID string) (Profile, error)

	SaveChatSession(ctx context.Context, s ChatSession, limit int) error
	ChatSessions(ctx context.Context, userID string) ([]ChatSession, error)

	AppendEvent(ctx context.Context, e Event) error
	Events(ctx context.Context, userID string) ([]Event, error)

	SaveOrder(ctx context.Context, o Order) error
	Orders(ctx context.Context, userID string) ([]Order, error)

	Close() error
}

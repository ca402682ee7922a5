// Package session tracks live widget sessions and expires the inactive
// ones.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fashionpulse/assistant/internal/observability"
	"github.com/fashionpulse/assistant/internal/widget"
)

type Status string

const (
	StatusActive Status = "active"
	StatusEnded  Status = "ended"
)

var ErrNotFound = errors.New("session not found")

// Session is the registry's view of one widget session.
type Session struct {
	ID             string    `json:"session_id"`
	UserID         string    `json:"user_id"`
	Status         Status    `json:"status"`
	StartedAt      time.Time `json:"started_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
}

type record struct {
	meta   *Session
	engine *widget.Widget
}

// Factory builds the widget engine backing a new session.
type Factory func(userID string) *widget.Widget

type Manager struct {
	mu                sync.RWMutex
	records           map[string]*record
	sessionByUser     map[string]string
	inactivityTimeout time.Duration
	factory           Factory
	metrics           *observability.Metrics
	onExpire          func(*Session)
}

func NewManager(inactivityTimeout time.Duration, factory Factory, metrics *observability.Metrics) *Manager {
	if inactivityTimeout <= 0 {
		inactivityTimeout = 30 * time.Minute
	}
	return &Manager{
		records:           make(map[string]*record),
		sessionByUser:     make(map[string]string),
		inactivityTimeout: inactivityTimeout,
		factory:           factory,
		metrics:           metrics,
	}
}

func (m *Manager) SetExpireHook(hook func(*Session)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onExpire = hook
}

// Create builds a widget for the user and registers it. The session id is
// the widget's id.
func (m *Manager) Create(userID string) *Session {
	engine := m.factory(userID)
	now := time.Now().UTC()
	s := &Session{
		ID:             engine.ID(),
		UserID:         engine.UserID(),
		Status:         StatusActive,
		StartedAt:      now,
		LastActivityAt: now,
	}

	m.mu.Lock()
	m.records[s.ID] = &record{meta: s, engine: engine}
	if userID != "" {
		m.sessionByUser[userID] = s.ID
	}
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.ActiveSessions.Inc()
		m.metrics.SessionEvents.WithLabelValues("created").Inc()
	}
	return clone(s)
}

func (m *Manager) Get(sessionID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.records[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(r.meta), nil
}

// Widget returns the live engine for an active session.
func (m *Manager) Widget(sessionID string) (*widget.Widget, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.records[sessionID]
	if !ok || r.meta.Status != StatusActive {
		return nil, ErrNotFound
	}
	return r.engine, nil
}

func (m *Manager) Touch(sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[sessionID]
	if !ok {
		return ErrNotFound
	}
	r.meta.LastActivityAt = time.Now().UTC()
	return nil
}

func (m *Manager) End(sessionID string) (*Session, error) {
	m.mu.Lock()
	r, ok := m.records[sessionID]
	if !ok {
		m.mu.Unlock()
		return nil, ErrNotFound
	}
	wasActive := r.meta.Status == StatusActive
	r.meta.Status = StatusEnded
	r.meta.LastActivityAt = time.Now().UTC()
	if r.meta.UserID != "" {
		delete(m.sessionByUser, r.meta.UserID)
	}
	out := clone(r.meta)
	engine := r.engine
	m.mu.Unlock()

	engine.Close()

	if wasActive && m.metrics != nil {
		m.metrics.ActiveSessions.Dec()
		m.metrics.SessionEvents.WithLabelValues("ended").Inc()
	}
	return out, nil
}

func (m *Manager) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.expireInactive()
			}
		}
	}()
}

func (m *Manager) ActiveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, r := range m.records {
		if r.meta.Status == StatusActive {
			count++
		}
	}
	return count
}

func (m *Manager) expireInactive() {
	now := time.Now().UTC()
	var expired []*Session
	var engines []*widget.Widget

	m.mu.Lock()
	for _, r := range m.records {
		s := r.meta
		if s.Status != StatusActive {
			continue
		}
		if now.Sub(s.LastActivityAt) < m.inactivityTimeout {
			continue
		}
		s.Status = StatusEnded
		s.LastActivityAt = now
		expired = append(expired, clone(s))
		engines = append(engines, r.engine)
		if s.UserID != "" {
			delete(m.sessionByUser, s.UserID)
		}
	}
	hook := m.onExpire
	m.mu.Unlock()

	for _, e := range engines {
		e.Close()
	}

	for _, s := range expired {
		if m.metrics != nil {
			m.metrics.ActiveSessions.Dec()
			m.metrics.SessionEvents.WithLabelValues("expired").Inc()
		}
		if hook != nil {
			hook(s)
		}
	}
}

func clone(s *Session) *Session {
	c := *s
	return &c
}

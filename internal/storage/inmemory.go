package storage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryStore is a simple in-process store for local/dev use and tests.
type InMemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]Profile
	sessions map[string][]ChatSession
	events   map[string][]Event
	orders   map[string][]Order
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		profiles: make(map[string]Profile),
		sessions: make(map[string][]ChatSession),
		events:   make(map[string][]Event),
		orders:   make(map[string][]Order),
	}
}

func (s *InMemoryStore) SaveProfile(_ context.Context, p Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now().UTC()
	}
	s.profiles[p.UserID] = p
	return nil
}

func (s *InMemoryStore) Profile(_ context.Context, userID string) (Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return p, nil
}

// SaveChatSession prepends the snapshot and drops anything beyond limit.
// A snapshot with an already-stored ID replaces that entry in place so
// repeated auto-saves of the same conversation do not multiply.
func (s *InMemoryStore) SaveChatSession(_ context.Context, sess ChatSession, limit int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = time.Now().UTC()
	}

	existing := s.sessions[sess.UserID]
	kept := make([]ChatSession, 0, len(existing)+1)
	kept = append(kept, sess)
	for _, old := range existing {
		if old.ID == sess.ID {
			continue
		}
		kept = append(kept, old)
	}
	if limit > 0 && len(kept) > limit {
		kept = kept[:limit]
	}
	s.sessions[sess.UserID] = kept
	return nil
}

func (s *InMemoryStore) ChatSessions(_ context.Context, userID string) ([]ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	arr := s.sessions[userID]
	out := make([]ChatSession, len(arr))
	copy(out, arr)
	return out, nil
}

func (s *InMemoryStore) AppendEvent(_ context.Context, e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	s.events[e.UserID] = append([]Event{e}, s.events[e.UserID]...)
	return nil
}

func (s *InMemoryStore) Events(_ context.Context, userID string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	arr := s.events[userID]
	out := make([]Event, len(arr))
	copy(out, arr)
	return out, nil
}

func (s *InMemoryStore) SaveOrder(_ context.Context, o Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	s.orders[o.UserID] = append([]Order{o}, s.orders[o.UserID]...)
	return nil
}

func (s *InMemoryStore) Orders(_ context.Context, userID string) ([]Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	arr := s.orders[userID]
	out := make([]Order, len(arr))
	copy(out, arr)
	return out, nil
}

func (s *InMemoryStore) Close() error { return nil }

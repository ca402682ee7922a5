package agent

import (
	"context"
	"fmt"
	"sync"
)

// MockAdapter is a scripted agent for tests and offline runs. Replies are
// consumed in order; when the script runs out it echoes the message.
type MockAdapter struct {
	mu       sync.Mutex
	script   []Reply
	err      error
	requests []string
}

func NewMockAdapter(script ...Reply) *MockAdapter {
	return &MockAdapter{script: script}
}

// Fail makes every Send return err until cleared with Fail(nil).
func (m *MockAdapter) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockAdapter) Enqueue(r Reply) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, r)
}

func (m *MockAdapter) Send(_ context.Context, message string) (Reply, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, message)
	if m.err != nil {
		return Reply{}, m.err
	}
	if len(m.script) > 0 {
		r := m.script[0]
		m.script = m.script[1:]
		return r, nil
	}
	return Reply{Text: fmt.Sprintf("echo: %s", message)}, nil
}

// Requests returns every message sent so far.
func (m *MockAdapter) Requests() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.requests))
	copy(out, m.requests)
	return out
}

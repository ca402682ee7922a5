package catalog

import (
	"context"
	"fmt"
	"sync"
)

// MockClient serves canned product details for tests and offline runs.
type MockClient struct {
	mu       sync.Mutex
	products map[string]Details
	failAll  bool
	lookups  []string
}

func NewMockClient() *MockClient {
	return &MockClient{products: make(map[string]Details)}
}

func (m *MockClient) Add(id string, d Details) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[id] = d
}

// FailAll makes every lookup return an error, simulating an unreachable
// catalog service.
func (m *MockClient) FailAll(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failAll = fail
}

func (m *MockClient) Product(_ context.Context, id string) (Details, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups = append(m.lookups, id)
	if m.failAll {
		return Details{}, fmt.Errorf("mock catalog down")
	}
	d, ok := m.products[id]
	if !ok {
		return Details{}, fmt.Errorf("mock catalog: no product %s", id)
	}
	return d, nil
}

// Lookups returns the product ids requested so far.
func (m *MockClient) Lookups() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.lookups))
	copy(out, m.lookups)
	return out
}

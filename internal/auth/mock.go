package auth

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MockService is an in-memory auth backend for tests and offline runs.
type MockService struct {
	mu     sync.Mutex
	users  map[string]mockUser // email -> record
	tokens map[string]string   // reset token -> email
	err    error
}

type mockUser struct {
	name     string
	password string
}

func NewMockService() *MockService {
	return &MockService{
		users:  make(map[string]mockUser),
		tokens: make(map[string]string),
	}
}

func (m *MockService) AddUser(email, name, password string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[email] = mockUser{name: name, password: password}
}

// Fail makes every call return err until cleared with Fail(nil).
func (m *MockService) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockService) Login(_ context.Context, email, password string) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return User{}, m.err
	}
	u, ok := m.users[email]
	if !ok {
		return User{}, &RejectedError{Message: "No account found with this email"}
	}
	if u.password != password {
		return User{}, &RejectedError{Message: "Incorrect password", ShowForgot: true}
	}
	return User{Email: email, Name: u.name}, nil
}

func (m *MockService) ForgotPassword(_ context.Context, email string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	if _, ok := m.users[email]; !ok {
		return "", &RejectedError{Message: "No account found with this email"}
	}
	token := uuid.NewString()
	m.tokens[token] = email
	return token, nil
}

func (m *MockService) ResetPassword(_ context.Context, token, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	email, ok := m.tokens[token]
	if !ok {
		return &RejectedError{Message: "Invalid or expired reset token"}
	}
	u := m.users[email]
	u.password = password
	m.users[email] = u
	delete(m.tokens, token)
	return nil
}

// Package auth talks to the authentication service and drives the sign-in
// form state machine.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fashionpulse/assistant/internal/reliability"
)

// User is the identity returned on a successful login.
type User struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// RejectedError is a well-formed refusal from the auth service: the HTTP
// exchange succeeded but the request was denied, with a message meant for
// the user. ShowForgot marks a wrong-password refusal that should surface
// the reset path.
type RejectedError struct {
	Message    string
	ShowForgot bool
}

func (e *RejectedError) Error() string { return e.Message }

func (e *RejectedError) Unwrap() error { return reliability.ErrBackend }

// Service is the authentication backend surface.
type Service interface {
	Login(ctx context.Context, email, password string) (User, error)
	ForgotPassword(ctx context.Context, email string) (token string, err error)
	ResetPassword(ctx context.Context, token, password string) error
}

// HTTPService calls the auth service's JSON endpoints.
type HTTPService struct {
	base   string
	client *http.Client
}

func NewHTTPService(baseURL string) *HTTPService {
	return &HTTPService{
		base: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type authEnvelope struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	ShowForgot bool   `json:"show_forgot"`
	Token      string `json:"token"`
	User       User   `json:"user"`
}

func (s *HTTPService) Login(ctx context.Context, email, password string) (User, error) {
	env, err := s.post(ctx, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return User{}, err
	}
	if !env.Success {
		return User{}, &RejectedError{Message: env.Message, ShowForgot: env.ShowForgot}
	}
	return env.User, nil
}

func (s *HTTPService) ForgotPassword(ctx context.Context, email string) (string, error) {
	env, err := s.post(ctx, "/api/auth/forgot-password", map[string]string{"email": email})
	if err != nil {
		return "", err
	}
	if !env.Success {
		return "", &RejectedError{Message: env.Message}
	}
	return env.Token, nil
}

func (s *HTTPService) ResetPassword(ctx context.Context, token, password string) error {
	env, err := s.post(ctx, "/api/auth/reset-password", map[string]string{
		"token":    token,
		"password": password,
	})
	if err != nil {
		return err
	}
	if !env.Success {
		return &RejectedError{Message: env.Message}
	}
	return nil
}

func (s *HTTPService) post(ctx context.Context, path string, body map[string]string) (authEnvelope, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return authEnvelope{}, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.base+path, bytes.NewReader(payload))
	if err != nil {
		return authEnvelope{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := s.client.Do(req)
	if err != nil {
		return authEnvelope{}, fmt.Errorf("auth service: %w: %w", reliability.ErrConnectivity, err)
	}
	defer res.Body.Close()

	var env authEnvelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return authEnvelope{}, fmt.Errorf("auth status %d: decode: %w: %w", res.StatusCode, reliability.ErrBackend, err)
	}
	return env, nil
}

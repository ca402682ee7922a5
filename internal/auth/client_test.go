package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fashionpulse/assistant/internal/reliability"
)

func newAuthServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct{ Email, Password string }
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch {
		case req.Email == "maya@example.com" && req.Password == "secret":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"user":    map[string]string{"email": req.Email, "name": "Maya"},
			})
		case req.Email == "maya@example.com":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": false, "message": "Incorrect password", "show_forgot": true,
			})
		default:
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": false, "message": "No account found with this email",
			})
		}
	})
	mux.HandleFunc("/api/auth/forgot-password", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "token": "tok-123"})
	})
	mux.HandleFunc("/api/auth/reset-password", func(w http.ResponseWriter, r *http.Request) {
		var req struct{ Token, Password string }
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		if req.Token != "tok-123" {
			_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "Invalid or expired reset token"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	})
	return httptest.NewServer(mux)
}

func TestHTTPServiceLogin(t *testing.T) {
	srv := newAuthServer(t)
	defer srv.Close()
	s := NewHTTPService(srv.URL)

	u, err := s.Login(context.Background(), "maya@example.com", "secret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if u.Name != "Maya" || u.Email != "maya@example.com" {
		t.Fatalf("user = %+v", u)
	}

	_, err = s.Login(context.Background(), "maya@example.com", "nope")
	var rej *RejectedError
	if !errors.As(err, &rej) {
		t.Fatalf("wrong password should return RejectedError, got %v", err)
	}
	if !rej.ShowForgot || rej.Message != "Incorrect password" {
		t.Fatalf("rejection = %+v", rej)
	}
	if !errors.Is(err, reliability.ErrBackend) {
		t.Fatalf("rejection should classify as backend, got %v", err)
	}
}

func TestHTTPServiceForgotAndReset(t *testing.T) {
	srv := newAuthServer(t)
	defer srv.Close()
	s := NewHTTPService(srv.URL)

	token, err := s.ForgotPassword(context.Background(), "maya@example.com")
	if err != nil {
		t.Fatalf("ForgotPassword() error = %v", err)
	}
	if token != "tok-123" {
		t.Fatalf("token = %q", token)
	}

	if err := s.ResetPassword(context.Background(), token, "newpass"); err != nil {
		t.Fatalf("ResetPassword() error = %v", err)
	}
	if err := s.ResetPassword(context.Background(), "bogus", "newpass"); err == nil {
		t.Fatalf("bad token should be rejected")
	}
}

func TestHTTPServiceConnectivity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	s := NewHTTPService(srv.URL)
	_, err := s.Login(context.Background(), "maya@example.com", "secret")
	if !errors.Is(err, reliability.ErrConnectivity) {
		t.Fatalf("error should wrap ErrConnectivity, got %v", err)
	}
}

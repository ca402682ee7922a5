package httpapi

import (
	"net/http"

	"github.com/fashionpulse/assistant/internal/auth"
)

// Auth endpoints mirror the storefront's envelope: HTTP 200 with a success
// flag, so the client can distinguish a refusal from a transport failure.

type authResponse struct {
	Success    bool       `json:"success"`
	Message    string     `json:"message,omitempty"`
	ShowForgot bool       `json:"show_forgot,omitempty"`
	Token      string     `json:"token,omitempty"`
	User       *auth.User `json:"user,omitempty"`
}

// controller builds a one-shot form controller over the shared auth service
// and store.
func (s *Server) controller() *auth.Controller {
	return auth.NewController(s.authSvc, s.store, nil)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	c := s.controller()
	if err := c.Login(r.Context(), req.Email, req.Password); err != nil {
		state := c.Snapshot()
		respondJSON(w, http.StatusOK, authResponse{
			Success:    false,
			Message:    state.Error,
			ShowForgot: state.ShowForgot,
		})
		return
	}

	p, err := s.store.Profile(r.Context(), req.Email)
	if err != nil {
		respondJSON(w, http.StatusOK, authResponse{Success: true, User: &auth.User{Email: req.Email}})
		return
	}
	respondJSON(w, http.StatusOK, authResponse{
		Success: true,
		User:    &auth.User{Email: p.Email, Name: p.Name},
	})
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	c := s.controller()
	if err := c.ForgotPassword(r.Context(), req.Email); err != nil {
		respondJSON(w, http.StatusOK, authResponse{Success: false, Message: c.Snapshot().Error})
		return
	}
	respondJSON(w, http.StatusOK, authResponse{Success: true, Token: c.Snapshot().ResetToken})
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	c := s.controller()
	if err := c.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		respondJSON(w, http.StatusOK, authResponse{Success: false, Message: c.Snapshot().Error})
		return
	}
	respondJSON(w, http.StatusOK, authResponse{Success: true, Message: c.Snapshot().Notice})
}

// Package httpapi is the JSON/WS gateway in front of the assistant engine.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/fashionpulse/assistant/internal/auth"
	"github.com/fashionpulse/assistant/internal/config"
	"github.com/fashionpulse/assistant/internal/observability"
	"github.com/fashionpulse/assistant/internal/session"
	"github.com/fashionpulse/assistant/internal/storage"
)

type Server struct {
	cfg      config.Config
	sessions *session.Manager
	authSvc  auth.Service
	store    storage.Store
	metrics  *observability.Metrics
	upgrader websocket.Upgrader
}

func New(cfg config.Config, sessions *session.Manager, authSvc auth.Service, store storage.Store, metrics *observability.Metrics) *Server {
	return &Server{
		cfg:      cfg,
		sessions: sessions,
		authSvc:  authSvc,
		store:    store,
		metrics:  metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Only same-origin browser connections may drive a session.
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				if u.Scheme != "http" && u.Scheme != "https" {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Post("/v1/auth/login", s.handleLogin)
	r.Post("/v1/auth/forgot-password", s.handleForgotPassword)
	r.Post("/v1/auth/reset-password", s.handleResetPassword)

	r.Post("/v1/assistant/session", s.handleCreateSession)
	r.Post("/v1/assistant/session/{id}/end", s.handleEndSession)
	r.Post("/v1/assistant/session/{id}/open", s.handleOpenSession)
	r.Post("/v1/assistant/session/{id}/message", s.handleMessage)
	r.Post("/v1/assistant/session/{id}/option", s.handleOption)
	r.Post("/v1/assistant/session/{id}/reset", s.handleReset)
	r.Post("/v1/assistant/session/{id}/handoff", s.handleHandoff)
	r.Put("/v1/assistant/session/{id}/basket", s.handleBasket)
	r.Get("/v1/assistant/session/{id}/transcript", s.handleTranscript)
	r.Get("/v1/assistant/session/{id}/history", s.handleHistory)
	r.Get("/v1/assistant/session/ws", s.handleSessionWS)

	r.Get("/v1/users/{id}/events", s.handleUserEvents)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"active_sessions": s.sessions.ActiveCount(),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var errEmptyBody = errors.New("empty body")

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(out); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "eof") {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}

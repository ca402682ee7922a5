package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/fashionpulse/assistant/internal/session"
	"github.com/fashionpulse/assistant/internal/widget"
)

type createSessionRequest struct {
	UserID string `json:"user_id"`
}

type createSessionResponse struct {
	SessionID       string           `json:"session_id"`
	UserID          string           `json:"user_id"`
	Status          session.Status   `json:"status"`
	InactivityTTLMS int64            `json:"inactivity_ttl_ms"`
	Transcript      []widget.Message `json:"transcript"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	sess := s.sessions.Create(strings.TrimSpace(req.UserID))
	engine, err := s.sessions.Widget(sess.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "session_lost", err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, createSessionResponse{
		SessionID:       sess.ID,
		UserID:          sess.UserID,
		Status:          sess.Status,
		InactivityTTLMS: s.cfg.SessionInactivityTimeout.Milliseconds(),
		Transcript:      engine.Transcript(),
	})
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if strings.TrimSpace(id) == "" {
		respondError(w, http.StatusBadRequest, "invalid_session_id", "missing session id")
		return
	}
	sess, err := s.sessions.End(id)
	if err != nil {
		respondError(w, http.StatusNotFound, "session_not_found", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, sess)
}

// engine resolves the live widget for a session id, touching the session's
// activity clock.
func (s *Server) engine(w http.ResponseWriter, r *http.Request) (*widget.Widget, bool) {
	id := chi.URLParam(r, "id")
	engine, err := s.sessions.Widget(id)
	if err != nil {
		respondError(w, http.StatusNotFound, "session_not_found", err.Error())
		return nil, false
	}
	_ = s.sessions.Touch(id)
	return engine, true
}

func (s *Server) handleOpenSession(w http.ResponseWriter, r *http.Request) {
	engine, ok := s.engine(w, r)
	if !ok {
		return
	}
	adopted := engine.Adopt(engine.Mailbox())
	engine.Open(r.Context())
	respondJSON(w, http.StatusOK, map[string]any{
		"open":       true,
		"adopted":    adopted,
		"transcript": engine.Transcript(),
	})
}

// handleHandoff lets a product page park its widget state for the next
// mount of the same session.
func (s *Server) handleHandoff(w http.ResponseWriter, r *http.Request) {
	engine, ok := s.engine(w, r)
	if !ok {
		return
	}
	var req struct {
		Open       bool             `json:"open"`
		Transcript []widget.Message `json:"transcript"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	engine.Mailbox().Publish(widget.HandoffState{Open: req.Open, Transcript: req.Transcript})
	respondJSON(w, http.StatusAccepted, map[string]any{"pending": true})
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	engine, ok := s.engine(w, r)
	if !ok {
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respondError(w, http.StatusBadRequest, "empty_message", "text is required")
		return
	}

	if err := engine.SendText(r.Context(), req.Text); err != nil {
		if errors.Is(err, widget.ErrBusy) {
			respondError(w, http.StatusConflict, "busy", err.Error())
			return
		}
		respondError(w, http.StatusBadRequest, "rejected", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"transcript": engine.Transcript()})
}

func (s *Server) handleOption(w http.ResponseWriter, r *http.Request) {
	engine, ok := s.engine(w, r)
	if !ok {
		return
	}
	var req struct {
		Option string `json:"option"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := engine.SelectOption(r.Context(), req.Option); err != nil {
		if errors.Is(err, widget.ErrBusy) {
			respondError(w, http.StatusConflict, "busy", err.Error())
			return
		}
		respondError(w, http.StatusBadRequest, "rejected", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"transcript": engine.Transcript()})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	engine, ok := s.engine(w, r)
	if !ok {
		return
	}
	engine.Reset()
	respondJSON(w, http.StatusOK, map[string]any{"transcript": engine.Transcript()})
}

func (s *Server) handleBasket(w http.ResponseWriter, r *http.Request) {
	engine, ok := s.engine(w, r)
	if !ok {
		return
	}
	var req struct {
		Cart     []widget.Item `json:"cart"`
		Wishlist []widget.Item `json:"wishlist"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	engine.SetCart(req.Cart)
	engine.SetWishlist(req.Wishlist)
	respondJSON(w, http.StatusOK, map[string]any{
		"cart_items":     len(req.Cart),
		"wishlist_items": len(req.Wishlist),
	})
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	engine, ok := s.engine(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"transcript": engine.Transcript()})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	engine, ok := s.engine(w, r)
	if !ok {
		return
	}
	sessions, err := engine.History(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "history_unavailable", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"history": sessions})
}

func (s *Server) handleUserEvents(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if strings.TrimSpace(userID) == "" {
		respondError(w, http.StatusBadRequest, "invalid_user_id", "missing user id")
		return
	}
	events, err := s.store.Events(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "events_unavailable", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"events": events})
}

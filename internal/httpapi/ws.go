package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fashionpulse/assistant/internal/widget"
)

// wsCommand is what the browser sends over the socket.
type wsCommand struct {
	Action string `json:"action"` // message | option | reset | open
	Value  string `json:"value,omitempty"`
}

// wsEvent is what the gateway pushes: transcript appends as they happen,
// including planner notices that arrive between commands.
type wsEvent struct {
	Type    string          `json:"type"` // transcript_append | error
	Message *widget.Message `json:"message,omitempty"`
	Code    string          `json:"code,omitempty"`
	Detail  string          `json:"detail,omitempty"`
}

func (s *Server) handleSessionWS(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(r.URL.Query().Get("session_id"))
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session_id", "query parameter session_id is required")
		return
	}
	engine, err := s.sessions.Widget(sessionID)
	if err != nil {
		respondError(w, http.StatusNotFound, "session_not_found", err.Error())
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	if s.metrics != nil {
		s.metrics.SessionEvents.WithLabelValues("ws_connected").Inc()
	}

	// A subscribe counts as a mount: pick up any parked hand-off state
	// before the watcher starts streaming.
	engine.Adopt(engine.Mailbox())

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	outbound := make(chan wsEvent, 256)

	// Transcript watcher: anything appended by commands, planner reminders
	// or intercepts flows out as its own event.
	watcherDone := make(chan struct{})
	go func() {
		defer close(watcherDone)
		ticker := time.NewTicker(250 * time.Millisecond)
		defer ticker.Stop()
		seen := 0
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				tr := engine.Transcript()
				if seen > len(tr) {
					// A reset truncated the transcript; replay from the top.
					seen = 0
				}
				for ; seen < len(tr); seen++ {
					m := tr[seen]
					select {
					case outbound <- wsEvent{Type: "transcript_append", Message: &m}:
					default:
						// Writes stay single-threaded; drop when saturated.
					}
				}
			}
		}
	}()

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-outbound:
				if !ok {
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
				if err := conn.WriteJSON(ev); err != nil {
					cancel()
					return
				}
			}
		}
	}()

	conn.SetReadLimit(1 << 20)
	_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
		return nil
	})

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if msgType != websocket.TextMessage {
			continue
		}
		_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))

		var cmd wsCommand
		if err := json.Unmarshal(data, &cmd); err != nil {
			pushEvent(outbound, wsEvent{Type: "error", Code: "invalid_command", Detail: err.Error()})
			continue
		}
		if err := s.dispatchWS(ctx, engine, cmd); err != nil {
			code := "rejected"
			if errors.Is(err, widget.ErrBusy) {
				code = "busy"
			}
			pushEvent(outbound, wsEvent{Type: "error", Code: code, Detail: err.Error()})
		}
		_ = s.sessions.Touch(sessionID)
	}

	cancel()
	<-watcherDone
	<-writerDone
	if s.metrics != nil {
		s.metrics.SessionEvents.WithLabelValues("ws_disconnected").Inc()
	}
}

func (s *Server) dispatchWS(ctx context.Context, engine *widget.Widget, cmd wsCommand) error {
	switch cmd.Action {
	case "message":
		return engine.SendText(ctx, cmd.Value)
	case "option":
		return engine.SelectOption(ctx, cmd.Value)
	case "reset":
		engine.Reset()
		return nil
	case "open":
		engine.Open(ctx)
		return nil
	default:
		return errors.New("unknown action " + cmd.Action)
	}
}

func pushEvent(ch chan<- wsEvent, ev wsEvent) {
	select {
	case ch <- ev:
	default:
	}
}

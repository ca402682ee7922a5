package widget

// HandoffState is the snapshot a product page leaves behind so the widget
// can resume the conversation after navigation.
type HandoffState struct {
	Open       bool
	Transcript []Message
}

// Handoff is a single-slot mailbox between pages. The last published state
// wins and each state is consumed at most once.
type Handoff struct {
	ch chan HandoffState
}

func NewHandoff() *Handoff {
	return &Handoff{ch: make(chan HandoffState, 1)}
}

// Publish stores the state, replacing any unconsumed one.
func (h *Handoff) Publish(s HandoffState) {
	for {
		select {
		case h.ch <- s:
			return
		default:
			select {
			case <-h.ch:
			default:
			}
		}
	}
}

// Consume removes and returns the pending state, if any.
func (h *Handoff) Consume() (HandoffState, bool) {
	select {
	case s := <-h.ch:
		return s, true
	default:
		return HandoffState{}, false
	}
}

// Adopt applies a pending hand-off to the widget: reopen it and restore the
// carried transcript. A no-op when nothing is pending.
func (w *Widget) Adopt(h *Handoff) bool {
	s, ok := h.Consume()
	if !ok {
		return false
	}
	if s.Open {
		w.mu.Lock()
		w.open = true
		w.mu.Unlock()
	}
	w.RestoreTranscript(s.Transcript)
	return true
}

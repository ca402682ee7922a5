package widget

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fashionpulse/assistant/internal/agent"
	"github.com/fashionpulse/assistant/internal/catalog"
	"github.com/fashionpulse/assistant/internal/flow"
	"github.com/fashionpulse/assistant/internal/observability"
	"github.com/fashionpulse/assistant/internal/planner"
	"github.com/fashionpulse/assistant/internal/policy"
	"github.com/fashionpulse/assistant/internal/storage"
)

// ErrBusy rejects a submission while another one is in flight.
var ErrBusy = errors.New("a message is already being processed")

// Config wires a widget's collaborators. Agent is required; everything else
// degrades gracefully when absent.
type Config struct {
	UserID       string
	Agent        agent.Adapter
	Catalog      catalog.Client
	Store        storage.Store
	Planner      *planner.Planner
	Metrics      *observability.Metrics
	HistoryLimit int
	// ScanInterval is how often the planner rescans upcoming events while
	// the widget is open.
	ScanInterval time.Duration
	Now          func() time.Time
}

// Widget is one user's assistant session.
type Widget struct {
	id       string
	userID   string
	adapter  agent.Adapter
	catalog  catalog.Client
	store    storage.Store
	planner  *planner.Planner
	metrics  *observability.Metrics
	limit    int
	interval time.Duration
	mailbox  *Handoff
	now      func() time.Time

	mu         sync.Mutex
	open       bool
	busy       bool
	scanCancel context.CancelFunc
	transcript []Message
	machine    *flow.Machine
	cart       []Item
	wishlist   []Item
}

func New(cfg Config) *Widget {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 10
	}
	if cfg.ScanInterval <= 0 {
		cfg.ScanInterval = time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	userID := cfg.UserID
	if userID == "" {
		userID = "guest"
	}
	w := &Widget{
		id:       uuid.NewString(),
		userID:   userID,
		adapter:  cfg.Agent,
		catalog:  cfg.Catalog,
		store:    cfg.Store,
		planner:  cfg.Planner,
		metrics:  cfg.Metrics,
		limit:    cfg.HistoryLimit,
		interval: cfg.ScanInterval,
		mailbox:  NewHandoff(),
		now:      cfg.Now,
	}
	w.transcript = []Message{w.greeting()}
	return w
}

func (w *Widget) ID() string { return w.id }

func (w *Widget) UserID() string { return w.userID }

// Mailbox is the session's cross-page hand-off slot: a product page
// publishes its widget state here and the next mount adopts it.
func (w *Widget) Mailbox() *Handoff { return w.mailbox }

func (w *Widget) greeting() Message {
	return Message{
		Text:    Greeting,
		SentAt:  w.now(),
		Options: append([]string(nil), GreetingOptions...),
	}
}

// Open marks the widget visible and starts the recurring upcoming-event
// scan. The first scan fires immediately; the loop runs until Close.
func (w *Widget) Open(_ context.Context) {
	w.mu.Lock()
	w.open = true
	var scanCtx context.Context
	if w.planner != nil && w.scanCancel == nil {
		scanCtx, w.scanCancel = context.WithCancel(context.Background())
	}
	w.mu.Unlock()

	if scanCtx != nil {
		go w.planner.Run(scanCtx, w.userID, w.interval, w.AppendNotice)
	}
}

func (w *Widget) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.open = false
	if w.scanCancel != nil {
		w.scanCancel()
		w.scanCancel = nil
	}
}

func (w *Widget) IsOpen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.open
}

// Reset drops the conversation back to the single greeting and abandons any
// active flow.
func (w *Widget) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.transcript = []Message{w.greeting()}
	w.machine = nil
}

// Transcript returns a copy of the conversation so far.
func (w *Widget) Transcript() []Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Message, len(w.transcript))
	copy(out, w.transcript)
	return out
}

// SetCart and SetWishlist replace the externally owned item lists the
// summary intents read from.
func (w *Widget) SetCart(items []Item) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cart = append([]Item(nil), items...)
}

func (w *Widget) SetWishlist(items []Item) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.wishlist = append([]Item(nil), items...)
}

func (w *Widget) begin() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.busy {
		return ErrBusy
	}
	w.busy = true
	return nil
}

func (w *Widget) finish() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.busy = false
}

// SendText submits typed input. While a flow is active the text travels to
// the agent wrapped with the flow tag and everything collected so far.
// Replies tagged as local intents are intercepted, never rendered.
func (w *Widget) SendText(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if err := w.begin(); err != nil {
		return err
	}
	defer w.finish()

	w.append(ctx, Message{Text: text, FromUser: true, SentAt: w.now()})

	payload := text
	w.mu.Lock()
	m := w.machine
	w.mu.Unlock()
	if m != nil {
		wrapped, err := agent.FlowContextMessage(text, string(m.Kind()), m.Collected())
		if err == nil {
			payload = wrapped
		} else {
			log.Printf("widget %s: wrap flow context: %v", w.id, err)
		}
	}

	reply, err := w.adapter.Send(ctx, payload)
	if err != nil {
		w.recordBackendError("agent", err)
		w.append(ctx, Message{Text: connectivityMessage, SentAt: w.now()})
		return nil
	}

	if w.intercept(ctx, reply.Type) {
		return nil
	}

	w.append(ctx, Message{
		Text:     reply.Text,
		SentAt:   w.now(),
		Products: reply.Products,
		Type:     reply.Type,
	})
	return nil
}

// intercept handles agent replies that name a local intent.
func (w *Widget) intercept(ctx context.Context, replyType string) bool {
	switch replyType {
	case agent.TypeCartRequest:
		w.cartSummary(ctx)
	case agent.TypeWishlistRequest:
		w.wishlistSummary(ctx)
	case agent.TypeOrdersRequest:
		w.ordersSummary(ctx)
	default:
		return false
	}
	return true
}

// Option aliases that launch a guided flow.
var flowLaunches = map[string]flow.Kind{
	"Face Tone Analysis":       flow.KindFaceTone,
	"🎨":                        flow.KindFaceTone,
	"1️⃣ Face Tone":             flow.KindFaceTone,
	"Body Fit Recommendations": flow.KindBodyFit,
	"👕":                        flow.KindBodyFit,
	"2️⃣ Body Fit":              flow.KindBodyFit,
	"Calendar Event Planner":   flow.KindCalendar,
	"📅":                        flow.KindCalendar,
	"3️⃣ Calendar":              flow.KindCalendar,
}

// SelectOption routes a clicked button. Precedence is fixed: literal menu
// entries, flow launches, quick-search phrases, then the active flow. An
// option matching nothing is silently ignored.
func (w *Widget) SelectOption(ctx context.Context, option string) error {
	if err := w.begin(); err != nil {
		return err
	}
	defer w.finish()

	switch option {
	case "Browse Products":
		w.append(ctx, Message{
			Text:    "What type of products are you looking for? You can also type specific requests like 'red dresses under 2000' or 'blue shirts for men'.",
			SentAt:  w.now(),
			Options: append([]string(nil), BrowseOptions...),
		})
		return nil
	case "View Cart":
		w.cartSummary(ctx)
		return nil
	case "My Wishlist":
		w.wishlistSummary(ctx)
		return nil
	case "My Orders":
		w.ordersSummary(ctx)
		return nil
	}

	if kind, ok := flowLaunches[option]; ok {
		w.launchFlow(kind)
		return nil
	}

	if isQuickSearch(option) {
		return w.quickSearch(ctx, option)
	}

	w.mu.Lock()
	m := w.machine
	w.mu.Unlock()
	if m != nil {
		return w.advanceFlow(ctx, m, option)
	}

	// Nothing matched; append nothing.
	return nil
}

func isQuickSearch(option string) bool {
	return strings.Contains(option, "dresses under") ||
		strings.Contains(option, "shirts for") ||
		strings.Contains(option, "tops for") ||
		strings.Contains(option, "ethnic wear")
}

// quickSearch forwards a canned query verbatim, echoing it as the user's
// message first.
func (w *Widget) quickSearch(ctx context.Context, query string) error {
	w.append(ctx, Message{Text: query, FromUser: true, SentAt: w.now()})

	reply, err := w.adapter.Send(ctx, query)
	if err != nil {
		w.recordBackendError("agent", err)
		w.append(ctx, Message{Text: connectivityMessage, SentAt: w.now()})
		return nil
	}
	if w.intercept(ctx, reply.Type) {
		return nil
	}
	w.append(ctx, Message{
		Text:     reply.Text,
		SentAt:   w.now(),
		Products: reply.Products,
		Type:     reply.Type,
	})
	return nil
}

func (w *Widget) launchFlow(kind flow.Kind) {
	var def flow.Definition
	switch kind {
	case flow.KindFaceTone:
		def = flow.FaceTone()
	case flow.KindBodyFit:
		def = flow.BodyFit()
	case flow.KindCalendar:
		def = flow.Calendar(w.now)
	}

	m := flow.Start(def)
	w.mu.Lock()
	w.machine = m
	w.mu.Unlock()
	w.countFlowEvent(kind, "started")

	if kind == flow.KindCalendar {
		w.appendLocked(Message{
			Text:   "Perfect! Let's plan your outfits for upcoming events.\n\nI'll help you create calendar events and suggest perfect outfits for each occasion.",
			SentAt: w.now(),
		})
	}
	w.appendLocked(Message{
		Text:    m.Prompt(),
		SentAt:  w.now(),
		Options: m.Options(),
	})
}

// advanceFlow feeds one selection to the active machine. A selection the
// machine never offered is dropped silently; a validation failure (bad
// date, blank event) is returned so the caller can surface it. Completion
// resets the flow regardless of what the terminal request does.
func (w *Widget) advanceFlow(ctx context.Context, m *flow.Machine, option string) error {
	done, err := m.Advance(option)
	if err != nil {
		if errors.Is(err, flow.ErrNotOffered) || errors.Is(err, flow.ErrDone) {
			return nil
		}
		return err
	}
	w.countFlowEvent(m.Kind(), "advanced")

	if !done {
		w.append(ctx, Message{
			Text:    m.Prompt(),
			SentAt:  w.now(),
			Options: m.Options(),
		})
		return nil
	}

	w.mu.Lock()
	w.machine = nil
	w.mu.Unlock()
	w.countFlowEvent(m.Kind(), "completed")

	c := m.Collected()
	switch m.Kind() {
	case flow.KindFaceTone:
		w.finishFaceTone(ctx, c)
	case flow.KindBodyFit:
		w.finishBodyFit(ctx, c)
	case flow.KindCalendar:
		w.finishCalendar(ctx, c)
	}
	return nil
}

func (w *Widget) finishFaceTone(ctx context.Context, c map[string]string) {
	payload, err := agent.FaceTonePayload(c["selectedColor"], strings.ToLower(c["selectedGender"]), c["selectedCategory"])
	if err != nil {
		log.Printf("widget %s: face tone payload: %v", w.id, err)
		w.append(ctx, Message{Text: flowFetchFailure, SentAt: w.now()})
		return
	}

	reply, err := w.adapter.Send(ctx, payload)
	if err != nil {
		w.recordBackendError("agent", err)
		w.append(ctx, Message{Text: flowFetchFailure, SentAt: w.now()})
		return
	}

	w.append(ctx, Message{
		Text: fmt.Sprintf("Perfect match! Here are %s %s for %s that will complement your %s skin tone:",
			strings.ToLower(c["selectedColor"]), strings.ToLower(c["selectedCategory"]),
			strings.ToLower(c["selectedGender"]), strings.ToLower(c["selectedTone"])),
		SentAt:   w.now(),
		Products: reply.Products,
	})
}

func (w *Widget) finishBodyFit(ctx context.Context, c map[string]string) {
	payload, err := agent.BodyFitPayload(strings.ToLower(c["selectedGender"]), c["selectedBodyShape"], c["selectedCategory"], c["selectedColor"])
	if err != nil {
		log.Printf("widget %s: body fit payload: %v", w.id, err)
		w.append(ctx, Message{Text: flowFetchFailure, SentAt: w.now()})
		return
	}

	reply, err := w.adapter.Send(ctx, payload)
	if err != nil {
		w.recordBackendError("agent", err)
		w.append(ctx, Message{Text: flowFetchFailure, SentAt: w.now()})
		return
	}

	text := reply.Text
	if text == "" {
		text = fmt.Sprintf("Perfect fit! Here are %s %s that will look amazing on your %s body shape:",
			strings.ToLower(c["selectedColor"]), strings.ToLower(c["selectedCategory"]),
			strings.ToLower(c["selectedBodyShape"]))
	}
	w.append(ctx, Message{Text: text, SentAt: w.now(), Products: reply.Products})
}

func (w *Widget) finishCalendar(ctx context.Context, c map[string]string) {
	if w.planner == nil {
		return
	}
	if _, err := w.planner.SaveEvent(ctx, w.userID, c["gender"], c["date"], c["event"], w.AppendNotice); err != nil {
		log.Printf("widget %s: save event: %v", w.id, err)
		w.append(ctx, Message{Text: "Sorry, I couldn't save your event. Please try again.", SentAt: w.now()})
	}
}

// AppendNotice adds a planner notice to the transcript. Safe to call from
// planner goroutines.
func (w *Widget) AppendNotice(n planner.Notice) {
	w.appendLocked(Message{
		Text:     n.Text,
		SentAt:   w.now(),
		Products: n.Products,
		Type:     n.Type,
	})
}

// RestoreTranscript replaces the conversation, used by history recall and
// the cross-page hand-off.
func (w *Widget) RestoreTranscript(msgs []Message) {
	if len(msgs) == 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.transcript = append([]Message(nil), msgs...)
	w.machine = nil
}

// History returns the persisted conversation snapshots, newest first.
func (w *Widget) History(ctx context.Context) ([]storage.ChatSession, error) {
	if w.store == nil {
		return nil, nil
	}
	return w.store.ChatSessions(ctx, w.userID)
}

func (w *Widget) append(ctx context.Context, m Message) {
	w.appendLocked(m)
	w.maybeSnapshot(ctx)
}

func (w *Widget) appendLocked(m Message) {
	w.mu.Lock()
	w.transcript = append(w.transcript, m)
	w.mu.Unlock()
	if w.metrics != nil {
		role := "assistant"
		if m.FromUser {
			role = "user"
		}
		w.metrics.TranscriptAppends.WithLabelValues(role).Inc()
	}
}

// maybeSnapshot persists the conversation once it has grown past the
// greeting exchange. Message text is redacted before it is stored.
func (w *Widget) maybeSnapshot(ctx context.Context) {
	if w.store == nil {
		return
	}
	w.mu.Lock()
	if len(w.transcript) <= 2 {
		w.mu.Unlock()
		return
	}
	msgs := make([]storage.ChatMessage, len(w.transcript))
	for i, m := range w.transcript {
		text, _ := policy.RedactPII(m.Text)
		msgs[i] = storage.ChatMessage{Text: text, FromUser: m.FromUser, SentAt: m.SentAt}
	}
	w.mu.Unlock()

	sess := storage.ChatSession{
		ID:        w.id,
		UserID:    w.userID,
		Title:     "Chat " + w.now().Format("1/2/2006"),
		CreatedAt: w.now(),
		Messages:  msgs,
	}
	if err := w.store.SaveChatSession(ctx, sess, w.limit); err != nil {
		log.Printf("widget %s: snapshot history: %v", w.id, err)
	}
}

func (w *Widget) countFlowEvent(kind flow.Kind, event string) {
	if w.metrics != nil {
		w.metrics.FlowEvents.WithLabelValues(string(kind), event).Inc()
	}
}

func (w *Widget) recordBackendError(service string, err error) {
	if w.metrics != nil {
		w.metrics.BackendErrors.WithLabelValues(service, kindLabel(err)).Inc()
	}
}

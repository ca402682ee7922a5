// Package planner owns calendar events: it persists them, confirms them in
// the transcript, asks the agent for outfit suggestions when an event is
// close, and replays reminders for anything coming up soon.
package planner

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/fashionpulse/assistant/internal/agent"
	"github.com/fashionpulse/assistant/internal/observability"
	"github.com/fashionpulse/assistant/internal/storage"
)

// Notice types pushed into the transcript.
const (
	TypeEventConfirmation = "event_confirmation"
	TypeEventReminder     = "event_reminder"
	TypeEventSuggestions  = "event_suggestions"
)

// Notice is a planner-originated assistant message.
type Notice struct {
	Text     string
	Products []agent.Product
	Type     string
}

// Sink receives planner notices, usually a widget transcript append.
type Sink func(Notice)

// Options tune the horizons and pacing. Zero delays are valid and mean
// immediate delivery, which tests rely on.
type Options struct {
	SuggestionHorizonDays int
	ReminderHorizonDays   int
	SuggestionDelay       time.Duration
	ReminderStagger       time.Duration
	Now                   func() time.Time
}

func (o *Options) withDefaults() {
	if o.SuggestionHorizonDays == 0 {
		o.SuggestionHorizonDays = 7
	}
	if o.ReminderHorizonDays == 0 {
		o.ReminderHorizonDays = 3
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// Planner wires the event store, the agent and a notice sink together.
type Planner struct {
	store   storage.Store
	adapter agent.Adapter
	metrics *observability.Metrics
	opts    Options
}

func New(store storage.Store, adapter agent.Adapter, metrics *observability.Metrics, opts Options) *Planner {
	opts.withDefaults()
	return &Planner{store: store, adapter: adapter, metrics: metrics, opts: opts}
}

// SaveEvent persists the event, confirms it through the sink, and when the
// event falls inside the suggestion horizon schedules exactly one outfit
// suggestion request after the configured delay.
func (p *Planner) SaveEvent(ctx context.Context, userID, gender, date, eventName string, sink Sink) (storage.Event, error) {
	ev := storage.Event{
		ID:        uuid.NewString(),
		UserID:    userID,
		Gender:    gender,
		Date:      date,
		Event:     eventName,
		CreatedAt: p.opts.Now(),
	}
	if err := p.store.AppendEvent(ctx, ev); err != nil {
		return storage.Event{}, fmt.Errorf("save event: %w", err)
	}

	sink(Notice{
		Text: fmt.Sprintf("✅ **Event Saved Successfully!**\n\n📅 **%s** on %s\n👤 Gender: %s\n\n🔔 I'll remind you closer to the date with perfect outfit suggestions!",
			ev.Event, displayDate(ev.Date), ev.Gender),
		Type: TypeEventConfirmation,
	})

	days, ok := p.daysUntil(ev.Date)
	if ok && days >= 0 && days <= p.opts.SuggestionHorizonDays {
		// The suggestion must outlive the request that saved the event.
		bg := context.WithoutCancel(ctx)
		p.after(p.opts.SuggestionDelay, func() {
			p.suggest(bg, ev, sink)
		})
	}
	return ev, nil
}

// CheckUpcoming scans the user's events and replays a reminder, then outfit
// suggestions, for each one inside the reminder horizon. Reminders are
// staggered so they land one at a time.
func (p *Planner) CheckUpcoming(ctx context.Context, userID string, sink Sink) (int, error) {
	events, err := p.store.Events(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("load events: %w", err)
	}

	var upcoming []storage.Event
	for _, ev := range events {
		days, ok := p.daysUntil(ev.Date)
		if ok && days >= 0 && days <= p.opts.ReminderHorizonDays {
			upcoming = append(upcoming, ev)
		}
	}

	bg := context.WithoutCancel(ctx)
	for i, ev := range upcoming {
		ev := ev
		p.after(time.Duration(i)*p.opts.ReminderStagger, func() {
			p.remind(bg, ev, sink)
		})
	}
	return len(upcoming), nil
}

// Run rescans upcoming events on a fixed interval until ctx is done. One
// scan fires immediately.
func (p *Planner) Run(ctx context.Context, userID string, interval time.Duration, sink Sink) {
	if interval <= 0 {
		interval = time.Minute
	}
	if _, err := p.CheckUpcoming(ctx, userID, sink); err != nil {
		log.Printf("planner: initial scan: %v", err)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := p.CheckUpcoming(ctx, userID, sink); err != nil {
				log.Printf("planner: scan: %v", err)
			}
		}
	}
}

func (p *Planner) remind(ctx context.Context, ev storage.Event, sink Sink) {
	days, _ := p.daysUntil(ev.Date)
	var when string
	switch days {
	case 0:
		when = "today!"
	case 1:
		when = "tomorrow!"
	default:
		when = fmt.Sprintf("in %d days!", days)
	}

	sink(Notice{
		Text: fmt.Sprintf("🔔 **Event Reminder**\n\nYour event %q on %s is %s\n\nHere are the best outfit suggestions for you:",
			ev.Event, displayDate(ev.Date), when),
		Type: TypeEventReminder,
	})
	if p.metrics != nil {
		p.metrics.EventReminders.Inc()
	}

	p.suggest(ctx, ev, sink)
}

// suggest asks the agent for outfits matching the event. Failures and
// empty results are silent; the reminder already stands on its own.
func (p *Planner) suggest(ctx context.Context, ev storage.Event, sink Sink) {
	payload, err := agent.EventOutfitPayload(ev.Gender, ev.Event, ev.Date)
	if err != nil {
		log.Printf("planner: build suggestion payload: %v", err)
		return
	}

	reply, err := p.adapter.Send(ctx, payload)
	if err != nil {
		log.Printf("planner: outfit suggestions for %q: %v", ev.Event, err)
		return
	}
	if len(reply.Products) == 0 {
		return
	}

	text := reply.Text
	if text == "" {
		text = fmt.Sprintf("Perfect outfits for your %s:", ev.Event)
	}
	sink(Notice{Text: text, Products: reply.Products, Type: TypeEventSuggestions})
}

func (p *Planner) after(d time.Duration, fn func()) {
	if d <= 0 {
		go fn()
		return
	}
	time.AfterFunc(d, fn)
}

// daysUntil counts whole calendar days from today to the event date.
func (p *Planner) daysUntil(date string) (int, bool) {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0, false
	}
	today, _ := time.Parse("2006-01-02", p.opts.Now().Format("2006-01-02"))
	return int(d.Sub(today) / (24 * time.Hour)), true
}

func displayDate(date string) string {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return d.Format("1/2/2006")
}

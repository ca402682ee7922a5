// Package widget is the headless chat assistant engine: it owns the
// transcript, routes typed text and option clicks to the agent, a guided
// flow, or a local intent handler, and snapshots conversations to storage.
package widget

import (
	"time"

	"github.com/fashionpulse/assistant/internal/agent"
)

// Message is one transcript entry.
type Message struct {
	Text     string          `json:"text"`
	FromUser bool            `json:"from_user"`
	SentAt   time.Time       `json:"sent_at"`
	Options  []string        `json:"options,omitempty"`
	Products []agent.Product `json:"products,omitempty"`
	Type     string          `json:"type,omitempty"`
}

// Greeting opens every fresh conversation.
const Greeting = "Hi! I'm your fashion assistant. What are you looking for today?\n\n" +
	"Choose an option:\n" +
	"• Browse Products - Search our collection\n" +
	"• View Cart - Check your shopping cart\n" +
	"• My Wishlist - See saved items\n" +
	"• My Orders - View order history\n\n" +
	"Choose query option:\n" +
	"• Red dresses under ₹2000\n" +
	"• Blue shirts for men\n" +
	"• Black tops for women\n" +
	"• White ethnic wear"

// GreetingOptions are the buttons offered with the greeting.
var GreetingOptions = []string{
	"Browse Products",
	"View Cart",
	"My Wishlist",
	"My Orders",
	"Red dresses under ₹2000",
	"Blue shirts for men",
	"Black tops for women",
	"White ethnic wear",
}

// BrowseOptions are offered after "Browse Products".
var BrowseOptions = []string{
	"Women's Clothing",
	"Men's Clothing",
	"Dresses",
	"Shirts",
	"Ethnic Wear",
}

const (
	connectivityMessage = "🔌 Connection issue. I'm having trouble reaching the chat service. Please try again in a moment."
	flowFetchFailure    = "Sorry, I couldn't fetch products right now. Please try again later."
)

package agent

import (
	"context"
	"encoding/json"
	"fmt"
)

// Product is a catalog hit carried inside an agent reply.
type Product struct {
	ID          string  `json:"product_id"`
	Name        string  `json:"product_name"`
	Price       float64 `json:"price"`
	Image       string  `json:"product_image"`
	Color       string  `json:"color"`
	Gender      string  `json:"gender"`
	Category    string  `json:"product_category"`
	Stock       int     `json:"stock"`
	Description string  `json:"product_description,omitempty"`
}

// Reply is the agent's structured answer. Type may name a client-side intent
// (cart_request, wishlist_request, orders_request) that the widget intercepts
// instead of rendering.
type Reply struct {
	Text     string    `json:"response"`
	Products []Product `json:"products,omitempty"`
	Type     string    `json:"type,omitempty"`
	Action   string    `json:"action,omitempty"`
}

// Client-side intent tags the widget recognizes on replies.
const (
	TypeCartRequest     = "cart_request"
	TypeWishlistRequest = "wishlist_request"
	TypeOrdersRequest   = "orders_request"
)

// Adapter sends one message to the shopping agent and returns its reply.
type Adapter interface {
	Send(ctx context.Context, message string) (Reply, error)
}

// FlowContextMessage wraps free text typed while a guided flow is active so
// the agent sees both the text and everything collected so far.
func FlowContextMessage(text, flow string, collected map[string]string) (string, error) {
	payload := struct {
		Message  string            `json:"message"`
		Flow     string            `json:"flow"`
		FlowData map[string]string `json:"flowData"`
	}{text, flow, collected}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal flow context: %w", err)
	}
	return string(raw), nil
}

// FaceTonePayload is the terminal face-tone flow query.
func FaceTonePayload(color, gender, category string) (string, error) {
	return marshalPayload(struct {
		Type     string `json:"type"`
		Color    string `json:"color"`
		Gender   string `json:"gender"`
		Category string `json:"category"`
	}{"faceToneFlow", color, gender, category})
}

// BodyFitPayload is the terminal body-fit flow query.
func BodyFitPayload(gender, bodyShape, category, color string) (string, error) {
	return marshalPayload(struct {
		Type      string `json:"type"`
		Gender    string `json:"gender"`
		BodyShape string `json:"bodyShape"`
		Category  string `json:"category"`
		Color     string `json:"color"`
	}{"bodyFitFlow", gender, bodyShape, category, color})
}

// EventOutfitPayload requests outfit suggestions for a saved calendar event.
func EventOutfitPayload(gender, eventType, eventDate string) (string, error) {
	return marshalPayload(struct {
		Type      string `json:"type"`
		Gender    string `json:"gender"`
		EventType string `json:"eventType"`
		EventDate string `json:"eventDate"`
	}{"eventOutfitSuggestion", gender, eventType, eventDate})
}

func marshalPayload(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal agent payload: %w", err)
	}
	return string(raw), nil
}

package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fashionpulse/assistant/internal/agent"
	"github.com/fashionpulse/assistant/internal/auth"
	"github.com/fashionpulse/assistant/internal/catalog"
	"github.com/fashionpulse/assistant/internal/config"
	"github.com/fashionpulse/assistant/internal/planner"
	"github.com/fashionpulse/assistant/internal/session"
	"github.com/fashionpulse/assistant/internal/storage"
	"github.com/fashionpulse/assistant/internal/widget"
)

type testEnv struct {
	ts      *httptest.Server
	adapter *agent.MockAdapter
	authSvc *auth.MockService
	store   *storage.InMemoryStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := config.Config{
		SessionInactivityTimeout: 2 * time.Minute,
		HistoryLimit:             10,
	}
	adapter := agent.NewMockAdapter()
	store := storage.NewInMemoryStore()
	authSvc := auth.NewMockService()
	authSvc.AddUser("maya@example.com", "Maya", "secret")
	cat := catalog.NewMockClient()
	p := planner.New(store, adapter, nil, planner.Options{})

	factory := func(userID string) *widget.Widget {
		return widget.New(widget.Config{
			UserID:       userID,
			Agent:        adapter,
			Catalog:      cat,
			Store:        store,
			Planner:      p,
			HistoryLimit: cfg.HistoryLimit,
		})
	}
	sessions := session.NewManager(cfg.SessionInactivityTimeout, factory, nil)
	srv := New(cfg, sessions, authSvc, store, nil)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return &testEnv{ts: ts, adapter: adapter, authSvc: authSvc, store: store}
}

func postJSON(t *testing.T, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	raw, _ := json.Marshal(body)
	res, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("POST %s error = %v", url, err)
	}
	defer res.Body.Close()
	var decoded map[string]any
	_ = json.NewDecoder(res.Body).Decode(&decoded)
	return res, decoded
}

func TestCreateSessionAndSendMessage(t *testing.T) {
	env := newTestEnv(t)
	env.adapter.Enqueue(agent.Reply{Text: "Found 3 dresses"})

	res, created := postJSON(t, env.ts.URL+"/v1/assistant/session", map[string]string{"user_id": "maya@example.com"})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", res.StatusCode)
	}
	sessionID, _ := created["session_id"].(string)
	if sessionID == "" {
		t.Fatalf("missing session_id: %+v", created)
	}
	transcript, _ := created["transcript"].([]any)
	if len(transcript) != 1 {
		t.Fatalf("fresh transcript = %v", transcript)
	}

	res, reply := postJSON(t, env.ts.URL+"/v1/assistant/session/"+sessionID+"/message", map[string]string{"text": "show me dresses"})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("message status = %d", res.StatusCode)
	}
	msgs, _ := reply["transcript"].([]any)
	if len(msgs) != 3 {
		t.Fatalf("transcript after message = %d entries, want 3", len(msgs))
	}

	last, _ := msgs[2].(map[string]any)
	if last["text"] != "Found 3 dresses" {
		t.Fatalf("last message = %+v", last)
	}
}

func TestMessageValidation(t *testing.T) {
	env := newTestEnv(t)
	_, created := postJSON(t, env.ts.URL+"/v1/assistant/session", map[string]string{})
	sessionID := created["session_id"].(string)

	res, _ := postJSON(t, env.ts.URL+"/v1/assistant/session/"+sessionID+"/message", map[string]string{"text": "  "})
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("blank message status = %d, want 400", res.StatusCode)
	}

	res, _ = postJSON(t, env.ts.URL+"/v1/assistant/session/unknown/message", map[string]string{"text": "hi"})
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown session status = %d, want 404", res.StatusCode)
	}
}

func TestOptionDrivesFlowOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	env.adapter.Enqueue(agent.Reply{Products: []agent.Product{{ID: "p1", Name: "Blue Shirt"}}})

	_, created := postJSON(t, env.ts.URL+"/v1/assistant/session", map[string]string{"user_id": "maya@example.com"})
	sessionID := created["session_id"].(string)

	optionURL := env.ts.URL + "/v1/assistant/session/" + sessionID + "/option"
	var last map[string]any
	for _, opt := range []string{"Face Tone Analysis", "Fair", "Blue", "Men", "Shirts"} {
		res, reply := postJSON(t, optionURL, map[string]string{"option": opt})
		if res.StatusCode != http.StatusOK {
			t.Fatalf("option %q status = %d", opt, res.StatusCode)
		}
		msgs, _ := reply["transcript"].([]any)
		last, _ = msgs[len(msgs)-1].(map[string]any)
	}

	text, _ := last["text"].(string)
	if !strings.Contains(text, "fair skin tone") {
		t.Fatalf("final flow message = %q", text)
	}
	products, _ := last["products"].([]any)
	if len(products) != 1 {
		t.Fatalf("products = %v", products)
	}
}

func TestBasketAndCartSummary(t *testing.T) {
	env := newTestEnv(t)
	_, created := postJSON(t, env.ts.URL+"/v1/assistant/session", map[string]string{"user_id": "maya@example.com"})
	sessionID := created["session_id"].(string)

	raw, _ := json.Marshal(map[string]any{
		"cart": []widget.Item{{ID: "p1", Title: "Red Dress", Price: 1799, Qty: 1}},
	})
	req, _ := http.NewRequest(http.MethodPut, env.ts.URL+"/v1/assistant/session/"+sessionID+"/basket", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT basket error = %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("basket status = %d", res.StatusCode)
	}

	_, reply := postJSON(t, env.ts.URL+"/v1/assistant/session/"+sessionID+"/option", map[string]string{"option": "View Cart"})
	msgs, _ := reply["transcript"].([]any)
	last, _ := msgs[len(msgs)-1].(map[string]any)
	if last["type"] != "cart_display" {
		t.Fatalf("cart summary = %+v", last)
	}
}

func TestResetOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	env.adapter.Enqueue(agent.Reply{Text: "sure"})

	_, created := postJSON(t, env.ts.URL+"/v1/assistant/session", map[string]string{})
	sessionID := created["session_id"].(string)

	postJSON(t, env.ts.URL+"/v1/assistant/session/"+sessionID+"/message", map[string]string{"text": "hello"})
	res, reply := postJSON(t, env.ts.URL+"/v1/assistant/session/"+sessionID+"/reset", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("reset status = %d", res.StatusCode)
	}
	msgs, _ := reply["transcript"].([]any)
	if len(msgs) != 1 {
		t.Fatalf("reset transcript = %d entries, want 1", len(msgs))
	}
}

func TestHandoffAdoptedOnOpen(t *testing.T) {
	env := newTestEnv(t)
	_, created := postJSON(t, env.ts.URL+"/v1/assistant/session", map[string]string{"user_id": "maya@example.com"})
	sessionID := created["session_id"].(string)

	carried := []map[string]any{
		{"text": "carried over", "from_user": false},
		{"text": "and this one", "from_user": true},
	}
	res, _ := postJSON(t, env.ts.URL+"/v1/assistant/session/"+sessionID+"/handoff", map[string]any{
		"open":       true,
		"transcript": carried,
	})
	if res.StatusCode != http.StatusAccepted {
		t.Fatalf("handoff status = %d", res.StatusCode)
	}

	res, opened := postJSON(t, env.ts.URL+"/v1/assistant/session/"+sessionID+"/open", nil)
	if res.StatusCode != http.StatusOK || opened["adopted"] != true {
		t.Fatalf("open response = %d %+v", res.StatusCode, opened)
	}
	msgs, _ := opened["transcript"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("adopted transcript = %d entries, want 2", len(msgs))
	}
	first, _ := msgs[0].(map[string]any)
	if first["text"] != "carried over" {
		t.Fatalf("adopted transcript = %+v", msgs)
	}

	// The slot is consumed: a second open adopts nothing.
	_, opened = postJSON(t, env.ts.URL+"/v1/assistant/session/"+sessionID+"/open", nil)
	if opened["adopted"] != false {
		t.Fatalf("second open response = %+v", opened)
	}
}

func TestAuthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	res, body := postJSON(t, env.ts.URL+"/v1/auth/login", map[string]string{"email": "maya@example.com", "password": "secret"})
	if res.StatusCode != http.StatusOK || body["success"] != true {
		t.Fatalf("login response = %d %+v", res.StatusCode, body)
	}
	user, _ := body["user"].(map[string]any)
	if user["name"] != "Maya" {
		t.Fatalf("user = %+v", user)
	}

	_, body = postJSON(t, env.ts.URL+"/v1/auth/login", map[string]string{"email": "maya@example.com", "password": "wrong"})
	if body["success"] != false || body["show_forgot"] != true {
		t.Fatalf("wrong password response = %+v", body)
	}

	_, body = postJSON(t, env.ts.URL+"/v1/auth/forgot-password", map[string]string{"email": "maya@example.com"})
	token, _ := body["token"].(string)
	if body["success"] != true || token == "" {
		t.Fatalf("forgot response = %+v", body)
	}

	_, body = postJSON(t, env.ts.URL+"/v1/auth/reset-password", map[string]string{"token": token, "password": "newpass"})
	if body["success"] != true {
		t.Fatalf("reset response = %+v", body)
	}
}

func TestUserEventsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	_ = env.store.AppendEvent(context.Background(), storage.Event{UserID: "maya@example.com", Gender: "Women", Date: "2030-01-01", Event: "Wedding"})

	res, err := http.Get(env.ts.URL + "/v1/users/maya@example.com/events")
	if err != nil {
		t.Fatalf("GET events error = %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("events status = %d", res.StatusCode)
	}
	var body map[string][]storage.Event
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode events: %v", err)
	}
	if len(body["events"]) != 1 || body["events"][0].Event != "Wedding" {
		t.Fatalf("events = %+v", body)
	}
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		res, err := http.Get(env.ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s error = %v", path, err)
		}
		res.Body.Close()
		if res.StatusCode != http.StatusOK {
			t.Fatalf("GET %s status = %d", path, res.StatusCode)
		}
	}
}

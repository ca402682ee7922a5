package agent

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fashionpulse/assistant/internal/reliability"
)

func TestHTTPAdapterSend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			http.NotFound(w, r)
			return
		}
		var req struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response":"Found 2 matches","products":[{"product_id":"1","product_name":"Red Dress","price":1799},{"product_id":"2","product_name":"Red Kurti","price":999}]}`))
	}))
	defer srv.Close()

	a := NewHTTPAdapter(srv.URL)
	got, err := a.Send(context.Background(), "red dresses under 2000")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if got.Text != "Found 2 matches" {
		t.Fatalf("Text = %q", got.Text)
	}
	if len(got.Products) != 2 || got.Products[0].Name != "Red Dress" {
		t.Fatalf("unexpected products: %+v", got.Products)
	}
}

func TestHTTPAdapterSendDefaultsEmptyText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	a := NewHTTPAdapter(srv.URL)
	got, err := a.Send(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if got.Text == "" {
		t.Fatalf("empty reply text should be replaced with the fallback")
	}
}

func TestHTTPAdapterSendConnectivity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	a := NewHTTPAdapter(srv.URL)
	_, err := a.Send(context.Background(), "hello")
	if !errors.Is(err, reliability.ErrConnectivity) {
		t.Fatalf("error should wrap ErrConnectivity, got %v", err)
	}
}

func TestHTTPAdapterSendStatusMapping(t *testing.T) {
	for _, tc := range []struct {
		status int
		want   error
	}{
		{http.StatusServiceUnavailable, reliability.ErrConnectivity},
		{http.StatusUnprocessableEntity, reliability.ErrBackend},
	} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "nope", tc.status)
		}))
		a := NewHTTPAdapter(srv.URL)
		_, err := a.Send(context.Background(), "hello")
		srv.Close()
		if !errors.Is(err, tc.want) {
			t.Fatalf("status %d error = %v, want %v", tc.status, err, tc.want)
		}
	}
}

func TestFlowPayloads(t *testing.T) {
	msg, err := FaceTonePayload("Blue", "women", "Dresses")
	if err != nil {
		t.Fatalf("FaceTonePayload() error = %v", err)
	}
	var decoded map[string]string
	if err := json.Unmarshal([]byte(msg), &decoded); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if decoded["type"] != "faceToneFlow" || decoded["color"] != "Blue" {
		t.Fatalf("unexpected payload: %v", decoded)
	}

	msg, err = FlowContextMessage("something sleeveless", "body_fit", map[string]string{"selectedGender": "Women"})
	if err != nil {
		t.Fatalf("FlowContextMessage() error = %v", err)
	}
	var wrapped struct {
		Message  string            `json:"message"`
		Flow     string            `json:"flow"`
		FlowData map[string]string `json:"flowData"`
	}
	if err := json.Unmarshal([]byte(msg), &wrapped); err != nil {
		t.Fatalf("wrapped payload is not JSON: %v", err)
	}
	if wrapped.Flow != "body_fit" || wrapped.FlowData["selectedGender"] != "Women" {
		t.Fatalf("unexpected wrapped payload: %+v", wrapped)
	}
}

package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fashionpulse/assistant/internal/reliability"
)

func TestHTTPClientProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/products/42" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"image_url":"http://img/42.jpg","color":"Red","gender":"Women","product_category":"Dresses","price":1499}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	got, err := c.Product(context.Background(), "42")
	if err != nil {
		t.Fatalf("Product() error = %v", err)
	}
	if got.Color != "Red" || got.Category != "Dresses" || got.Price != 1499 {
		t.Fatalf("unexpected details: %+v", got)
	}
}

func TestHTTPClientProductBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	_, err := c.Product(context.Background(), "missing")
	if err == nil {
		t.Fatalf("Product() should fail on 404")
	}
	if reliability.Classify(err) != reliability.KindBackend {
		t.Fatalf("Classify() = %q, want backend", reliability.Classify(err))
	}
}

func TestHTTPClientProductConnectivityError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // immediately unreachable

	c := NewHTTPClient(srv.URL)
	_, err := c.Product(context.Background(), "42")
	if err == nil {
		t.Fatalf("Product() should fail when service is down")
	}
	if !errors.Is(err, reliability.ErrConnectivity) {
		t.Fatalf("error should wrap ErrConnectivity, got %v", err)
	}
}

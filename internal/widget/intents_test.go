package widget

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/fashionpulse/assistant/internal/catalog"
	"github.com/fashionpulse/assistant/internal/storage"
)

func TestCartSummaryEmptyMakesNoLookups(t *testing.T) {
	mock := catalog.NewMockClient()
	w := testWidget(t, Config{Catalog: mock})

	if err := w.SelectOption(context.Background(), "View Cart"); err != nil {
		t.Fatalf("SelectOption() error = %v", err)
	}

	tr := w.Transcript()
	last := tr[len(tr)-1]
	if last.Type != "cart_empty" || !strings.Contains(last.Text, "cart is empty") {
		t.Fatalf("empty cart message = %+v", last)
	}
	if len(mock.Lookups()) != 0 {
		t.Fatalf("empty cart must not hit the catalog, lookups = %v", mock.Lookups())
	}
}

func TestCartSummaryEnrichesEveryItem(t *testing.T) {
	mock := catalog.NewMockClient()
	mock.Add("p1", catalog.Details{ImageURL: "http://img/p1.jpg", Color: "Red", Gender: "women", Category: "Dresses", Price: 1799})
	w := testWidget(t, Config{Catalog: mock})
	w.SetCart([]Item{
		{ID: "p1", Title: "Red Dress", Price: 1799, Qty: 2},
		{ID: "p2", Title: "Blue Shirt", Price: 999, Qty: 1, Image: "http://img/p2.jpg"},
	})

	if err := w.SelectOption(context.Background(), "View Cart"); err != nil {
		t.Fatalf("SelectOption() error = %v", err)
	}

	tr := w.Transcript()
	last := tr[len(tr)-1]
	if last.Type != "cart_display" {
		t.Fatalf("message = %+v", last)
	}
	if !strings.Contains(last.Text, "(2 items)") || !strings.Contains(last.Text, "₹4597") {
		t.Fatalf("summary text = %q", last.Text)
	}
	if len(last.Products) != 2 {
		t.Fatalf("products = %d, want 2", len(last.Products))
	}

	// p1 enriched from the catalog, p2 fell back to its own fields.
	byID := map[string]int{}
	for i, p := range last.Products {
		byID[p.ID] = i
	}
	p1 := last.Products[byID["p1"]]
	if p1.Color != "Red" || p1.Category != "Dresses" || p1.Image != "http://img/p1.jpg" {
		t.Fatalf("p1 = %+v", p1)
	}
	p2 := last.Products[byID["p2"]]
	if p2.Category != "Fashion" || p2.Image != "http://img/p2.jpg" {
		t.Fatalf("p2 fallback = %+v", p2)
	}
	if !strings.Contains(p2.Description, "Quantity: 1") {
		t.Fatalf("p2 description = %q", p2.Description)
	}
}

func TestCartSummaryCountSurvivesTotalOutage(t *testing.T) {
	mock := catalog.NewMockClient()
	mock.FailAll(true)
	w := testWidget(t, Config{Catalog: mock})

	items := []Item{
		{ID: "a", Title: "One", Price: 100, Qty: 1},
		{ID: "b", Title: "Two", Price: 200, Qty: 1},
		{ID: "c", Title: "Three", Price: 300, Qty: 1},
	}
	w.SetCart(items)

	if err := w.SelectOption(context.Background(), "View Cart"); err != nil {
		t.Fatalf("SelectOption() error = %v", err)
	}

	tr := w.Transcript()
	last := tr[len(tr)-1]
	if len(last.Products) != len(items) {
		t.Fatalf("products = %d, want %d even when every lookup fails", len(last.Products), len(items))
	}
	if !strings.Contains(last.Text, "(3 items)") {
		t.Fatalf("summary text = %q", last.Text)
	}
	for i, p := range last.Products {
		if p.Name != items[i].Title {
			t.Fatalf("product %d out of order: %+v", i, p)
		}
	}
}

func TestWishlistSummary(t *testing.T) {
	mock := catalog.NewMockClient()
	mock.Add("w1", catalog.Details{Price: 2499, Color: "Black", Category: "Tops and Co-ord Sets"})
	w := testWidget(t, Config{Catalog: mock})
	w.SetWishlist([]Item{{ID: "w1", Title: "Black Top"}})

	if err := w.SelectOption(context.Background(), "My Wishlist"); err != nil {
		t.Fatalf("SelectOption() error = %v", err)
	}

	tr := w.Transcript()
	last := tr[len(tr)-1]
	if last.Type != "wishlist_display" || !strings.Contains(last.Text, "(1 items)") {
		t.Fatalf("message = %+v", last)
	}
	p := last.Products[0]
	if p.Price != 2499 {
		t.Fatalf("zero price should fall back to the catalog price, got %v", p.Price)
	}
	if p.Stock != 1 || p.Description != "Saved to your wishlist" {
		t.Fatalf("wishlist product = %+v", p)
	}
}

func TestOrdersSummaryRendersFiveMostRecent(t *testing.T) {
	store := storage.NewInMemoryStore()
	ctx := context.Background()
	for i := 1; i <= 7; i++ {
		if err := store.SaveOrder(ctx, storage.Order{
			ID:        orderID(i),
			UserID:    "maya@example.com",
			Date:      "2026-03-01",
			Status:    "confirmed",
			Total:     float64(100 * i),
			ItemCount: i,
		}); err != nil {
			t.Fatalf("SaveOrder() error = %v", err)
		}
	}

	w := testWidget(t, Config{Store: store, UserID: "maya@example.com"})
	if err := w.SelectOption(ctx, "My Orders"); err != nil {
		t.Fatalf("SelectOption() error = %v", err)
	}

	tr := w.Transcript()
	last := tr[len(tr)-1]
	if last.Type != "orders_display" {
		t.Fatalf("message = %+v", last)
	}
	if !strings.Contains(last.Text, "(7 total)") {
		t.Fatalf("total count missing: %q", last.Text)
	}
	if got := strings.Count(last.Text, "**Order #"); got != 5 {
		t.Fatalf("rendered orders = %d, want 5", got)
	}
	// Newest first: order 7 shown, order 1 aged out.
	if !strings.Contains(last.Text, "Order #ord-7") || strings.Contains(last.Text, "Order #ord-1**") {
		t.Fatalf("order selection wrong: %q", last.Text)
	}
}

func TestOrdersSummaryStorageFailure(t *testing.T) {
	w := testWidget(t, Config{}) // no store wired

	if err := w.SelectOption(context.Background(), "My Orders"); err != nil {
		t.Fatalf("SelectOption() error = %v", err)
	}
	tr := w.Transcript()
	last := tr[len(tr)-1]
	if last.Type != "orders_error" || !strings.Contains(last.Text, "Unable to load order history") {
		t.Fatalf("message = %+v", last)
	}
}

func TestOrdersSummaryEmpty(t *testing.T) {
	store := storage.NewInMemoryStore()
	w := testWidget(t, Config{Store: store, UserID: "maya@example.com"})

	if err := w.SelectOption(context.Background(), "My Orders"); err != nil {
		t.Fatalf("SelectOption() error = %v", err)
	}
	tr := w.Transcript()
	last := tr[len(tr)-1]
	if last.Type != "orders_empty" {
		t.Fatalf("message = %+v", last)
	}
}

func orderID(i int) string {
	return fmt.Sprintf("ord-%d", i)
}

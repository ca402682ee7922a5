package widget

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fashionpulse/assistant/internal/agent"
	"github.com/fashionpulse/assistant/internal/reliability"
)

// Item is a cart or wishlist entry owned by the shopping page; the widget
// only reads it and decorates it with catalog data.
type Item struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
	Qty   int     `json:"qty"`
	Image string  `json:"image"`
}

const enrichConcurrency = 4

// cartSummary renders the cart as a single message. Every item is enriched
// with catalog data when possible; the locally known fields always suffice,
// so the summary never fails and its item count always matches the cart.
func (w *Widget) cartSummary(ctx context.Context) {
	w.mu.Lock()
	items := append([]Item(nil), w.cart...)
	w.mu.Unlock()

	if len(items) == 0 {
		w.append(ctx, Message{
			Text:   "🛒 Your cart is empty! Start adding some amazing products to see them here.",
			SentAt: w.now(),
			Type:   "cart_empty",
		})
		return
	}

	products := w.enrich(ctx, items, false)

	var total float64
	for _, it := range items {
		total += it.Price * float64(it.Qty)
	}
	w.append(ctx, Message{
		Text: fmt.Sprintf("🛒 **Your Cart (%d items)**\n\nTotal: ₹%s\n\nClick any item to view details:",
			len(items), formatAmount(total)),
		SentAt:   w.now(),
		Products: products,
		Type:     "cart_display",
	})
}

func (w *Widget) wishlistSummary(ctx context.Context) {
	w.mu.Lock()
	items := append([]Item(nil), w.wishlist...)
	w.mu.Unlock()

	if len(items) == 0 {
		w.append(ctx, Message{
			Text:   "❤️ Your wishlist is empty! Save some products you love to see them here.",
			SentAt: w.now(),
			Type:   "wishlist_empty",
		})
		return
	}

	products := w.enrich(ctx, items, true)

	w.append(ctx, Message{
		Text: fmt.Sprintf("❤️ **Your Wishlist (%d items)**\n\nYour saved favorites:\n\nClick any item to view details:",
			len(items)),
		SentAt:   w.now(),
		Products: products,
		Type:     "wishlist_display",
	})
}

// enrich decorates every item with catalog details, fanning the lookups out
// concurrently. A failed lookup falls back to the item's own fields, so the
// result always has one product per item, in input order.
func (w *Widget) enrich(ctx context.Context, items []Item, wishlist bool) []agent.Product {
	started := time.Now()
	out := make([]agent.Product, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichConcurrency)
	for i, it := range items {
		i, it := i, it
		g.Go(func() error {
			p := agent.Product{
				ID:       it.ID,
				Name:     it.Title,
				Price:    it.Price,
				Image:    it.Image,
				Category: "Fashion",
			}
			if wishlist {
				p.Stock = 1
				p.Description = "Saved to your wishlist"
			} else {
				p.Stock = it.Qty
				p.Description = fmt.Sprintf("Quantity: %d | Total: ₹%s", it.Qty, formatAmount(it.Price*float64(it.Qty)))
			}

			if w.catalog != nil {
				if d, err := w.catalog.Product(gctx, it.ID); err == nil {
					if p.Image == "" {
						p.Image = d.ImageURL
					}
					p.Color = d.Color
					p.Gender = d.Gender
					if d.Category != "" {
						p.Category = d.Category
					}
					if wishlist && p.Price == 0 {
						p.Price = d.Price
					}
				} else {
					w.recordBackendError("catalog", err)
				}
			}

			out[i] = p
			return nil
		})
	}
	_ = g.Wait()

	if w.metrics != nil {
		w.metrics.ObserveEnrichmentLatency(time.Since(started))
	}
	return out
}

// ordersSummary renders the five most recent orders from storage.
func (w *Widget) ordersSummary(ctx context.Context) {
	if w.store == nil {
		w.append(ctx, Message{
			Text:   "❌ Unable to load order history. Please make sure you're logged in.",
			SentAt: w.now(),
			Type:   "orders_error",
		})
		return
	}

	orders, err := w.store.Orders(ctx, w.userID)
	if err != nil {
		w.recordBackendError("storage", err)
		w.append(ctx, Message{
			Text:   "❌ Unable to load order history. Please make sure you're logged in.",
			SentAt: w.now(),
			Type:   "orders_error",
		})
		return
	}

	if len(orders) == 0 {
		w.append(ctx, Message{
			Text:   "📦 You haven't placed any orders yet! Start shopping to see your order history here.",
			SentAt: w.now(),
			Type:   "orders_empty",
		})
		return
	}

	recent := orders
	if len(recent) > 5 {
		recent = recent[:5]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📦 **Your Recent Orders (%d total)**\n\n", len(orders))
	for _, o := range recent {
		status := "✅ Confirmed"
		if o.Status == "cancelled" {
			status = "❌ Cancelled"
		}
		fmt.Fprintf(&b, "**Order #%s**\n", o.ID)
		fmt.Fprintf(&b, "📅 %s | %s | ₹%s\n", displayOrderDate(o.Date), status, formatAmount(o.Total))
		fmt.Fprintf(&b, "📦 %d items\n\n", o.ItemCount)
	}
	b.WriteString("💡 Go to 'My Orders' page for complete order management!")

	w.append(ctx, Message{Text: b.String(), SentAt: w.now(), Type: "orders_display"})
}

func displayOrderDate(date string) string {
	if d, err := time.Parse("2006-01-02", date); err == nil {
		return d.Format("1/2/2006")
	}
	return date
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func kindLabel(err error) string {
	return string(reliability.Classify(err))
}

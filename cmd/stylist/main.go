// stylist is an interactive terminal client that drives the assistant
// engine directly, without the HTTP gateway. Useful for trying flows and
// intents against mock or real backend services.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/fatih/color"

	"github.com/fashionpulse/assistant/internal/agent"
	"github.com/fashionpulse/assistant/internal/catalog"
	"github.com/fashionpulse/assistant/internal/planner"
	"github.com/fashionpulse/assistant/internal/storage"
	"github.com/fashionpulse/assistant/internal/widget"
)

var (
	userID     = flag.String("user", "guest", "User id for history and events")
	agentURL   = flag.String("agent-url", "mock", "Shopping agent base URL, or 'mock'")
	catalogURL = flag.String("catalog-url", "mock", "Catalog service base URL, or 'mock'")
)

func main() {
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		fmt.Println("\nBye!")
		cancel()
		os.Exit(0)
	}()

	var adapter agent.Adapter
	if *agentURL == "mock" {
		adapter = agent.NewMockAdapter()
	} else {
		adapter = agent.NewHTTPAdapter(*agentURL)
	}
	var cat catalog.Client
	if *catalogURL == "mock" {
		cat = catalog.NewMockClient()
	} else {
		cat = catalog.NewHTTPClient(*catalogURL)
	}

	store := storage.NewInMemoryStore()
	p := planner.New(store, adapter, nil, planner.Options{})

	w := widget.New(widget.Config{
		UserID:  *userID,
		Agent:   adapter,
		Catalog: cat,
		Store:   store,
		Planner: p,
	})
	w.Open(ctx)

	boldMagenta := color.New(color.FgMagenta, color.Bold).SprintFunc()
	boldGreen := color.New(color.FgGreen, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	fmt.Println(boldMagenta("👗 FashionPulse Stylist"))
	fmt.Println("Type a message, or pick an option with its number (e.g. '2').")
	fmt.Println("Commands: /reset, /history, /quit")
	fmt.Println()

	printed := 0
	printNew := func() {
		tr := w.Transcript()
		for ; printed < len(tr); printed++ {
			m := tr[printed]
			if m.FromUser {
				continue
			}
			fmt.Println(boldMagenta("Stylist: ") + m.Text)
			for i, opt := range m.Options {
				fmt.Printf("  %s %s\n", dim(fmt.Sprintf("[%d]", i+1)), opt)
			}
			for _, prod := range m.Products {
				fmt.Printf("  %s %s (₹%s)\n", dim("•"), prod.Name, strconv.FormatFloat(prod.Price, 'f', -1, 64))
			}
			fmt.Println()
		}
	}
	printNew()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(boldGreen("You: "))
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			printNew()
			continue
		}

		switch input {
		case "/quit", "exit":
			return
		case "/reset":
			w.Reset()
			printed = 0
			printNew()
			continue
		case "/history":
			sessions, err := w.History(ctx)
			if err != nil {
				fmt.Fprintf(os.Stderr, "history error: %v\n", err)
				continue
			}
			if len(sessions) == 0 {
				fmt.Println(dim("No saved conversations yet."))
				continue
			}
			for _, s := range sessions {
				fmt.Printf("%s %s (%d messages)\n", dim(s.CreatedAt.Format("2006-01-02 15:04")), s.Title, len(s.Messages))
			}
			continue
		}

		var err error
		if n, numErr := strconv.Atoi(input); numErr == nil {
			err = pickOption(ctx, w, n)
		} else {
			err = w.SendText(ctx, input)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		printNew()
	}
}

// pickOption resolves a 1-based option number against the latest message
// that offered options.
func pickOption(ctx context.Context, w *widget.Widget, n int) error {
	tr := w.Transcript()
	for i := len(tr) - 1; i >= 0; i-- {
		opts := tr[i].Options
		if len(opts) == 0 {
			continue
		}
		if n < 1 || n > len(opts) {
			return fmt.Errorf("option %d out of range (1-%d)", n, len(opts))
		}
		return w.SelectOption(ctx, opts[n-1])
	}
	return fmt.Errorf("no options on screen")
}

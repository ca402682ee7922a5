package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fashionpulse/assistant/internal/reliability"
)

// HTTPAdapter forwards messages to the shopping agent service.
type HTTPAdapter struct {
	url    string
	client *http.Client
}

func NewHTTPAdapter(baseURL string) *HTTPAdapter {
	return &HTTPAdapter{
		url: strings.TrimRight(strings.TrimSpace(baseURL), "/") + "/api/chat",
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (a *HTTPAdapter) Send(ctx context.Context, message string) (Reply, error) {
	payload, err := json.Marshal(struct {
		Message string `json:"message"`
	}{message})
	if err != nil {
		return Reply{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(payload))
	if err != nil {
		return Reply{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := a.client.Do(req)
	if err != nil {
		return Reply{}, fmt.Errorf("agent service: %w: %w", reliability.ErrConnectivity, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		kind := reliability.ErrBackend
		if reliability.IsRetryableHTTPStatus(res.StatusCode) {
			kind = reliability.ErrConnectivity
		}
		return Reply{}, fmt.Errorf("agent status %d: %s: %w", res.StatusCode, string(body), kind)
	}

	var reply Reply
	if err := json.NewDecoder(res.Body).Decode(&reply); err != nil {
		return Reply{}, fmt.Errorf("decode reply: %w", err)
	}
	if strings.TrimSpace(reply.Text) == "" {
		reply.Text = "Sorry, I couldn't process your request right now."
	}
	return reply, nil
}

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fashionpulse/assistant/internal/reliability"
)

// Details is the authoritative product record served by the catalog service.
type Details struct {
	ImageURL string  `json:"image_url"`
	Color    string  `json:"color"`
	Gender   string  `json:"gender"`
	Category string  `json:"product_category"`
	Price    float64 `json:"price"`
}

// Client looks up product details by id.
type Client interface {
	Product(ctx context.Context, id string) (Details, error)
}

// HTTPClient talks to the catalog service over HTTP.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *HTTPClient) Product(ctx context.Context, id string) (Details, error) {
	url := fmt.Sprintf("%s/api/products/%s", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Details{}, fmt.Errorf("create request: %w", err)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return Details{}, fmt.Errorf("catalog service: %w: %w", reliability.ErrConnectivity, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return Details{}, fmt.Errorf("catalog status %d: %s: %w", res.StatusCode, string(body), reliability.ErrBackend)
	}

	var d Details
	if err := json.NewDecoder(res.Body).Decode(&d); err != nil {
		return Details{}, fmt.Errorf("decode product %s: %w", id, err)
	}
	return d, nil
}

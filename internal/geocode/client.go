package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client calls the Nominatim reverse-geocoding API. Every call reaches the
// upstream service: no retry, no caching, no rate limiting.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewClient creates a Nominatim client. Nominatim's usage policy requires
// an identifying User-Agent, sent on every request.
func NewClient(baseURL, userAgent string) *Client {
	return &Client{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Reverse looks up the address for a coordinate and returns the upstream
// JSON body verbatim. Any failure (network, non-OK status, non-JSON body)
// is a single wrapped error; callers decide the fallback.
func (c *Client) Reverse(ctx context.Context, lat, lon string) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/reverse?format=json&lat=%s&lon=%s",
		c.baseURL, url.QueryEscape(lat), url.QueryEscape(lon))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build reverse geocode request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reverse geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reverse geocode upstream returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read reverse geocode response: %w", err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("reverse geocode upstream returned invalid JSON")
	}
	return json.RawMessage(body), nil
}

// ResolveAddress returns the display_name field for a coordinate. Used by
// the feed enrichment pipeline.
func (c *Client) ResolveAddress(ctx context.Context, lat, lng float64) (string, error) {
	raw, err := c.Reverse(ctx, formatCoord(lat), formatCoord(lng))
	if err != nil {
		return "", err
	}

	var payload struct {
		DisplayName string `json:"display_name"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", fmt.Errorf("failed to parse reverse geocode response: %w", err)
	}
	if payload.DisplayName == "" {
		return "", fmt.Errorf("reverse geocode response missing display_name")
	}
	return payload.DisplayName, nil
}

func formatCoord(v float64) string {
	return fmt.Sprintf("%g", v)
}

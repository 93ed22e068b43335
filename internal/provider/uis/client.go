// Package uis provides the HTTP client for the UNESCO Institute for
// Statistics SDMX API.
//
// The API authenticates via subscription-key query parameter and enforces a
// per-subscription observation quota; over-quota requests fail with a body
// containing "Quota Exceeded". Pacing is handled via a token bucket limiter.
package uis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Client is the shared HTTP client for all UIS endpoints.
type Client struct {
	httpClient  *http.Client
	extraParams string // locale + subscription key, appended to every URL
	limiter     *rate.Limiter
	logger      *slog.Logger
}

// NewClient creates a UIS HTTP client with rate limiting.
func NewClient(subscriptionKey, locale string, requestsPerMinute int, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	params := url.Values{}
	params.Set("locale", locale)
	params.Set("subscription-key", subscriptionKey)
	rps := float64(requestsPerMinute) / 60.0
	return &Client{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		extraParams: params.Encode(),
		limiter:     rate.NewLimiter(rate.Limit(rps), 1),
		logger:      logger,
	}
}

// FullURL appends the locale and subscription key to a request URL. Resource
// links handed to the catalog must be full URLs so they stay downloadable
// outside this process; Get* methods apply the same expansion themselves.
func (c *Client) FullURL(u string) string {
	sep := "?"
	if strings.Contains(u, "?") {
		sep = "&"
	}
	return u + sep + c.extraParams
}

// GetJSON performs a rate-limited GET and decodes the JSON response into v.
func (c *Client) GetJSON(ctx context.Context, u string, v any) error {
	body, err := c.get(ctx, u)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode response from %s: %w", u, err)
	}
	return nil
}

// GetBytes performs a rate-limited GET and returns the raw response body.
func (c *Client) GetBytes(ctx context.Context, u string) ([]byte, error) {
	return c.get(ctx, u)
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.FullURL(u), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request %s: %w", u, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if err := classify(u, resp.StatusCode, body); err != nil {
		return nil, err
	}
	return body, nil
}

// classify maps a non-200 response onto the quota / not-found / status error
// taxonomy. The UIS gateway reports quota exhaustion with 403 and a message
// body, so the body is inspected as well as the status code.
func classify(u string, status int, body []byte) error {
	if status == http.StatusOK {
		return nil
	}
	msg := string(body)
	switch {
	case status == http.StatusTooManyRequests || strings.Contains(msg, "Quota Exceeded"):
		return &QuotaError{URL: u}
	case status == http.StatusNotFound || strings.Contains(msg, "Not Found"):
		return &NotFoundError{URL: u}
	default:
		return &StatusError{URL: u, StatusCode: status, Body: truncate(body, 200)}
	}
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}

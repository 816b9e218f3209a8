// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voteclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/danielhkuo/aniheart/models"
)

// DefaultTimeout bounds every request. Without it a request that never
// resolves would pin the toggle button in Pending forever.
const DefaultTimeout = 10 * time.Second

// StatusError is a non-2xx response from the vote API.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("vote API returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("vote API returned %d", e.StatusCode)
}

// Client speaks the vote toggle protocol to the ledger server.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (tests, custom
// transports). The injected client is never mutated; the per-request
// timeout still applies through the request context.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout overrides the default per-request timeout. Option order
// does not matter.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	return c
}

// Toggle sends POST /vote and returns the authoritative post-toggle state.
func (c *Client) Toggle(ctx context.Context, req models.ToggleVoteRequest) (models.VoteState, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return models.VoteState{}, fmt.Errorf("failed to encode toggle request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/vote", bytes.NewReader(body))
	if err != nil {
		return models.VoteState{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var state models.VoteState
	if err := c.do(httpReq, &state); err != nil {
		return models.VoteState{}, err
	}
	return state, nil
}

// Registry sends GET /vote?fingerprint= and returns everything the server
// knows for this fingerprint, for wholesale cache hydration.
func (c *Client) Registry(ctx context.Context, fp string) (models.RegistryResponse, error) {
	u := c.baseURL + "/vote?fingerprint=" + url.QueryEscape(fp)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	registry := models.RegistryResponse{}
	if err := c.do(httpReq, &registry); err != nil {
		return nil, err
	}
	return registry, nil
}

// ItemState sends GET /vote/{itemId}?fingerprint= for one item.
func (c *Client) ItemState(ctx context.Context, itemID, fp string) (models.VoteState, error) {
	u := c.baseURL + "/vote/" + url.PathEscape(itemID)
	if fp != "" {
		u += "?fingerprint=" + url.QueryEscape(fp)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return models.VoteState{}, err
	}

	var state models.VoteState
	if err := c.do(httpReq, &state); err != nil {
		return models.VoteState{}, err
	}
	return state, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	if c.timeout > 0 {
		ctx, cancel := context.WithTimeout(req.Context(), c.timeout)
		defer cancel()
		req = req.WithContext(ctx)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Best-effort decode of the server's error envelope
		var apiErr models.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return &StatusError{StatusCode: resp.StatusCode, Message: apiErr.Message}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

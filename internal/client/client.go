// Package client is the HTTP client for the notifeed daemon: it loads feed
// pages and sends read-state mutations, including the non-optimistic
// full-page fallback used when the JSON path fails. It implements the feed
// engine's Loader, Mutator, and FallbackSubmitter interfaces.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/notifeed/notifeed/internal/feed"
)

// Client errors.
var (
	ErrNoToken = errors.New("no csrf token, load the feed first")
)

// Mutation endpoint actions.
const (
	actionMarkRead    = "mark_read"
	actionMarkUnread  = "mark_unread"
	actionMarkAllRead = "mark_all_read"
)

// Client talks to the notifeed daemon. It keeps the anti-forgery token
// issued with the last feed load and attaches it to every mutation. The
// token is opaque to the client.
type Client struct {
	baseURL    string
	userID     int64
	httpClient *http.Client

	csrfToken string
}

// FeedResponse is the daemon's feed payload: one page of records, the
// server-side unread total, and a fresh anti-forgery token.
type FeedResponse struct {
	feed.Page
	CSRFToken string `json:"csrf_token"`
}

// New creates a client for the daemon at baseURL acting for userID.
func New(baseURL string, userID int64, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		userID:  userID,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// LoadFeed fetches the current page and refreshes the anti-forgery token.
func (c *Client) LoadFeed(ctx context.Context) (FeedResponse, error) {
	var out FeedResponse

	u := fmt.Sprintf("%s/api/feed?user_id=%d", c.baseURL, c.userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return out, fmt.Errorf("building feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return out, fmt.Errorf("fetching feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return out, fmt.Errorf("feed request returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, fmt.Errorf("decoding feed response: %w", err)
	}

	c.csrfToken = out.CSRFToken
	return out, nil
}

// Load implements feed.Loader.
func (c *Client) Load(ctx context.Context) (feed.Page, error) {
	resp, err := c.LoadFeed(ctx)
	if err != nil {
		return feed.Page{}, err
	}
	return resp.Page, nil
}

// ToggleRead sends a single-record read-state mutation. A non-2xx status
// or a malformed body is a failure; the engine's fallback path handles it.
func (c *Client) ToggleRead(ctx context.Context, id int64, read bool) (feed.MutationResult, error) {
	return c.postMutation(ctx, toggleValues(id, read))
}

// MarkAllRead sends the bulk mutation.
func (c *Client) MarkAllRead(ctx context.Context) (feed.MutationResult, error) {
	return c.postMutation(ctx, url.Values{"action": {actionMarkAllRead}})
}

func toggleValues(id int64, read bool) url.Values {
	action := actionMarkRead
	if !read {
		action = actionMarkUnread
	}
	return url.Values{
		"action": {action},
		"id":     {strconv.FormatInt(id, 10)},
	}
}

func (c *Client) postMutation(ctx context.Context, values url.Values) (feed.MutationResult, error) {
	var out feed.MutationResult
	resp, err := c.post(ctx, values, "application/json")
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return out, fmt.Errorf("mutation returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, fmt.Errorf("decoding mutation response: %w", err)
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, values url.Values, accept string) (*http.Response, error) {
	if c.csrfToken == "" {
		return nil, ErrNoToken
	}
	values.Set("csrf_token", c.csrfToken)
	values.Set("user_id", strconv.FormatInt(c.userID, 10))

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost,
		c.baseURL+"/api/notifications",
		strings.NewReader(values.Encode()),
	)
	if err != nil {
		return nil, fmt.Errorf("building mutation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", accept)
	if accept == "application/json" {
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending mutation: %w", err)
	}
	return resp, nil
}

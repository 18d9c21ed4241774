package client

import (
	"context"
	"fmt"
	"io"
	"net/url"
)

// The fallback path is the plain form submission a browser would make with
// scripting unavailable: same endpoint, no JSON expectation. The request
// either lands (any non-error status below 400) or errors, so a failed
// optimistic mutation is retried at-least-once instead of silently dropped.

// SubmitToggle implements feed.FallbackSubmitter for single records.
func (c *Client) SubmitToggle(ctx context.Context, id int64, read bool) error {
	return c.submitForm(ctx, toggleValues(id, read))
}

// SubmitMarkAll implements feed.FallbackSubmitter for the bulk action.
func (c *Client) SubmitMarkAll(ctx context.Context) error {
	return c.submitForm(ctx, url.Values{"action": {actionMarkAllRead}})
}

func (c *Client) submitForm(ctx context.Context, values url.Values) error {
	resp, err := c.post(ctx, values, "text/html")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("fallback submission returned status %d", resp.StatusCode)
	}
	return nil
}

// Package relay provides the CORS-bypass relay client. The remote file
// index and the embed source site do not grant cross-origin access, so
// every fetch goes through an intermediary that retrieves the target
// server-side and returns its body.
package relay

import (
	"fmt"
	"io"
	"net/http"
	"net/url"

	"streamdex/internal/httputil"
)

// FetchError covers transport failures and non-2xx responses from the
// relay. It is recoverable by an explicit caller retry; the relay client
// never retries on its own.
type FetchError struct {
	Target string
	Status int // 0 when the request never produced a response
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetching %s: unexpected status %d", e.Target, e.Status)
	}
	return fmt.Sprintf("fetching %s: %v", e.Target, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client fetches remote URLs through a relay endpoint.
type Client struct {
	base   string // relay base URL
	client *http.Client
}

// New creates a relay client.
func New(base string) *Client {
	return &Client{
		base:   base,
		client: httputil.NewClient(),
	}
}

// RequestURL returns the relay URL that retrieves target.
func (c *Client) RequestURL(target string) string {
	return c.base + "/?url=" + url.QueryEscape(target)
}

// Fetch retrieves the body of target through the relay.
func (c *Client) Fetch(target string) ([]byte, error) {
	resp, err := httputil.Get(c.client, c.RequestURL(target))
	if err != nil {
		return nil, &FetchError{Target: target, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Target: target, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10*1024*1024))
	if err != nil {
		return nil, &FetchError{Target: target, Err: fmt.Errorf("reading body: %w", err)}
	}

	return body, nil
}

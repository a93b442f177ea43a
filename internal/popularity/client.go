// Package popularity talks to the external hit counter that backs the
// per-room popularity figure.  The counter is advisory: callers log its
// failures and carry on.
package popularity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client calls a counter service exposing GET {base}/hit/{ns}/{key} and
// GET {base}/get/{ns}/{key}, both answering {"value": n}.
type Client struct {
	baseURL   string
	namespace string
	http      *http.Client
}

func NewClient(baseURL, namespace string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		namespace: namespace,
		http:      &http.Client{Timeout: timeout},
	}
}

// Key is the counter key of a room.
func Key(roomNumber string) string { return "room-" + roomNumber }

// Hit increments the room's counter.
func (c *Client) Hit(ctx context.Context, roomNumber string) error {
	_, err := c.call(ctx, "hit", roomNumber)
	return err
}

// Get reads the room's counter.  A counter that was never hit reads as 0.
func (c *Client) Get(ctx context.Context, roomNumber string) (int64, error) {
	return c.call(ctx, "get", roomNumber)
}

type counterResponse struct {
	Value *int64 `json:"value"`
}

func (c *Client) call(ctx context.Context, op, roomNumber string) (int64, error) {
	u := fmt.Sprintf("%s/%s/%s/%s", c.baseURL, op,
		url.PathEscape(c.namespace), url.PathEscape(Key(roomNumber)))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("popularity %s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound && op == "get" {
		return 0, nil
	}
	if resp.StatusCode/100 != 2 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return 0, fmt.Errorf("popularity %s: unexpected status %d", op, resp.StatusCode)
	}
	var body counterResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body); err != nil {
		return 0, fmt.Errorf("popularity %s: decode: %w", op, err)
	}
	if body.Value == nil {
		return 0, nil
	}
	return *body.Value, nil
}

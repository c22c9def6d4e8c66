// Package client talks to the storefront HTTP API and keeps a local cart
// the way the browser front end does.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lithammer/shortuuid/v3"

	"github.com/iliyamo/lesson-booking/internal/model"
)

const correlationHeader = "Correlation-ID"

// APIError is a non-2xx response decoded from the server's error body.
type APIError struct {
	Status      int      `json:"-"`
	Code        string   `json:"error"`
	Message     string   `json:"message"`
	Unavailable []uint64 `json:"unavailable,omitempty"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
}

// Client is a typed wrapper over the storefront API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client for baseURL such as "http://localhost:8080".
// A nil hc gets a client with a 10s timeout.
func New(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

// ListLessons fetches the catalog, optionally sorted.
func (c *Client) ListLessons(ctx context.Context, sortBy, order string) ([]model.Lesson, error) {
	q := url.Values{}
	if sortBy != "" {
		q.Set("sortBy", sortBy)
		if order != "" {
			q.Set("order", order)
		}
	}
	var out []model.Lesson
	return out, c.do(ctx, http.MethodGet, "/api/lessons", q, nil, &out)
}

// SearchLessons runs a free-text search.
func (c *Client) SearchLessons(ctx context.Context, query string) ([]model.Lesson, error) {
	var out []model.Lesson
	return out, c.do(ctx, http.MethodGet, "/api/search", url.Values{"q": {query}}, nil, &out)
}

// PlaceOrder submits a cart.
func (c *Client) PlaceOrder(ctx context.Context, name, phone string, cart []model.CartLine) (*model.Order, error) {
	body := map[string]any{"name": name, "phone": phone, "cart": cart}
	var out model.Order
	if err := c.do(ctx, http.MethodPost, "/api/orders", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateSpaces sets a lesson's seat count outright.
func (c *Client) UpdateSpaces(ctx context.Context, id uint64, spaces int) (*model.Lesson, error) {
	var out model.Lesson
	path := "/api/lessons/" + strconv.FormatUint(id, 10)
	if err := c.do(ctx, http.MethodPut, path, nil, map[string]int{"spaces": spaces}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, in, out any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(correlationHeader, "cli_"+shortuuid.New())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

// Package apiclient wraps the remote item-collection and login endpoints.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/example/shopfront/internal/catalog"
)

// ItemFields is the client-supplied part of an item; the server assigns
// the id.
type ItemFields struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
}

// StatusError reports a non-2xx response. The status code is for
// diagnostics only and is never shown to the user; error bodies are
// not parsed.
type StatusError struct {
	Method string
	Path   string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.Status)
}

// Interface is the surface the core depends on; satisfied by *Client and
// by the test mock.
type Interface interface {
	ListItems(ctx context.Context) ([]catalog.Item, error)
	CreateItem(ctx context.Context, fields ItemFields) (catalog.Item, error)
	UpdateItem(ctx context.Context, id int64, fields ItemFields) (catalog.Item, error)
	DeleteItem(ctx context.Context, id int64) error
	Login(ctx context.Context, username, password string) (string, error)
}

type Client struct {
	baseURL string
	httpc   *http.Client

	mu    sync.RWMutex
	token string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken sets the bearer token attached to subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) ListItems(ctx context.Context) ([]catalog.Item, error) {
	var resp struct {
		Items []catalog.Item `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/items", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *Client) CreateItem(ctx context.Context, fields ItemFields) (catalog.Item, error) {
	var item catalog.Item
	if err := c.do(ctx, http.MethodPost, "/api/items", fields, &item); err != nil {
		return catalog.Item{}, err
	}
	return item, nil
}

// UpdateItem sends the full replacement record, not a partial patch.
func (c *Client) UpdateItem(ctx context.Context, id int64, fields ItemFields) (catalog.Item, error) {
	var item catalog.Item
	path := fmt.Sprintf("/api/items/%d", id)
	if err := c.do(ctx, http.MethodPut, path, fields, &item); err != nil {
		return catalog.Item{}, err
	}
	return item, nil
}

func (c *Client) DeleteItem(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/items/%d", id)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	body := map[string]string{"username": username, "password": password}
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/login", body, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("X-Request-ID", uuid.New().String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.mu.RLock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.mu.RUnlock()

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return &StatusError{Method: method, Path: path, Status: resp.StatusCode}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%s %s: decode response: %w", method, path, err)
		}
	}
	return nil
}

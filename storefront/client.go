// Package storefront is the Go client for the Game Shop Nepal API. It
// implements the customer-facing flow end to end: OTP login, session
// persistence across restarts, product lookup and order submission.
package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Sentinel errors surfaced before any network call is made.
var (
	ErrEmptyPhone       = errors.New("phone number is required")
	ErrEmptyCode        = errors.New("verification code is required")
	ErrMissingFields    = errors.New("name and phone are required")
	ErrWrongStep        = errors.New("login flow is not at the verification step")
	ErrBusy             = errors.New("another request is already in flight")
	ErrNotAuthenticated = errors.New("not authenticated")
)

// APIError carries the backend's human-readable failure detail.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Detail)
}

// Customer is the authenticated profile as served by the backend.
// TotalSpent is paisa.
type Customer struct {
	ID          string `json:"id"`
	Phone       string `json:"phone"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	TotalOrders int    `json:"total_orders"`
	TotalSpent  int64  `json:"total_spent"`
}

// Client talks to the Game Shop Nepal API. One client holds at most one
// session: a token and the matching customer profile, both nil until a
// login or restore succeeds.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      TokenStore

	mu       sync.RWMutex
	token    string
	customer *Customer

	submitMu   sync.Mutex
	submitting bool
}

// New builds a client for the given API base URL. A nil store keeps the
// token in memory only.
func New(baseURL string, store TokenStore) *Client {
	if store == nil {
		store = &MemoryTokenStore{}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		store:      store,
	}
}

// Token returns the current session token, empty when logged out.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Customer returns the cached profile, nil when logged out.
func (c *Client) Customer() *Customer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.customer
}

// IsLoggedIn reports whether a profile is held in memory.
func (c *Client) IsLoggedIn() bool {
	return c.Customer() != nil
}

func (c *Client) setSession(token string, customer *Customer) {
	c.mu.Lock()
	c.token = token
	c.customer = customer
	c.mu.Unlock()
}

// RestoreSession attempts to resume a previous session from the token
// store. It is meant to run once at startup. Any failure of the profile
// fetch clears the stored token: an invalid and an unreachable backend
// both leave the user logged out, and no retry is attempted.
func (c *Client) RestoreSession(ctx context.Context) error {
	token, err := c.store.Load()
	if err != nil {
		return fmt.Errorf("load token: %w", err)
	}
	if token == "" {
		return nil
	}

	var customer Customer
	if err := c.do(ctx, http.MethodGet, "/api/customers/me", nil, token, &customer); err != nil {
		_ = c.store.Clear()
		c.setSession("", nil)
		return fmt.Errorf("restore session: %w", err)
	}

	c.setSession(token, &customer)
	return nil
}

// Logout clears the session. In-memory state is always cleared; the
// returned error reports a failed durable delete only.
func (c *Client) Logout() error {
	c.setSession("", nil)
	return c.store.Clear()
}

// UpdateProfile updates the authenticated customer's name and email and
// refreshes the cached profile.
func (c *Client) UpdateProfile(ctx context.Context, name, email string) (*Customer, error) {
	token := c.Token()
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	payload := map[string]string{"name": name, "email": email}
	var customer Customer
	if err := c.do(ctx, http.MethodPut, "/api/customers/me", payload, token, &customer); err != nil {
		return nil, err
	}

	c.setSession(token, &customer)
	return &customer, nil
}

// MyOrders returns the authenticated customer's order history.
func (c *Client) MyOrders(ctx context.Context) ([]OrderSummary, error) {
	token := c.Token()
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	var orders []OrderSummary
	if err := c.do(ctx, http.MethodGet, "/api/customers/me/orders", nil, token, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetProduct fetches a single product with its variations.
func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	var product Product
	if err := c.do(ctx, http.MethodGet, "/api/products/"+id, nil, "", &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any, token string, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Detail: "request failed"}
		var detail struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(respBody, &detail) == nil && detail.Detail != "" {
			apiErr.Detail = detail.Detail
		}
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}

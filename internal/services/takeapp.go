package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"
)

// Package-level token cache guarded by a mutex to allow safe reuse across requests.
var (
	takeAppToken       string
	takeAppTokenExpiry time.Time
	takeAppTokenMu     sync.RWMutex
	takeAppHTTPClient  = &http.Client{Timeout: 15 * time.Second}
)

const (
	defaultTakeAppBaseURL = "https://api.take.app/v1"
	takeAppTokenLeeway    = 30 * time.Second
)

// ErrTakeAppDisabled is returned when no API key is configured.
var ErrTakeAppDisabled = errors.New("take.app integration is disabled")

type takeAppAuthRequest struct {
	APIKey string `json:"api_key"`
}

type takeAppAuthResponse struct {
	Data struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	} `json:"data"`
	Error any `json:"error,omitempty"`
}

// TakeAppRequestOpts captures inputs for Take.app API calls.
type TakeAppRequestOpts struct {
	Method string
	Path   string
	Query  map[string]string
	Body   any
	Token  string
}

// TakeAppResponse bundles the HTTP response metadata.
type TakeAppResponse struct {
	Status int
	Body   []byte
	Header http.Header
}

// TakeAppBaseURL exposes the configured Take.app API base URL.
func TakeAppBaseURL() string {
	baseURL := strings.TrimSpace(os.Getenv("TAKEAPP_BASE_URL"))
	if baseURL == "" {
		return defaultTakeAppBaseURL
	}
	return strings.TrimRight(baseURL, "/")
}

// TakeAppEnabled reports whether a Take.app API key is configured.
func TakeAppEnabled() bool {
	return strings.TrimSpace(os.Getenv("TAKEAPP_API_KEY")) != ""
}

// GetTakeAppToken returns a cached Take.app access token, fetching a new one if needed.
func GetTakeAppToken() (string, error) {
	return getTakeAppToken(false)
}

// RefreshTakeAppToken forces retrieval of a fresh Take.app access token.
func RefreshTakeAppToken() (string, error) {
	return getTakeAppToken(true)
}

func getTakeAppToken(force bool) (string, error) {
	if !force {
		if token, ok := cachedTakeAppToken(); ok {
			return token, nil
		}
	}

	takeAppTokenMu.Lock()
	defer takeAppTokenMu.Unlock()

	// Check again in case another goroutine refreshed while we waited for the lock.
	if !force {
		if token := currentTakeAppTokenLocked(); token != "" {
			return token, nil
		}
	}

	apiKey := strings.TrimSpace(os.Getenv("TAKEAPP_API_KEY"))
	if apiKey == "" {
		return "", ErrTakeAppDisabled
	}

	authURL := strings.TrimSpace(os.Getenv("TAKEAPP_AUTH_URL"))
	if authURL == "" {
		authURL = TakeAppBaseURL() + "/auth/token"
	}

	body, err := json.Marshal(takeAppAuthRequest{APIKey: apiKey})
	if err != nil {
		return "", fmt.Errorf("marshal Take.app auth payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, authURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create Take.app auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := takeAppHTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute Take.app auth request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read Take.app auth response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("Take.app auth request failed: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var authResp takeAppAuthResponse
	if err := json.Unmarshal(respBody, &authResp); err != nil {
		return "", fmt.Errorf("unmarshal Take.app auth response: %w", err)
	}

	if authResp.Data.AccessToken == "" {
		return "", errors.New("Take.app auth response missing access_token")
	}

	takeAppToken = authResp.Data.AccessToken
	if authResp.Data.ExpiresIn > 0 {
		takeAppTokenExpiry = time.Now().Add(time.Duration(authResp.Data.ExpiresIn) * time.Second)
	} else {
		// Fallback to a short lifetime when expiry is not provided.
		takeAppTokenExpiry = time.Now().Add(5 * time.Minute)
	}

	return takeAppToken, nil
}

func cachedTakeAppToken() (string, bool) {
	takeAppTokenMu.RLock()
	defer takeAppTokenMu.RUnlock()

	token := currentTakeAppTokenLocked()
	if token == "" {
		return "", false
	}
	return token, true
}

func currentTakeAppTokenLocked() string {
	if takeAppToken == "" {
		return ""
	}
	if takeAppTokenExpiry.IsZero() {
		return takeAppToken
	}
	if time.Now().Add(takeAppTokenLeeway).After(takeAppTokenExpiry) {
		return ""
	}
	return takeAppToken
}

// DoTakeAppRequest performs a generic Take.app API request, retrying once on 401.
func DoTakeAppRequest(opts TakeAppRequestOpts) (*TakeAppResponse, error) {
	if opts.Method == "" {
		return nil, errors.New("request method is required")
	}
	path := strings.TrimLeft(opts.Path, "/")
	if path == "" {
		return nil, errors.New("request path is required")
	}

	makeURL := func() (string, error) {
		u, err := url.Parse(TakeAppBaseURL())
		if err != nil {
			return "", fmt.Errorf("parse Take.app base URL: %w", err)
		}
		u.Path = strings.TrimRight(u.Path, "/") + "/" + path
		if len(opts.Query) > 0 {
			values := u.Query()
			for k, v := range opts.Query {
				values.Set(k, v)
			}
			u.RawQuery = values.Encode()
		}
		return u.String(), nil
	}

	buildRequest := func(token string) (*http.Request, error) {
		targetURL, err := makeURL()
		if err != nil {
			return nil, err
		}

		var bodyReader io.Reader
		if opts.Body != nil {
			payload, err := json.Marshal(opts.Body)
			if err != nil {
				return nil, fmt.Errorf("marshal request body: %w", err)
			}
			bodyReader = bytes.NewReader(payload)
		}

		req, err := http.NewRequest(opts.Method, targetURL, bodyReader)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}

		if opts.Body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		return req, nil
	}

	token := opts.Token
	if token == "" {
		var err error
		token, err = GetTakeAppToken()
		if err != nil {
			return nil, err
		}
	}

	do := func(req *http.Request) (*TakeAppResponse, error) {
		resp, err := takeAppHTTPClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("execute request: %w", err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}

		return &TakeAppResponse{
			Status: resp.StatusCode,
			Body:   respBody,
			Header: resp.Header.Clone(),
		}, nil
	}

	req, err := buildRequest(token)
	if err != nil {
		return nil, err
	}

	resp, err := do(req)
	if err != nil {
		return nil, err
	}

	if resp.Status != http.StatusUnauthorized || opts.Token != "" {
		return resp, nil
	}

	// Token likely expired; refresh and retry once.
	token, err = RefreshTakeAppToken()
	if err != nil {
		return nil, err
	}

	req, err = buildRequest(token)
	if err != nil {
		return nil, err
	}

	return do(req)
}

// TakeAppOrderItem is a single order line mirrored into Take.app.
type TakeAppOrderItem struct {
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	Variation string `json:"variation,omitempty"`
}

// TakeAppOrderPayload is the order mirror request.
type TakeAppOrderPayload struct {
	CustomerName  string             `json:"customer_name"`
	CustomerPhone string             `json:"customer_phone"`
	CustomerEmail string             `json:"customer_email,omitempty"`
	Items         []TakeAppOrderItem `json:"items"`
	TotalAmount   int64              `json:"total_amount"`
	Remark        string             `json:"remark,omitempty"`
}

// TakeAppOrderResult is the subset of the mirror response the shop records.
type TakeAppOrderResult struct {
	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number"`
}

// CreateTakeAppOrder mirrors a shop order into Take.app and returns the
// external order identifiers.
func CreateTakeAppOrder(payload TakeAppOrderPayload) (*TakeAppOrderResult, error) {
	if !TakeAppEnabled() {
		return nil, ErrTakeAppDisabled
	}

	resp, err := DoTakeAppRequest(TakeAppRequestOpts{
		Method: http.MethodPost,
		Path:   "orders",
		Body:   payload,
	})
	if err != nil {
		return nil, fmt.Errorf("take.app create order: %w", err)
	}

	if resp.Status < 200 || resp.Status >= 300 {
		return nil, fmt.Errorf("take.app create order: status %d, body: %s", resp.Status, string(resp.Body))
	}

	var result struct {
		Data TakeAppOrderResult `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("take.app create order unmarshal: %w", err)
	}

	if result.Data.OrderID == "" {
		return nil, errors.New("take.app create order: response missing order_id")
	}

	return &result.Data, nil
}

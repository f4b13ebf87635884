package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"
)

// APIError is any non-2xx answer from the backend, decoded from the
// standard {"error": {...}, "detail": "..."} envelope.
type APIError struct {
	StatusCode int
	Code       string
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

type Options struct {
	// BaseURL including the /api prefix, e.g. "http://localhost:4000/api".
	BaseURL string
	Store   TokenStore
	// OnLogout runs after the session is torn down, locally or because
	// a refresh failed.
	OnLogout   func()
	HTTPClient *http.Client
}

// Client is the request pipeline: bearer attach on the way out, one
// refresh-and-retry on a 401 on the way back.
type Client struct {
	baseURL string
	http    *http.Client
	// refreshHTTP is a bare client with a cookie jar so the
	// httponly-cookie refresh variant works. Refresh calls never go
	// through the 401 pipeline, which would recurse.
	refreshHTTP *http.Client
	store       TokenStore
	onLogout    func()

	refreshMu sync.Mutex
}

func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}
	if _, err := url.Parse(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	store := opts.Store
	if store == nil {
		store = NewMemoryTokenStore()
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		http:        httpClient,
		refreshHTTP: &http.Client{Timeout: httpClient.Timeout, Jar: jar},
		store:       store,
		onLogout:    opts.OnLogout,
	}, nil
}

func (c *Client) Store() TokenStore { return c.store }

// authPaths never trigger the refresh-retry pipeline: a 401 from login
// means bad credentials, and a 401 from refresh means the session is
// dead.
func isAuthPath(path string) bool {
	return path == "/token/" || strings.HasPrefix(path, "/auth/")
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	return c.send(ctx, method, path, body, out, 0)
}

// send carries an explicit attempt counter; attempt 0 is the original
// request, attempt 1 the single post-refresh retry.
func (c *Client) send(ctx context.Context, method, path string, body, out interface{}, attempt int) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if creds, ok := c.store.Get(); ok {
		req.Header.Set("Authorization", "Bearer "+creds.AccessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out != nil && len(respBody) > 0 {
			return json.Unmarshal(respBody, out)
		}
		return nil
	}

	apiErr := decodeAPIError(resp.StatusCode, respBody)

	if resp.StatusCode == http.StatusUnauthorized && attempt == 0 && !isAuthPath(path) {
		if _, refreshErr := c.Refresh(ctx); refreshErr == nil {
			return c.send(ctx, method, path, body, out, attempt+1)
		}
		c.teardown(ctx)
		return apiErr
	}
	if resp.StatusCode == http.StatusUnauthorized && attempt > 0 {
		// Refreshed token still rejected; session is dead.
		c.teardown(ctx)
	}

	return apiErr
}

func decodeAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var envelope struct {
		Detail string `json:"detail"`
		Error  struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		apiErr.Code = envelope.Error.Code
		apiErr.Detail = envelope.Detail
		if apiErr.Detail == "" {
			apiErr.Detail = envelope.Error.Message
		}
	}
	return apiErr
}

// Refresh exchanges the stored refresh token (or the httponly cookie)
// for a new access token. Concurrent callers share one exchange.
func (c *Client) Refresh(ctx context.Context) (string, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	creds, _ := c.store.Get()

	var reqBody io.Reader
	if creds.RefreshToken != "" {
		data, err := json.Marshal(map[string]string{"refresh": creds.RefreshToken})
		if err != nil {
			return "", err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/refresh/", reqBody)
	if err != nil {
		return "", err
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.refreshHTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", decodeAPIError(resp.StatusCode, respBody)
	}

	var pair TokenPair
	if err := json.Unmarshal(respBody, &pair); err != nil {
		return "", err
	}
	if pair.Access == "" {
		return "", errors.New("refresh response missing access token")
	}

	creds.AccessToken = pair.Access
	if pair.Refresh != "" {
		creds.RefreshToken = pair.Refresh
	}
	if err := c.store.Set(creds); err != nil {
		return "", err
	}
	return pair.Access, nil
}

// Logout tears the session down. The backend call is best effort; the
// local store is always cleared.
func (c *Client) Logout(ctx context.Context) {
	creds, ok := c.store.Get()
	if ok {
		body := map[string]string{}
		if creds.RefreshToken != "" {
			body["refresh"] = creds.RefreshToken
		}
		_ = c.do(ctx, http.MethodPost, "/auth/logout/", body, nil)
	}
	c.teardown(ctx)
}

func (c *Client) teardown(_ context.Context) {
	_ = c.store.Clear()
	if c.onLogout != nil {
		c.onLogout()
	}
}

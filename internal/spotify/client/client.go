// Package client is a small Spotify Web API client with token refresh and
// retry handling.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	clierrors "github.com/tessro/clickwheel/internal/errors"
	"github.com/tessro/clickwheel/internal/spotify/auth"
)

const (
	// BaseURL is the Spotify Web API base URL.
	BaseURL = "https://api.spotify.com/v1"

	// Retry configuration for transient errors
	maxRetries    = 3
	baseRetryWait = 500 * time.Millisecond
	maxRetryAfter = 10 * time.Second
)

// Client is a Spotify API client. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     *auth.TokenClient
	storage    *auth.TokenStorage
	log        *zap.Logger
	retryWait  time.Duration

	mu    sync.Mutex
	token *auth.Token
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient sets the HTTP client used for API requests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithLogger sets the logger for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithRetryWait sets the base backoff between retries.
func WithRetryWait(d time.Duration) Option {
	return func(c *Client) { c.retryWait = d }
}

// New creates a new Spotify client. Tokens are refreshed through tokens and
// persisted to storage.
func New(tokens *auth.TokenClient, storage *auth.TokenStorage, opts ...Option) *Client {
	c := &Client{
		baseURL:    BaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		tokens:     tokens,
		storage:    storage,
		log:        zap.NewNop(),
		retryWait:  baseRetryWait,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoadToken loads the token from storage.
func (c *Client) LoadToken() error {
	token, err := c.storage.Load()
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
	return nil
}

// SetToken sets the current token and persists it.
func (c *Client) SetToken(token *auth.Token) error {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
	return c.storage.Save(token)
}

// ClearToken forgets the current token and deletes it from storage.
func (c *Client) ClearToken() error {
	c.mu.Lock()
	c.token = nil
	c.mu.Unlock()
	return c.storage.Delete()
}

// HasToken returns true if there's any token (even if expired).
func (c *Client) HasToken() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token != nil
}

// IsAuthenticated returns true if there's a non-expired token.
func (c *Client) IsAuthenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token != nil && !c.token.IsExpired()
}

// accessToken returns a usable access token. An expired token is refreshed
// first; force refreshes regardless of expiry.
func (c *Client) accessToken(ctx context.Context, force bool) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token == nil {
		return "", clierrors.ErrNotAuthenticated
	}

	if !force && !c.token.IsExpired() {
		return c.token.AccessToken, nil
	}

	if c.token.RefreshToken == "" {
		return "", fmt.Errorf("token expired and cannot be refreshed: %w", clierrors.ErrNotAuthenticated)
	}

	c.log.Debug("refreshing access token", zap.Bool("forced", force))
	newToken, err := c.tokens.Refresh(ctx, c.token.RefreshToken)
	if err != nil {
		return "", fmt.Errorf("failed to refresh token: %w", err)
	}

	c.token = newToken
	if err := c.storage.Save(newToken); err != nil {
		c.log.Warn("failed to persist refreshed token", zap.Error(err))
	}
	return newToken.AccessToken, nil
}

// Get performs a GET request to the Spotify API.
func (c *Client) Get(ctx context.Context, path string, result interface{}) error {
	return c.request(ctx, http.MethodGet, path, nil, result)
}

// Post performs a POST request to the Spotify API.
func (c *Client) Post(ctx context.Context, path string, body interface{}, result interface{}) error {
	return c.request(ctx, http.MethodPost, path, body, result)
}

// Put performs a PUT request to the Spotify API.
func (c *Client) Put(ctx context.Context, path string, body interface{}, result interface{}) error {
	return c.request(ctx, http.MethodPut, path, body, result)
}

func (c *Client) request(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	token, err := c.accessToken(ctx, false)
	if err != nil {
		return err
	}

	var jsonBody []byte
	if body != nil {
		jsonBody, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	fullURL := c.baseURL + path
	log := c.log.With(zap.String("method", method), zap.String("url", fullURL))
	log.Debug("spotify request")

	refreshed := false
	var lastErr error
	var wait time.Duration

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			if wait == 0 {
				wait = c.retryWait * time.Duration(1<<(attempt-1))
			}
			log.Debug("retrying", zap.Int("attempt", attempt), zap.Duration("wait", wait), zap.Error(lastErr))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
			wait = 0
		}

		var bodyReader io.Reader
		if jsonBody != nil {
			bodyReader = bytes.NewReader(jsonBody)
		}

		req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Authorization", "Bearer "+token)
		if jsonBody != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = fmt.Errorf("%w: %v", clierrors.ErrNetworkError, err)
			log.Debug("network error", zap.Error(err))
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response: %w", err)
			continue
		}

		log.Debug("spotify response", zap.Int("status", resp.StatusCode))

		switch {
		case resp.StatusCode == http.StatusUnauthorized && !refreshed:
			// The token may have been revoked early; refresh once and retry
			// without spending a retry attempt.
			refreshed = true
			token, err = c.accessToken(ctx, true)
			if err != nil {
				return err
			}
			attempt--
			continue

		case resp.StatusCode == http.StatusTooManyRequests:
			lastErr = parseAPIError(resp.StatusCode, respBody)
			wait = retryAfter(resp.Header.Get("Retry-After"))
			log.Warn("rate limited", zap.Duration("retry_after", wait))
			continue

		case resp.StatusCode >= 500:
			lastErr = parseAPIError(resp.StatusCode, respBody)
			continue

		case resp.StatusCode >= 400:
			return parseAPIError(resp.StatusCode, respBody)
		}

		if result != nil && len(respBody) > 0 && resp.StatusCode != http.StatusNoContent {
			if err := json.Unmarshal(respBody, result); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}
		}
		return nil
	}

	return fmt.Errorf("request failed after %d retries: %w", maxRetries, lastErr)
}

// retryAfter parses a Retry-After header in seconds, capped at maxRetryAfter.
func retryAfter(h string) time.Duration {
	secs, err := strconv.Atoi(h)
	if err != nil || secs <= 0 {
		return time.Second
	}
	d := time.Duration(secs) * time.Second
	if d > maxRetryAfter {
		return maxRetryAfter
	}
	return d
}

// APIError represents a Spotify API error response.
type APIError struct {
	ErrorInfo struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
		Reason  string `json:"reason,omitempty"`
	} `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Spotify API error %d: %s", e.ErrorInfo.Status, e.ErrorInfo.Message)
}

// Unwrap maps well-known statuses onto the shared sentinel errors so that
// callers can use errors.Is.
func (e *APIError) Unwrap() error {
	switch e.ErrorInfo.Status {
	case http.StatusUnauthorized:
		return clierrors.ErrNotAuthenticated
	case http.StatusForbidden:
		if e.ErrorInfo.Reason == "PREMIUM_REQUIRED" {
			return clierrors.ErrPremiumRequired
		}
	case http.StatusNotFound:
		if e.ErrorInfo.Reason == "NO_ACTIVE_DEVICE" {
			return clierrors.ErrNoActiveDevice
		}
	case http.StatusTooManyRequests:
		return clierrors.ErrRateLimited
	}
	return nil
}

func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.ErrorInfo.Message == "" {
		apiErr.ErrorInfo.Message = http.StatusText(status)
	}
	apiErr.ErrorInfo.Status = status
	return apiErr
}

// IsNoActiveDeviceError reports whether err means no device is playing.
func IsNoActiveDeviceError(err error) bool {
	if errors.Is(err, clierrors.ErrNoActiveDevice) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.ErrorInfo.Status == http.StatusNotFound
}

// IsAlreadyPlayingError reports a 403 "restriction violated" error, which
// Spotify returns when resuming playback that is already active.
func IsAlreadyPlayingError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.ErrorInfo.Status == http.StatusForbidden &&
		apiErr.ErrorInfo.Reason != "PREMIUM_REQUIRED"
}

// BuildURL builds a URL with query parameters.
func BuildURL(path string, params map[string]string) string {
	if len(params) == 0 {
		return path
	}

	u, _ := url.Parse(path)
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

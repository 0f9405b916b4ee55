package tasksdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultRefreshTimeout bounds the silent refresh round-trip so a stalled
// token endpoint cannot wedge every authenticated call behind it.
const DefaultRefreshTimeout = 10 * time.Second

// Client talks to a taskrail server. It is safe for concurrent use.
type Client struct {
	// BaseURL is the server root, without a trailing slash.
	BaseURL string

	// HTTPClient carries the cookie jar that holds the refresh cookie.
	// Replacing it with a jar-less client disables silent refresh.
	HTTPClient *http.Client

	// RefreshTimeout bounds the refresh round-trip. Defaults to
	// DefaultRefreshTimeout.
	RefreshTimeout time.Duration

	mu          sync.RWMutex
	accessToken string

	refreshGroup singleflight.Group
}

// NewClient builds a Client with its own cookie jar.
func NewClient(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("tasksdk: create cookie jar: %w", err)
	}

	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
		},
		RefreshTimeout: DefaultRefreshTimeout,
	}, nil
}

// AccessToken returns the access token currently held by the client, or the
// empty string when no session is active.
func (c *Client) AccessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

func (c *Client) setAccessToken(token string) {
	c.mu.Lock()
	c.accessToken = token
	c.mu.Unlock()
}

// Register creates an account. It does not log in; call Login afterwards.
func (c *Client) Register(ctx context.Context, email, password string) (RegisterResponse, error) {
	var out RegisterResponse
	resp, err := c.send(ctx, http.MethodPost, "/auth/register", CredentialsRequest{Email: email, Password: password}, false)
	if err != nil {
		return out, err
	}
	err = decodeJSON(resp, &out, http.StatusCreated)
	return out, err
}

// Login authenticates and primes the client: the access token is stored in
// memory and the refresh cookie lands in the jar.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	var out LoginResponse
	resp, err := c.send(ctx, http.MethodPost, "/auth/login", CredentialsRequest{Email: email, Password: password}, false)
	if err != nil {
		return out, err
	}
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return LoginResponse{}, err
	}
	c.setAccessToken(out.AccessToken)
	return out, nil
}

// Logout drops the session on both sides: the server clears the refresh
// cookie and the client forgets its access token. Safe to call without an
// active session.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.send(ctx, http.MethodPost, "/auth/logout", nil, false)
	if err != nil {
		return err
	}
	c.setAccessToken("")
	var out MessageResponse
	return decodeJSON(resp, &out, http.StatusOK)
}

// refresh exchanges the refresh cookie for a new access token. Concurrent
// callers coalesce onto one round-trip; everyone gets its outcome.
func (c *Client) refresh(ctx context.Context) error {
	_, err, _ := c.refreshGroup.Do("refresh", func() (any, error) {
		// The shared round-trip must not die with the first caller that
		// gives up, so it detaches from the caller's cancellation and
		// runs under its own deadline.
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.refreshTimeout())
		defer cancel()

		resp, err := c.send(rctx, http.MethodPost, "/auth/refresh", nil, false)
		if err != nil {
			return nil, err
		}
		var out RefreshResponse
		if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
			c.setAccessToken("")
			return nil, err
		}
		c.setAccessToken(out.AccessToken)
		return nil, nil
	})
	return err
}

func (c *Client) refreshTimeout() time.Duration {
	if c.RefreshTimeout > 0 {
		return c.RefreshTimeout
	}
	return DefaultRefreshTimeout
}

// do performs an authenticated request. A 401 answer triggers one silent
// refresh followed by one retry of the original request; a second 401 is
// returned to the caller as-is.
func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	resp, err := c.send(ctx, method, path, body, true)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	drainAndClose(resp)
	if err := c.refresh(ctx); err != nil {
		return nil, err
	}
	return c.send(ctx, method, path, body, true)
}

// send builds and executes a single HTTP request. The body is re-marshaled
// on every call so retries never reuse a consumed reader.
func (c *Client) send(ctx context.Context, method, path string, body any, authed bool) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("tasksdk: encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("tasksdk: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if authed {
		if token := c.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tasksdk: %s %s: %w", method, path, err)
	}
	return resp, nil
}

// decodeJSON closes the response, reads the body once, and either decodes it
// into target or turns it into an *APIError when the status is unexpected.
func decodeJSON(resp *http.Response, target any, expectedStatus int) error {
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("tasksdk: read response body: %w", err)
	}
	if resp.StatusCode != expectedStatus {
		return parseErrorResponse(resp.StatusCode, payload)
	}
	if target == nil || len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, target); err != nil {
		return fmt.Errorf("tasksdk: decode response body: %w", err)
	}
	return nil
}

func drainAndClose(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

// Package apiclient is the Go client for the UrbanCart HTTP API.
//
// Authentication is cookie based. When a protected request comes back 401
// the client refreshes the session exactly once per burst: concurrent 401s
// share a single refresh call and every caller replays its request once
// after the refresh succeeds.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const defaultTimeout = 30 * time.Second

// APIError is a non-2xx response from the platform.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client talks to the UrbanCart API gateway.
type Client struct {
	baseURL     *url.URL
	httpClient  *http.Client
	refreshPath string

	refreshGroup singleflight.Group

	authFailureMu sync.Mutex
	onAuthFailure func(error)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. A cookie jar is
// attached if the client has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithAuthFailureHandler sets the callback fired when a session refresh
// fails. It fires once per failed refresh, not once per waiting request.
func WithAuthFailureHandler(fn func(error)) Option {
	return func(c *Client) { c.onAuthFailure = fn }
}

// WithRefreshPath overrides the token refresh endpoint.
func WithRefreshPath(path string) Option {
	return func(c *Client) { c.refreshPath = path }
}

// New creates a Client for the given base URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	c := &Client{
		baseURL:     parsed,
		refreshPath: "/api/auth/refresh-token",
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if c.httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		c.httpClient.Jar = jar
	}
	return c, nil
}

type requestOptions struct {
	public bool
}

// RequestOption configures a single request.
type RequestOption func(*requestOptions)

// Public marks a request as not requiring a session. Public requests never
// trigger a refresh on 401.
func Public() RequestOption {
	return func(o *requestOptions) { o.public = true }
}

// Get issues a GET and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out interface{}, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodGet, path, nil, out, opts...)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out interface{}, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPost, path, body, out, opts...)
}

// Patch issues a PATCH with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out interface{}, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPatch, path, body, out, opts...)
}

// Put issues a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out interface{}, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPut, path, body, out, opts...)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string, out interface{}, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out, opts...)
}

// Do sends one API request. A protected request that gets a 401 triggers a
// shared session refresh and is replayed at most once.
func (c *Client) Do(ctx context.Context, method, path string, body, out interface{}, opts ...RequestOption) error {
	var reqOpts requestOptions
	for _, opt := range opts {
		opt(&reqOpts)
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
	}

	resp, err := c.send(ctx, method, path, payload)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized && !reqOpts.public {
		drain(resp)
		if err := c.refresh(ctx); err != nil {
			return err
		}
		// Exactly one replay per request.
		resp, err = c.send(ctx, method, path, payload)
		if err != nil {
			return err
		}
	}

	return decode(resp, out)
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte) (*http.Response, error) {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path), bodyReader)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	return c.httpClient.Do(req)
}

// refresh runs the token refresh endpoint, with at most one outstanding
// call process-wide. Concurrent callers share the result.
func (c *Client) refresh(ctx context.Context) error {
	_, err, _ := c.refreshGroup.Do("refresh", func() (interface{}, error) {
		resp, err := c.send(ctx, http.MethodPost, c.refreshPath, nil)
		if err != nil {
			c.fireAuthFailure(err)
			return nil, err
		}
		defer drain(resp)

		if resp.StatusCode != http.StatusOK {
			err := &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp)}
			c.fireAuthFailure(err)
			return nil, err
		}
		return nil, nil
	})
	return err
}

func (c *Client) fireAuthFailure(err error) {
	c.authFailureMu.Lock()
	fn := c.onAuthFailure
	c.authFailureMu.Unlock()
	if fn != nil {
		fn(err)
	}
}

func (c *Client) resolve(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	ref := *c.baseURL
	ref.Path = strings.TrimSuffix(ref.Path, "/") + path
	return ref.String()
}

func decode(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp)}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func errorMessage(resp *http.Response) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil || len(data) == 0 {
		return resp.Status
	}

	var parsed struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &parsed); err == nil {
		if parsed.Error != "" {
			return parsed.Error
		}
		if parsed.Message != "" {
			return parsed.Message
		}
	}
	return strings.TrimSpace(string(data))
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

// Package directoryapi is a typed client for The Direct Tree REST backend.
package directoryapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultTimeout bounds a single backend round trip
const DefaultTimeout = 30 * time.Second

// maxResponseBytes caps how much of a response body is read
const maxResponseBytes = 16 << 20

// CredentialSource supplies the bearer token for each outgoing request.
// It is consulted per request, so clearing it takes effect immediately.
type CredentialSource interface {
	Token() string
}

// StaticToken is a fixed CredentialSource
type StaticToken string

// Token returns the fixed token
func (t StaticToken) Token() string { return string(t) }

// Observer receives one call per backend round trip. Status is 0 when no
// response was received.
type Observer interface {
	ObserveRequest(method, route string, status int, duration time.Duration)
}

// Client calls the directory backend. It is safe for concurrent use; use
// WithCredentials to derive a per-session view sharing the same transport.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	credentials CredentialSource
	observer    Observer
	logger      *logrus.Logger
	userAgent   string
}

// Option configures the client.
type Option func(*Client)

// New creates a client for baseURL, which includes the API prefix
// (for example https://api.thedirecttree.com/api).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger:    logrus.StandardLogger(),
		userAgent: "directory-gateway",
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// WithTimeout sets the HTTP timeout. Zero leaves requests bounded only by
// their context and the transport defaults.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithObserver installs a per-request observer (metrics)
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// WithLogger sets the logger used for request tracing
func WithLogger(l *logrus.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithCredentials returns a copy of the client that authenticates with src
func (c *Client) WithCredentials(src CredentialSource) *Client {
	cp := *c
	cp.credentials = src
	return &cp
}

// BaseURL returns the configured backend URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// request describes one backend call. route is the path template used as the
// metrics label; path is the concrete, escaped path.
type request struct {
	method      string
	route       string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
}

func (c *Client) newJSONRequest(method, route, path string, query url.Values, in any) (*request, error) {
	req := &request{method: method, route: route, path: path, query: query}
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s body: %w", route, err)
		}
		req.body = bytes.NewReader(b)
		req.contentType = "application/json"
	}
	return req, nil
}

// send performs the round trip and returns the body of a 2xx response
func (c *Client) send(ctx context.Context, r *request) ([]byte, error) {
	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, r.method, target, r.body)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s %s request: %w", r.method, r.route, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		httpReq.Header.Set("Content-Type", r.contentType)
	}
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}
	hasAuth := false
	if c.credentials != nil {
		if token := c.credentials.Token(); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
			hasAuth = true
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	elapsed := time.Since(start)
	if err != nil {
		c.observe(r, 0, elapsed)
		c.logger.WithFields(logrus.Fields{
			"method":   r.method,
			"route":    r.route,
			"has_auth": hasAuth,
		}).WithError(err).Warn("Backend request failed")
		return nil, &TransportError{Method: r.method, Route: r.route, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	c.observe(r, resp.StatusCode, elapsed)
	if err != nil {
		return nil, &TransportError{Method: r.method, Route: r.route, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	entry := c.logger.WithFields(logrus.Fields{
		"method":     r.method,
		"route":      r.route,
		"status":     resp.StatusCode,
		"latency_ms": elapsed.Milliseconds(),
		"has_auth":   hasAuth,
	})

	if resp.StatusCode >= 400 {
		apiErr := newAPIError(r.route, resp.StatusCode, body)
		entry.WithField("detail", apiErr.Detail).Info("Backend rejected request")
		return nil, apiErr
	}

	entry.Debug("Backend request completed")
	return body, nil
}

func (c *Client) observe(r *request, status int, d time.Duration) {
	if c.observer != nil {
		c.observer.ObserveRequest(r.method, r.route, status, d)
	}
}

// doJSON sends in as JSON (when non-nil) and decodes the response into out (when non-nil)
func (c *Client) doJSON(ctx context.Context, method, route, path string, query url.Values, in, out any) error {
	req, err := c.newJSONRequest(method, route, path, query, in)
	if err != nil {
		return err
	}
	body, err := c.send(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", route, err)
	}
	return nil
}

// doList decodes a list that the backend returns either bare or wrapped
// under key, e.g. ["a"] or {"islands": ["a"]}
func (c *Client) doList(ctx context.Context, route, path string, query url.Values, key string, out any) error {
	req, err := c.newJSONRequest(http.MethodGet, route, path, query, nil)
	if err != nil {
		return err
	}
	body, err := c.send(ctx, req)
	if err != nil {
		return err
	}
	if err := decodeList(body, key, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", route, err)
	}
	return nil
}

func escape(id string) string {
	return url.PathEscape(id)
}

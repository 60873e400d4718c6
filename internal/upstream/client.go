// Package upstream provides the shared HTTP client used to reach the public
// REST APIs behind every tool. One Client is configured per service and
// reused by all of that service's operations.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout bounds every single upstream request.
	DefaultTimeout = 30 * time.Second

	// maxBodySize caps how much of a response body is read.
	maxBodySize = 32 << 20

	// maxErrorSnippet caps how much of an error body ends up in APIError.Message.
	maxErrorSnippet = 300
)

// Observer receives one callback per completed upstream request.
// status is 0 when no HTTP response was received.
type Observer interface {
	ObserveUpstream(service string, status int, elapsed time.Duration)
}

// Client is an HTTP client bound to one upstream service.
type Client struct {
	service    string
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	header     http.Header
	limiter    *rate.Limiter
	observer   Observer
	logger     *zap.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client. Its own Timeout is kept as is.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHeader adds a fixed header sent on every request.
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.header.Set(key, value)
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return WithHeader("User-Agent", ua)
}

// WithRateLimit spaces outgoing requests to at most rps per second.
// A non-positive rps leaves requests unthrottled.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		} else {
			c.limiter = nil
		}
	}
}

// WithObserver registers a request observer (metrics).
func WithObserver(o Observer) ClientOption {
	return func(c *Client) {
		c.observer = o
	}
}

// WithLogger sets the logger used for request-level debug output.
func WithLogger(l *zap.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client for the named service rooted at baseURL.
func NewClient(service, baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		service: service,
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: DefaultTimeout,
		header:  make(http.Header),
		logger:  zap.NewNop(),
	}
	c.header.Set("Accept", "application/json")

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	return c
}

// Service returns the service name used in errors and metrics.
func (c *Client) Service() string {
	return c.service
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Timeout returns the per-request timeout of the underlying HTTP client.
func (c *Client) Timeout() time.Duration {
	return c.httpClient.Timeout
}

// Get issues a GET for path with the given query and returns the JSON body.
// path must start with "/" and already be escaped.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	for key, values := range c.header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(0, start)
		c.logger.Debug("upstream request failed",
			zap.String("service", c.service),
			zap.String("path", path),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	c.observe(resp.StatusCode, start)
	c.logger.Debug("upstream request",
		zap.String("service", c.service),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrNetworkError, err)
	}

	if err := c.checkStatus(resp.StatusCode, path, body); err != nil {
		return nil, err
	}

	body = bytes.TrimSpace(body)
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: %s returned non-JSON body for %s", ErrInvalidResponse, c.service, path)
	}
	return json.RawMessage(body), nil
}

// GetJSON issues a GET and decodes the JSON body into out.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	raw, err := c.Get(ctx, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decoding %s: %v", ErrInvalidResponse, path, err)
	}
	return nil
}

// checkStatus returns an error if the status code indicates a problem.
func (c *Client) checkStatus(status int, path string, body []byte) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %s %s", ErrNotFound, c.service, path)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s status %d", ErrRateLimited, c.service, status)
	default:
		return &APIError{
			Service:    c.service,
			StatusCode: status,
			Path:       path,
			Message:    errorSnippet(body),
		}
	}
}

func (c *Client) observe(status int, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveUpstream(c.service, status, time.Since(start))
	}
}

// errorSnippet trims an error body to something that fits in a message.
func errorSnippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorSnippet {
		s = s[:maxErrorSnippet-3] + "..."
	}
	return s
}

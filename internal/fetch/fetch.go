// Package fetch performs outbound HTTP calls with a per-call deadline.
//
// Every call runs under its own context.WithTimeout derived from the caller's
// context, so a slow upstream never outlives its budget and the inbound
// request's cancellation still propagates. Deadline expiry surfaces as
// ErrTimeout, distinct from connection and status errors.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTimeout applies when a call does not set its own.
const DefaultTimeout = 15 * time.Second

// maxErrorBody bounds the upstream text embedded in UpstreamError.
const maxErrorBody = 200

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 16 << 20

// ErrTimeout is returned when an upstream call exceeds its deadline.
var ErrTimeout = errors.New("upstream request timed out")

// UpstreamError is a non-2xx answer from an upstream service.
type UpstreamError struct {
	Status int
	Body   string // truncated to 200 characters
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("Backend error: %d - %s", e.Status, e.Body)
}

// Response is a fully read upstream response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// JSON decodes the body into dst.
func (r *Response) JSON(dst any) error {
	if err := json.Unmarshal(r.Body, dst); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// Err returns an *UpstreamError for non-2xx responses and nil otherwise.
func (r *Response) Err() error {
	if r.OK() {
		return nil
	}
	return &UpstreamError{Status: r.StatusCode, Body: Truncate(string(r.Body), maxErrorBody)}
}

// Client wraps an http.Client with deadline handling.
type Client struct {
	http           *http.Client
	log            zerolog.Logger
	defaultTimeout time.Duration
}

// NewClient creates a fetch client. A nil httpClient uses a fresh http.Client
// without its own timeout; deadlines come from each call.
func NewClient(httpClient *http.Client, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		http:           httpClient,
		log:            log.With().Str("component", "fetch").Logger(),
		defaultTimeout: DefaultTimeout,
	}
}

type callOptions struct {
	header  http.Header
	timeout time.Duration
}

// Option adjusts a single call.
type Option func(*callOptions)

// WithHeader sets a request header.
func WithHeader(key, value string) Option {
	return func(o *callOptions) {
		o.header.Set(key, value)
	}
}

// WithTimeout overrides the call deadline.
func WithTimeout(d time.Duration) Option {
	return func(o *callOptions) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// Do sends the request and reads the whole body before the deadline is
// released. Non-2xx statuses are returned as a Response, not an error.
func (c *Client) Do(ctx context.Context, method, url string, body io.Reader, opts ...Option) (*Response, error) {
	o := callOptions{header: make(http.Header), timeout: c.defaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	for k, v := range o.header {
		req.Header[k] = v
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.classify(ctx, err, method, url, o.timeout)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, c.classify(ctx, err, method, url, o.timeout)
	}

	c.log.Debug().
		Str("method", method).
		Str("url", url).
		Int("status", resp.StatusCode).
		Dur("duration_ms", time.Since(start)).
		Msg("Upstream call")

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

func (c *Client) classify(ctx context.Context, err error, method, url string, timeout time.Duration) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		c.log.Warn().Str("method", method).Str("url", url).Dur("timeout", timeout).Msg("Upstream call timed out")
		return fmt.Errorf("%w after %s", ErrTimeout, timeout)
	}
	return fmt.Errorf("API request failed: %w", err)
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, url string, opts ...Option) (*Response, error) {
	return c.Do(ctx, http.MethodGet, url, nil, opts...)
}

// GetJSON issues a GET request and decodes a 2xx JSON body into dst.
func (c *Client) GetJSON(ctx context.Context, url string, dst any, opts ...Option) error {
	resp, err := c.Get(ctx, url, append([]Option{WithHeader("Accept", "application/json")}, opts...)...)
	if err != nil {
		return err
	}
	if err := resp.Err(); err != nil {
		return err
	}
	return resp.JSON(dst)
}

// PostJSON sends payload as JSON and decodes a 2xx JSON body into dst.
// A nil dst discards the body.
func (c *Client) PostJSON(ctx context.Context, url string, payload, dst any, opts ...Option) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	opts = append([]Option{
		WithHeader("Content-Type", "application/json"),
		WithHeader("Accept", "application/json"),
	}, opts...)

	resp, err := c.Do(ctx, http.MethodPost, url, bytes.NewReader(data), opts...)
	if err != nil {
		return err
	}
	if err := resp.Err(); err != nil {
		return err
	}
	if dst == nil {
		return nil
	}
	return resp.JSON(dst)
}

// Truncate shortens s to at most n runes.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

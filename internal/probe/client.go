package probe

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// maxDrainSize bounds how much of a response body is read before closing it.
// Draining lets the transport put the connection back into the idle pool.
const maxDrainSize = 64 << 10 // 64KB

// connection pooling limits to prevent resource exhaustion when probing many targets
const (
	defaultMaxIdleConns        = 100
	defaultMaxIdleConnsPerHost = 10
	defaultIdleConnTimeout     = 60 * time.Second
)

// Response holds the outcome of a single HTTP attempt made by [Client].
type Response struct {
	// StatusCode is the HTTP status code from the status line.
	// Zero if the attempt failed before a response was received.
	StatusCode int

	// Error is set when the attempt failed at the transport level
	// (dial, DNS, TLS, timeout). A received 4xx/5xx response is not an error.
	Error error
}

// Client issues single GET attempts with a fixed per-attempt timeout.
//
// The timeout bounds the dial, the TLS handshake, the wait for response
// headers and the attempt as a whole, so every phase of one attempt is
// limited by the same value.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
}

// NewClient creates a [Client] whose attempts are bounded by timeout.
// A non-positive timeout disables the bound.
func NewClient(timeout time.Duration, userAgent string) *Client {
	dialer := &net.Dialer{Timeout: timeout}
	return &Client{
		httpClient: &http.Client{
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				DialContext:           dialer.DialContext,
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
				MaxIdleConns:          defaultMaxIdleConns,
				MaxIdleConnsPerHost:   defaultMaxIdleConnsPerHost,
				IdleConnTimeout:       defaultIdleConnTimeout,
			},
		},
		timeout:   timeout,
		userAgent: userAgent,
	}
}

// newClientWithTransport is used by tests to count or fake attempts.
func newClientWithTransport(rt http.RoundTripper, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Transport: rt},
		timeout:    timeout,
	}
}

// Get performs one GET attempt against url.
//
// Get always returns a Response; errors are captured in the Error field.
func (c *Client) Get(ctx context.Context, url string) Response {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Response{Error: fmt.Errorf("failed to create request: %w", err)}
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{Error: err}
	}
	defer func() { _ = resp.Body.Close() }()

	// the status line has arrived, so a body error does not change the outcome
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainSize))

	return Response{StatusCode: resp.StatusCode}
}

// Close closes all idle connections in the client's connection pool.
// Safe to call multiple times and on a nil receiver.
func (c *Client) Close() {
	if c == nil || c.httpClient == nil {
		return
	}
	c.httpClient.CloseIdleConnections()
}

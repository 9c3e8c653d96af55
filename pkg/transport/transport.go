// Package transport provides the pooled HTTP client commands are sent over.
//
// A Client is constructed and owned explicitly; there is no package-level
// client. It is safe for concurrent use by several sessions.
package transport

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"runtime"
	"sync"
	"time"
)

// Version is reported in the User-Agent header.
var Version = "0.3.0"

// ErrClosed is returned by Do after Close.
var ErrClosed = errors.New("transport: client closed")

const (
	defaultTimeout        = 120 * time.Second
	defaultConnectTimeout = 30 * time.Second
)

// Options configures a Client.
type Options struct {
	// KeepAlive enables connection reuse and the Connection: keep-alive header.
	KeepAlive bool
	// Timeout bounds one call, from dial to reading the full body.
	Timeout time.Duration
	// ConnectTimeout bounds connection establishment only.
	ConnectTimeout time.Duration
	// SocketPath, when set, dials a Unix socket instead of the URL host.
	SocketPath string
	// UserAgent overrides the default "wdclient/<version> (go <os>)".
	UserAgent string
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Client sends JSON requests to a remote end.
type Client struct {
	http      *http.Client
	transport *http.Transport
	keepAlive bool
	timeout   time.Duration
	userAgent string

	mu     sync.RWMutex
	closed bool
}

// New creates a client with its own connection pool.
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = defaultConnectTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = UserAgent()
	}

	dialer := &net.Dialer{Timeout: opts.ConnectTimeout, KeepAlive: 30 * time.Second}
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         dialer.DialContext,
		DisableKeepAlives:   !opts.KeepAlive,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	if opts.SocketPath != "" {
		socketPath := opts.SocketPath
		transport.Proxy = nil
		transport.DialContext = func(ctx context.Context, _, _ string) (net.Conn, error) {
			return dialer.DialContext(ctx, "unix", socketPath)
		}
	}

	return &Client{
		http:      &http.Client{Transport: transport},
		transport: transport,
		keepAlive: opts.KeepAlive,
		timeout:   opts.Timeout,
		userAgent: opts.UserAgent,
	}
}

// UserAgent returns the default User-Agent value.
func UserAgent() string {
	return fmt.Sprintf("wdclient/%s (go %s)", Version, runtime.GOOS)
}

// Headers returns the fixed header set for a request to u, adding Basic-Auth
// when u carries userinfo.
func Headers(u *url.URL, keepAlive bool, userAgent string) http.Header {
	h := http.Header{}
	h.Set("Accept", "application/json")
	h.Set("Content-Type", "application/json;charset=UTF-8")
	h.Set("User-Agent", userAgent)
	if keepAlive {
		h.Set("Connection", "keep-alive")
	}
	if u != nil && u.User != nil {
		password, _ := u.User.Password()
		creds := u.User.Username() + ":" + password
		h.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(creds)))
	}
	return h
}

// Do performs one request. The response body is always read in full and
// closed before Do returns. A nil body sends no payload.
func (c *Client) Do(ctx context.Context, method, rawURL string, body []byte) (*Response, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return nil, ErrClosed
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	headers := Headers(u, c.keepAlive, c.userAgent)
	u.User = nil

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header = headers

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

// Close releases pooled connections. It is safe to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.transport.CloseIdleConnections()
	return nil
}

// Closed reports whether Close has been called.
func (c *Client) Closed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

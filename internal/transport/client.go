// Package transport provides HTTP client functionality for the remote
// catalog API: bearer-token authentication, XML request bodies, and
// structured decoding of XML responses including the error envelope.
package transport

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/autolife/feedsync/pkg/errors"
)

// DefaultTimeout is the default timeout for HTTP requests.
const DefaultTimeout = 60 * time.Second

// DefaultUserAgent identifies feedsync to the remote system.
const DefaultUserAgent = "webfeltoltes/1.0 (autolife)"

// Client provides HTTP client functionality with authentication.
type Client struct {
	http      *http.Client
	auth      Authenticator
	userAgent string
}

// New creates a new transport client with the specified authenticator.
func New(auth Authenticator) *Client {
	if auth == nil {
		auth = &NoAuth{}
	}
	return &Client{
		http:      &http.Client{Timeout: DefaultTimeout},
		auth:      auth,
		userAgent: DefaultUserAgent,
	}
}

// NewWithHTTPClient creates a transport client over a caller-supplied
// http.Client. Used by tests to point at httptest servers.
func NewWithHTTPClient(auth Authenticator, hc *http.Client) *Client {
	c := New(auth)
	if hc != nil {
		c.http = hc
	}
	return c
}

// PostXML sends an XML payload to the given URL. A non-empty token is
// applied through the configured authenticator. Network failures are
// returned as *errors.TransportError.
func (c *Client) PostXML(ctx context.Context, url, token string, payload []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.WrapIO("create", "POST "+url, err)
	}

	req.Header.Set("Content-Type", "application/xml; charset=utf-8")
	req.Header.Set("Accept", "application/xml")
	req.Header.Set("User-Agent", c.userAgent)
	if token != "" {
		c.auth.Apply(req, token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.NewTransportError(url, err)
	}
	return resp, nil
}

// Get performs a plain GET request, used for feed downloads.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapIO("create", "GET "+url, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.NewTransportError(url, err)
	}
	return resp, nil
}

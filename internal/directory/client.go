// Package directory talks to the external brewery directory service. It
// forwards a query as-is and hands back the upstream status and JSON body
// without interpreting either.
package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the public Open Brewery DB list endpoint.
const DefaultBaseURL = "https://api.openbrewerydb.org/breweries"

const maxBodyBytes = 10 << 20

// ErrUpstreamUnavailable covers transport failures, timeouts and bodies that
// are not JSON.
var ErrUpstreamUnavailable = errors.New("directory service unavailable")

// Response is the upstream status code and body, untouched.
type Response struct {
	StatusCode int
	Body       json.RawMessage
}

// Client performs lookups against the directory service.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	maxBody int64
}

// NewClient builds a Client for baseURL. A zero timeout waits indefinitely.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse directory url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("directory url scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, errors.New("directory url has no host")
	}
	return &Client{
		baseURL: u,
		http:    &http.Client{Timeout: timeout},
		maxBody: maxBodyBytes,
	}, nil
}

// Lookup forwards params to the directory service and waits for its answer.
// Any non-2xx status is still a successful lookup; only the inability to get
// a JSON answer is an error.
func (c *Client) Lookup(ctx context.Context, params []Param) (Response, error) {
	target := *c.baseURL
	if q := Encode(params); q != "" {
		if target.RawQuery != "" {
			target.RawQuery += "&" + q
		} else {
			target.RawQuery = q
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return Response{}, fmt.Errorf("build directory request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return Response{}, fmt.Errorf("%w: read body: %v", ErrUpstreamUnavailable, err)
	}
	if int64(len(body)) > c.maxBody {
		return Response{}, fmt.Errorf("%w: body exceeds %d bytes (status %d)", ErrUpstreamUnavailable, c.maxBody, resp.StatusCode)
	}
	if !json.Valid(body) {
		return Response{}, fmt.Errorf("%w: non-JSON body (status %d)", ErrUpstreamUnavailable, resp.StatusCode)
	}
	return Response{StatusCode: resp.StatusCode, Body: body}, nil
}

package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// DefaultRefreshPath is the storefront API session refresh endpoint.
const DefaultRefreshPath = "/api/auth/refresh"

// Refresher renews the session credentials.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// RefresherFunc adapts a function to Refresher.
type RefresherFunc func(ctx context.Context) error

func (f RefresherFunc) Refresh(ctx context.Context) error {
	return f(ctx)
}

// EndpointRefresher posts an empty request to the refresh endpoint and relies on
// the transport to carry the refresh cookie and store the renewed ones.
type EndpointRefresher struct {
	url       *url.URL
	transport http.RoundTripper
}

// NewEndpointRefresher creates a refresher for rawURL sent with transport.
func NewEndpointRefresher(rawURL string, transport http.RoundTripper) (*EndpointRefresher, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh URL %q: %w", rawURL, err)
	}
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &EndpointRefresher{url: u, transport: transport}, nil
}

// Path returns the refresh endpoint path.
func (e *EndpointRefresher) Path() string {
	return e.url.Path
}

func (e *EndpointRefresher) Refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url.String(), http.NoBody)
	if err != nil {
		return &RefreshError{Err: err}
	}
	req.Header.Set("Accept", "application/json")
	resp, err := e.transport.RoundTrip(req)
	if err != nil {
		return &RefreshError{Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	return &RefreshError{StatusCode: resp.StatusCode, Message: errorMessage(resp.StatusCode, body)}
}

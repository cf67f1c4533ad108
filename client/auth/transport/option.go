package transport

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

type Option func(*RoundTripper)

// WithTransport sets the transport requests and refresh calls are sent with
func WithTransport(transport http.RoundTripper) Option {
	return func(t *RoundTripper) {
		t.transport = transport
	}
}

// WithRefresher sets the session refresher
func WithRefresher(refresher Refresher) Option {
	return func(t *RoundTripper) {
		t.refresher = refresher
	}
}

// WithRefreshURL uses an EndpointRefresher posting to URL; the endpoint path is never intercepted
func WithRefreshURL(URL string) Option {
	return func(t *RoundTripper) {
		t.refreshURL = URL
	}
}

// WithCookieJar carries session cookies below the interceptor, so replays use renewed cookies
func WithCookieJar(jar http.CookieJar) Option {
	return func(t *RoundTripper) {
		t.jar = jar
	}
}

// WithBypass lists request paths passed through on 401/403
func WithBypass(paths ...string) Option {
	return func(t *RoundTripper) {
		t.bypass = append(t.bypass, paths...)
	}
}

// WithAuthStatuses overrides the statuses treated as an expired session (401 and 403)
func WithAuthStatuses(codes ...int) Option {
	return func(t *RoundTripper) {
		t.authStatuses = codes
	}
}

// WithRefreshTimeout bounds a single refresh call; zero waits indefinitely
func WithRefreshTimeout(timeout time.Duration) Option {
	return func(t *RoundTripper) {
		t.refreshTimeout = timeout
	}
}

// WithLogger sets logger
func WithLogger(logger *zap.Logger) Option {
	return func(t *RoundTripper) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithMetrics sets metrics
func WithMetrics(metrics *Metrics) Option {
	return func(t *RoundTripper) {
		t.metrics = metrics
	}
}

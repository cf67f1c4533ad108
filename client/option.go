package client

import (
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Option represents option
type Option func(c *Client)

// WithHTTPClient sets the http client. Its Jar should stay nil when the
// transport carries cookies itself.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger with logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRateLimiter makes every request wait for limiter first.
func WithRateLimiter(limiter *rate.Limiter) Option {
	return func(c *Client) {
		c.limiter = limiter
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.header.Add(key, value)
	}
}

func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.header.Set("User-Agent", userAgent)
	}
}

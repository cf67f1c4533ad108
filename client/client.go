package client

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

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RequestIDHeader carries the id each request is logged with.
const RequestIDHeader = "X-Request-Id"

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *zap.Logger
	limiter    *rate.Limiter
	header     http.Header
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, options ...Option) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %v: %w", baseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid base URL %v: scheme and host are required", baseURL)
	}
	ret := &Client{
		baseURL:    parsed,
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
		header:     http.Header{},
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret, nil
}

func (c *Client) BaseURL() *url.URL {
	ret := *c.baseURL
	return &ret
}

func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// Do sends req. A non-2xx answer is returned as *Error; a failed session
// refresh surfaces as an error matching transport.ErrRefreshFailed.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%s %s: rate limit: %w", req.Method, req.Path, err)
		}
	}
	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	requestID := httpReq.Header.Get(RequestIDHeader)
	started := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Debug("request failed",
			zap.String("id", requestID),
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.Error(err))
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}
	body, err := io.ReadAll(resp.Body)
	if closeErr := resp.Body.Close(); closeErr != nil {
		c.logger.Warn("failed to close response body", zap.Error(closeErr))
	}
	if err != nil {
		return nil, fmt.Errorf("%s %s: failed to read response body: %w", req.Method, req.Path, err)
	}
	c.logger.Debug("request",
		zap.String("id", requestID),
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newError(req, resp.StatusCode, body)
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
}

func (c *Client) newRequest(ctx context.Context, req *Request) (*http.Request, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	target, err := c.resolve(req.Path)
	if err != nil {
		return nil, err
	}
	if len(req.Query) > 0 {
		query := target.Query()
		for k, values := range req.Query {
			for _, v := range values {
				query.Add(k, v)
			}
		}
		target.RawQuery = query.Encode()
	}
	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, req.Path, err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, req.Path, err)
	}
	for k, values := range c.header {
		httpReq.Header[k] = append([]string(nil), values...)
	}
	for k, values := range req.Header {
		httpReq.Header[http.CanonicalHeaderKey(k)] = append([]string(nil), values...)
	}
	if contentType != "" && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", "application/json")
	}
	if httpReq.Header.Get(RequestIDHeader) == "" {
		httpReq.Header.Set(RequestIDHeader, uuid.NewString())
	}
	return httpReq, nil
}

func (c *Client) resolve(path string) (*url.URL, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return url.Parse(path)
	}
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path %v: %w", path, err)
	}
	ret := c.baseURL.JoinPath(ref.EscapedPath())
	ret.RawQuery = ref.RawQuery
	return ret, nil
}

// encodeBody sends []byte, string and io.Reader as is and JSON-encodes anything else.
func encodeBody(body any) (io.Reader, string, error) {
	switch actual := body.(type) {
	case nil:
		return nil, "", nil
	case json.RawMessage:
		return bytes.NewReader(actual), "application/json", nil
	case []byte:
		return bytes.NewReader(actual), "", nil
	case string:
		return strings.NewReader(actual), "", nil
	case io.Reader:
		return actual, "", nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode request body: %w", err)
	}
	return bytes.NewReader(data), "application/json", nil
}

func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

func (c *Client) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

func (c *Client) Patch(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body})
}

func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}

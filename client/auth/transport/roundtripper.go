package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"slices"
	"time"

	"go.uber.org/zap"
)

// RoundTripper recovers from expired sessions: the first 401/403 of a request
// triggers a single shared refresh, every request failing meanwhile waits for
// it, and all of them are replayed once when it succeeds.
type RoundTripper struct {
	transport      http.RoundTripper
	refresher      Refresher
	refreshURL     string
	jar            http.CookieJar
	bypass         []string
	authStatuses   []int
	refreshTimeout time.Duration
	logger         *zap.Logger
	metrics        *Metrics
	state          refreshState
}

// New creates a RoundTripper. Either WithRefresher or WithRefreshURL is required.
func New(options ...Option) (*RoundTripper, error) {
	ret := &RoundTripper{
		transport:    http.DefaultTransport,
		authStatuses: []int{http.StatusUnauthorized, http.StatusForbidden},
		logger:       zap.NewNop(),
	}
	for _, opt := range options {
		opt(ret)
	}
	if ret.jar != nil {
		ret.transport = WrapWithCookieJar(ret.transport, ret.jar)
	}
	if ret.refresher == nil && ret.refreshURL != "" {
		refresher, err := NewEndpointRefresher(ret.refreshURL, ret.transport)
		if err != nil {
			return nil, err
		}
		ret.refresher = refresher
		ret.bypass = append(ret.bypass, refresher.Path())
	}
	if ret.refresher == nil {
		return nil, errors.New("transport: refresher is required")
	}
	return ret, nil
}

// State returns a snapshot of the refresh coordination state.
func (r *RoundTripper) State() State {
	return r.state.snapshot()
}

func (r *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	desc, err := newDescriptor(req)
	if err != nil {
		return nil, err
	}
	if slices.Contains(r.bypass, req.URL.Path) {
		desc.retried = true
	}
	sentAt := r.state.currentGeneration()
	resp, err := r.transport.RoundTrip(desc.attempt())
	if err != nil {
		return nil, err
	}
	if desc.retried || !r.isAuthFailure(resp.StatusCode) {
		r.metrics.passedThrough()
		return resp, nil
	}
	discard(resp)
	desc.retried = true

	log := r.logger.With(
		zap.String("id", desc.id),
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
	)
	log.Debug("auth failure, awaiting session refresh", zap.Int("status", resp.StatusCode))
	if err = r.await(req.Context(), desc, sentAt); err != nil {
		log.Debug("request rejected", zap.Error(err))
		return nil, err
	}
	r.metrics.replayed()
	resp, err = r.transport.RoundTrip(desc.attempt())
	if err != nil {
		return nil, err
	}
	if r.isAuthFailure(resp.StatusCode) {
		log.Warn("replayed request rejected again", zap.Int("status", resp.StatusCode))
	}
	return resp, nil
}

// await blocks until the refresh covering this request settles. It returns nil
// when the request should be replayed.
func (r *RoundTripper) await(ctx context.Context, desc *descriptor, sentAt uint64) error {
	w, leader, stale := r.state.enqueue(desc.id, sentAt)
	if stale {
		// a refresh already succeeded after this request was sent. A sequential
		// client would refresh again here; concurrent callers replay on that one.
		return nil
	}
	r.metrics.enqueued()
	if leader {
		go r.refresh(context.WithoutCancel(ctx))
	}
	select {
	case err := <-w.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *RoundTripper) refresh(ctx context.Context) {
	if r.refreshTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.refreshTimeout)
		defer cancel()
	}
	started := time.Now()
	err := r.refresher.Refresh(ctx)
	if err != nil {
		err = asRefreshError(err)
	}
	waiters := r.state.settle(err == nil)
	r.metrics.settled(err == nil, len(waiters))
	for _, w := range waiters {
		w.done <- err
	}
	fields := []zap.Field{
		zap.Duration("duration", time.Since(started)),
		zap.Int("waiters", len(waiters)),
	}
	if err != nil {
		r.logger.Warn("session refresh failed", append(fields, zap.Error(err))...)
		return
	}
	r.logger.Info("session refreshed", fields...)
}

func (r *RoundTripper) isAuthFailure(status int) bool {
	return slices.Contains(r.authStatuses, status)
}

// discard drains a little of the body so the connection can be reused.
func discard(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
	_ = resp.Body.Close()
}

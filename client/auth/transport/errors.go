package transport

import (
	"errors"
	"fmt"
)

var (
	// ErrRefreshFailed matches every error produced by a failed session refresh.
	ErrRefreshFailed = errors.New("session refresh failed")
	// ErrNoToken is returned by TokenRefresher before any token was set.
	ErrNoToken = errors.New("no token available")
	// ErrNoRefreshToken is returned when the current token cannot be refreshed.
	ErrNoRefreshToken = errors.New("token has no refresh token")
)

// RefreshError is delivered to the request that triggered a refresh and to
// every request queued behind it when the refresh fails.
type RefreshError struct {
	// StatusCode is the refresh endpoint status, 0 for transport level failures.
	StatusCode int
	Message    string
	Err        error
}

func (e *RefreshError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("%v: %d %s", ErrRefreshFailed, e.StatusCode, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%v: %v", ErrRefreshFailed, e.Err)
	}
	return ErrRefreshFailed.Error()
}

func (e *RefreshError) Unwrap() error {
	return e.Err
}

func (e *RefreshError) Is(target error) bool {
	return target == ErrRefreshFailed
}

func asRefreshError(err error) error {
	var refreshErr *RefreshError
	if errors.As(err, &refreshErr) {
		return err
	}
	return &RefreshError{Err: err}
}

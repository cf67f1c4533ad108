package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/raumania/storefront/client/auth/store"
	"golang.org/x/oauth2"
)

// TokenRefresher is the bearer-token counterpart of EndpointRefresher. It is an
// oauth2.TokenSource for oauth2.Transport below the RoundTripper, while Refresh
// exchanges the refresh token for a new one.
type TokenRefresher struct {
	config *oauth2.Config
	store  store.Store
	key    string
	client *http.Client
	mux    sync.RWMutex
	token  *oauth2.Token
}

// TokenOption configures a TokenRefresher.
type TokenOption func(*TokenRefresher)

// WithTokenStore persists refreshed tokens under key; an empty key defaults to the token URL.
func WithTokenStore(s store.Store, key string) TokenOption {
	return func(t *TokenRefresher) {
		t.store = s
		t.key = key
	}
}

// WithTokenHTTPClient sets the client used to call the token endpoint.
func WithTokenHTTPClient(client *http.Client) TokenOption {
	return func(t *TokenRefresher) {
		t.client = client
	}
}

// NewTokenRefresher creates a refresher starting from token, or from the store when token is nil.
func NewTokenRefresher(config *oauth2.Config, token *oauth2.Token, options ...TokenOption) *TokenRefresher {
	ret := &TokenRefresher{config: config, token: token}
	for _, opt := range options {
		opt(ret)
	}
	if ret.key == "" {
		ret.key = config.Endpoint.TokenURL
	}
	if ret.token == nil && ret.store != nil {
		ret.token, _ = ret.store.LookupToken(ret.key)
	}
	return ret
}

// Token returns the current token.
func (t *TokenRefresher) Token() (*oauth2.Token, error) {
	t.mux.RLock()
	defer t.mux.RUnlock()
	if t.token == nil {
		return nil, ErrNoToken
	}
	return t.token, nil
}

// SetToken replaces the current token, e.g. after an interactive login.
func (t *TokenRefresher) SetToken(token *oauth2.Token) error {
	t.mux.Lock()
	t.token = token
	t.mux.Unlock()
	if t.store == nil {
		return nil
	}
	return t.store.AddToken(t.key, token)
}

func (t *TokenRefresher) Refresh(ctx context.Context) error {
	current, err := t.Token()
	if err != nil {
		return &RefreshError{Err: err}
	}
	if current.RefreshToken == "" {
		return &RefreshError{Err: ErrNoRefreshToken}
	}
	if t.client != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, t.client)
	}
	// a token without an access token is never valid, so the source refreshes
	refreshed, err := t.config.TokenSource(ctx, &oauth2.Token{RefreshToken: current.RefreshToken}).Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			message := retrieveErr.ErrorDescription
			if message == "" {
				message = retrieveErr.ErrorCode
			}
			return &RefreshError{StatusCode: retrieveErr.Response.StatusCode, Message: message, Err: err}
		}
		return &RefreshError{Err: err}
	}
	// preserve refresh token if provider omitted it
	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = current.RefreshToken
	}
	if err = t.SetToken(refreshed); err != nil {
		return &RefreshError{Err: fmt.Errorf("failed to store refreshed token: %w", err)}
	}
	return nil
}

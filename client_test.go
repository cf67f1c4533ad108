package storefront

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/raumania/storefront/client"
	"github.com/raumania/storefront/client/auth"
	"github.com/raumania/storefront/client/auth/mock"
	"github.com/raumania/storefront/client/auth/store"
	"github.com/raumania/storefront/client/auth/transport"
)

func TestNewClient_CookieSession(t *testing.T) {
	api := mock.New()
	server := httptest.NewServer(api.Handler())
	defer server.Close()
	ctx := context.Background()
	cookieFile := filepath.Join(t.TempDir(), "cookies.json")

	registry := prometheus.NewRegistry()
	metrics, err := transport.NewMetrics(registry)
	require.NoError(t, err)
	options := &ClientOptions{BaseURL: server.URL + "/", CookieFile: cookieFile, Metrics: metrics}
	cli, err := NewClient(options)
	require.NoError(t, err)
	require.NotNil(t, options.Transport())
	_, err = auth.New(cli).Login(ctx, mock.Username, mock.Password)
	require.NoError(t, err)

	// a second process picks the session up from the cookie file
	api.Expire()
	restored, err := NewClient(&ClientOptions{BaseURL: server.URL, CookieFile: cookieFile, Metrics: metrics})
	require.NoError(t, err)
	user, err := auth.New(restored).MyInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, mock.Username, user.Username)
	assert.Equal(t, 1, api.Calls(transport.DefaultRefreshPath))

	again, err := NewClient(options)
	require.NoError(t, err)
	assert.Same(t, cli.HTTPClient(), again.HTTPClient(), "options share one refresh coordinator")
	assert.Equal(t, 1.0, counterValue(t, registry, "storefront_auth_transport_replays_total"))
	assert.Equal(t, 1.0, counterValue(t, registry, "storefront_auth_transport_refreshes_total"))
}

func counterValue(t *testing.T, registry *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := registry.Gather()
	require.NoError(t, err)
	var ret float64
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			ret += metric.GetCounter().GetValue()
		}
	}
	return ret
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(&ClientOptions{})
	assert.Error(t, err)

	cookieFile := filepath.Join(t.TempDir(), "cookies.json")
	require.NoError(t, os.WriteFile(cookieFile, []byte("not json"), 0o600))
	_, err = NewClient(&ClientOptions{BaseURL: "http://localhost", CookieFile: cookieFile})
	assert.Error(t, err)
}

func TestNewClient_BearerSession(t *testing.T) {
	var refreshes atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/oauth/token":
			refreshes.Add(1)
			_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "fresh", "token_type": "Bearer", "expires_in": 3600})
		case "/api/user/my-info":
			if r.Header.Get("Authorization") != "Bearer fresh" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"status":401,"message":"Token expired"}`))
				return
			}
			_, _ = w.Write([]byte(`{"status":200,"message":"ok","result":{"id":"1","username":"alice"}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	tokenFile := filepath.Join(t.TempDir(), "tokens.json")
	config := &oauth2.Config{ClientID: "storefront", Endpoint: oauth2.Endpoint{TokenURL: server.URL + "/oauth/token", AuthStyle: oauth2.AuthStyleInParams}}
	options := &ClientOptions{BaseURL: server.URL, Auth: ClientAuth{
		Config:    config,
		Token:     &oauth2.Token{AccessToken: "stale", RefreshToken: "r1"},
		TokenFile: tokenFile,
	}}
	cli, err := NewClient(options)
	require.NoError(t, err)

	user, err := auth.New(cli).MyInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.EqualValues(t, 1, refreshes.Load())

	persisted, err := store.NewFileStore(context.Background(), tokenFile)
	require.NoError(t, err)
	token, ok := persisted.LookupToken(config.Endpoint.TokenURL)
	require.True(t, ok)
	assert.Equal(t, "fresh", token.AccessToken)
	assert.Equal(t, "r1", token.RefreshToken)

	_, err = cli.Get(context.Background(), "/api/unknown", nil)
	assert.True(t, client.IsStatus(err, http.StatusNotFound))
}

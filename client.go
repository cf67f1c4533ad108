package storefront

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/viant/scy/auth/authorizer"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/raumania/storefront/client"
	"github.com/raumania/storefront/client/auth/store"
	"github.com/raumania/storefront/client/auth/transport"
)

// ClientOptions
//
// defines options for configuring a storefront client.
type ClientOptions struct {
	BaseURL        string        `yaml:"baseURL" json:"baseURL,omitempty"  short:"u" long:"url" description:"storefront API base URL"`
	Timeout        time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"  long:"timeout" description:"overall request timeout, refresh wait included"`
	CookieFile     string        `yaml:"cookieFile,omitempty" json:"cookieFile,omitempty"  long:"cookie-file" description:"session cookie snapshot URL"`
	RefreshPath    string        `yaml:"refreshPath,omitempty" json:"refreshPath,omitempty"  long:"refresh-path" description:"session refresh endpoint path"`
	RefreshTimeout time.Duration `yaml:"refreshTimeout,omitempty" json:"refreshTimeout,omitempty"  long:"refresh-timeout" description:"session refresh timeout, unbounded when zero"`
	RateLimit      float64       `yaml:"rateLimit,omitempty" json:"rateLimit,omitempty"  long:"rate-limit" description:"max requests per second"`
	Burst          int           `yaml:"burst,omitempty" json:"burst,omitempty"  long:"burst" description:"rate limit burst"`
	UserAgent      string        `yaml:"userAgent,omitempty" json:"userAgent,omitempty"  long:"user-agent" description:"User-Agent header"`
	Auth           ClientAuth    `yaml:"auth,omitempty" json:"auth,omitempty"`

	// CookieJar, if set, replaces the jar built from CookieFile.
	CookieJar http.CookieJar     `yaml:"-" json:"-" no-flag:"true"`
	Logger    *zap.Logger        `yaml:"-" json:"-" no-flag:"true"`
	Metrics   *transport.Metrics `yaml:"-" json:"-" no-flag:"true"`

	// cachedRT and cachedHTTPClient keep one refresh coordinator per options,
	// so every client built from them shares a single session.
	cachedRT         *transport.RoundTripper
	cachedHTTPClient *http.Client
}

// ClientAuth defines bearer token options. Leaving OAuth2ConfigURL and Config
// empty selects cookie sessions.
type ClientAuth struct {
	OAuth2ConfigURL string `yaml:"oauth2ConfigURL,omitempty" json:"oauth2ConfigURL,omitempty"  long:"oauth2-config" description:"oauth2 client config URL"`
	EncryptionKey   string `yaml:"encryptionKey,omitempty" json:"encryptionKey,omitempty"  short:"k" long:"key" description:"oauth2 config encryption key"`
	TokenFile       string `yaml:"tokenFile,omitempty" json:"tokenFile,omitempty"  long:"token-file" description:"token store snapshot URL"`

	// Config replaces the config loaded from OAuth2ConfigURL.
	Config *oauth2.Config `yaml:"-" json:"-" no-flag:"true"`
	// Token is the initial token; the store is consulted when nil.
	Token *oauth2.Token `yaml:"-" json:"-" no-flag:"true"`
	// Store allows injecting a persistent token store.
	Store store.Store `yaml:"-" json:"-" no-flag:"true"`
}

func (a *ClientAuth) bearer() bool {
	return a.OAuth2ConfigURL != "" || a.Config != nil
}

func (c *ClientOptions) Init() {
	if c.RefreshPath == "" {
		c.RefreshPath = transport.DefaultRefreshPath
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.RateLimit > 0 && c.Burst < 1 {
		c.Burst = 1
	}
}

// NewClient creates a storefront client with session refresh configured via ClientOptions.
func NewClient(options *ClientOptions) (*client.Client, error) {
	options.Init()
	if options.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	httpClient, err := options.getHTTPClient(context.Background())
	if err != nil {
		return nil, err
	}
	opts := []client.Option{
		client.WithHTTPClient(httpClient),
		client.WithLogger(options.Logger),
	}
	if options.RateLimit > 0 {
		opts = append(opts, client.WithRateLimiter(rate.NewLimiter(rate.Limit(options.RateLimit), options.Burst)))
	}
	if options.UserAgent != "" {
		opts = append(opts, client.WithUserAgent(options.UserAgent))
	}
	return client.New(options.BaseURL, opts...)
}

// Transport returns the session refresh coordinator, nil before NewClient.
func (c *ClientOptions) Transport() *transport.RoundTripper {
	return c.cachedRT
}

func (c *ClientOptions) getHTTPClient(ctx context.Context) (*http.Client, error) {
	// reuse cached client if present
	if c.cachedHTTPClient != nil {
		return c.cachedHTTPClient, nil
	}
	transportOpts := []transport.Option{
		transport.WithLogger(c.Logger),
		transport.WithRefreshTimeout(c.RefreshTimeout),
	}
	if c.Metrics != nil {
		transportOpts = append(transportOpts, transport.WithMetrics(c.Metrics))
	}
	if c.Auth.bearer() {
		refresher, err := c.getTokenRefresher(ctx)
		if err != nil {
			return nil, err
		}
		transportOpts = append(transportOpts,
			transport.WithTransport(&oauth2.Transport{Source: refresher, Base: http.DefaultTransport}),
			transport.WithRefresher(refresher))
	} else {
		jar, err := c.getCookieJar(ctx)
		if err != nil {
			return nil, err
		}
		transportOpts = append(transportOpts,
			transport.WithCookieJar(jar),
			transport.WithRefreshURL(strings.TrimRight(c.BaseURL, "/")+"/"+strings.TrimLeft(c.RefreshPath, "/")))
	}
	rt, err := transport.New(transportOpts...)
	if err != nil {
		return nil, err
	}
	c.cachedRT = rt
	// cookies travel below the refresh coordinator, the client Jar stays nil
	c.cachedHTTPClient = &http.Client{Transport: rt, Timeout: c.Timeout}
	return c.cachedHTTPClient, nil
}

func (c *ClientOptions) getCookieJar(ctx context.Context) (http.CookieJar, error) {
	if c.CookieJar != nil {
		return c.CookieJar, nil
	}
	if c.CookieFile != "" {
		jar, err := transport.NewFileJar(ctx, c.CookieFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load cookie file %v: %w", c.CookieFile, err)
		}
		c.CookieJar = jar
		return jar, nil
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	c.CookieJar = jar
	return jar, nil
}

// getTokenRefresher loads the oauth2 client config and the token store for bearer sessions.
func (c *ClientOptions) getTokenRefresher(ctx context.Context) (*transport.TokenRefresher, error) {
	config := c.Auth.Config
	if config == nil {
		configURL := c.Auth.OAuth2ConfigURL
		if c.Auth.EncryptionKey != "" {
			configURL += "|" + c.Auth.EncryptionKey
		}
		anAuthorizer := authorizer.New()
		oauthCfg := &authorizer.OAuthConfig{ConfigURL: configURL}
		if err := anAuthorizer.EnsureConfig(ctx, oauthCfg); err != nil {
			return nil, fmt.Errorf("failed to load oauth2 config %q: %w", c.Auth.OAuth2ConfigURL, err)
		}
		config = oauthCfg.Config
		c.Auth.Config = config
	}
	tokenStore := c.Auth.Store
	if tokenStore == nil {
		if c.Auth.TokenFile != "" {
			fileStore, err := store.NewFileStore(ctx, c.Auth.TokenFile)
			if err != nil {
				return nil, err
			}
			tokenStore = fileStore
		} else {
			tokenStore = store.NewMemoryStore()
		}
		c.Auth.Store = tokenStore
	}
	return transport.NewTokenRefresher(config, c.Auth.Token, transport.WithTokenStore(tokenStore, "")), nil
}

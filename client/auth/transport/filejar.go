package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/cookiejar"
	neturl "net/url"
	"strings"
	"sync"
	"time"

	"github.com/viant/afs"
)

// FileJar is a thin wrapper around the standard cookiejar.Jar that persists
// the cookies it has seen to a JSON snapshot on each update and reloads them
// on startup. The snapshot lives at an afs URL.
type FileJar struct {
	mu    sync.RWMutex
	inner *cookiejar.Jar
	fs    afs.Service
	URL   string
	index map[string]persistedCookie
}

type persistedCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Domain   string    `json:"domain"`
	HostOnly bool      `json:"hostOnly,omitempty"`
	Path     string    `json:"path"`
	Expires  time.Time `json:"expires"`
	Secure   bool      `json:"secure"`
	HttpOnly bool      `json:"httpOnly"`
}

func (c *persistedCookie) key() string {
	return c.Domain + "|" + c.Path + "|" + c.Name
}

func (c *persistedCookie) expired(now time.Time) bool {
	return !c.Expires.IsZero() && now.After(c.Expires)
}

type cookieSnapshot struct {
	Cookies []persistedCookie `json:"cookies"`
}

// NewFileJar creates a cookie jar persisted at URL.
func NewFileJar(ctx context.Context, URL string) (*FileJar, error) {
	inner, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	j := &FileJar{inner: inner, fs: afs.New(), URL: URL, index: map[string]persistedCookie{}}
	if err = j.load(ctx); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *FileJar) Cookies(u *neturl.URL) []*http.Cookie {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.inner.Cookies(u)
}

func (j *FileJar) SetCookies(u *neturl.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.inner.SetCookies(u, cookies)
	now := time.Now()
	for _, c := range cookies {
		pc := persistedCookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   strings.TrimPrefix(strings.TrimSpace(c.Domain), "."),
			Path:     c.Path,
			Expires:  c.Expires,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
		}
		if pc.Domain == "" {
			pc.Domain = hostname(u.Host)
			pc.HostOnly = true
		}
		if !strings.HasPrefix(pc.Path, "/") {
			pc.Path = defaultCookiePath(u.Path)
		}
		switch {
		case c.MaxAge < 0:
			pc.Expires = now.Add(-time.Second)
		case c.MaxAge > 0:
			pc.Expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		}
		if pc.expired(now) {
			delete(j.index, pc.key())
			continue
		}
		j.index[pc.key()] = pc
	}
	_ = j.save(context.Background())
}

// Save writes the snapshot.
func (j *FileJar) Save(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.save(ctx)
}

func (j *FileJar) save(ctx context.Context) error {
	snap := cookieSnapshot{}
	now := time.Now()
	for k, v := range j.index {
		if v.expired(now) {
			delete(j.index, k)
			continue
		}
		snap.Cookies = append(snap.Cookies, v)
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return j.fs.Upload(ctx, j.URL, 0o600, bytes.NewReader(data))
}

func (j *FileJar) load(ctx context.Context) error {
	exists, err := j.fs.Exists(ctx, j.URL)
	if err != nil || !exists {
		return err
	}
	data, err := j.fs.DownloadWithURL(ctx, j.URL)
	if err != nil {
		return err
	}
	var snap cookieSnapshot
	if err = json.Unmarshal(data, &snap); err != nil {
		return err
	}
	now := time.Now()
	// Rehydrate into the inner jar using synthetic URLs constructed from cookie domain/path
	for _, pc := range snap.Cookies {
		if pc.expired(now) || pc.Domain == "" {
			continue
		}
		scheme := "http"
		if pc.Secure {
			scheme = "https"
		}
		cookie := &http.Cookie{
			Name:     pc.Name,
			Value:    pc.Value,
			Path:     pc.Path,
			Expires:  pc.Expires,
			Secure:   pc.Secure,
			HttpOnly: pc.HttpOnly,
		}
		if !pc.HostOnly {
			cookie.Domain = pc.Domain
		}
		j.inner.SetCookies(&neturl.URL{Scheme: scheme, Host: pc.Domain, Path: pc.Path}, []*http.Cookie{cookie})
		j.index[pc.key()] = pc
	}
	return nil
}

// defaultCookiePath is the directory of the request path, as cookiejar scopes
// a cookie sent without a Path attribute.
func defaultCookiePath(requestPath string) string {
	index := strings.LastIndex(requestPath, "/")
	if index <= 0 {
		return "/"
	}
	return requestPath[:index]
}

func hostname(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil && h != "" {
		host = h
	}
	return strings.TrimPrefix(host, ".")
}

package transport

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, rawURL string) *url.URL {
	t.Helper()
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	return u
}

func cookieValues(cookies []*http.Cookie) map[string]string {
	ret := map[string]string{}
	for _, c := range cookies {
		ret[c.Name] = c.Value
	}
	return ret
}

func TestFileJar_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	location := filepath.Join(t.TempDir(), "session", "cookies.json")
	u := mustParse(t, "http://127.0.0.1:8080/api/auth/login")

	jar, err := NewFileJar(ctx, location)
	require.NoError(t, err)
	jar.SetCookies(u, []*http.Cookie{
		{Name: "accessToken", Value: "a1", Path: "/", HttpOnly: true},
		{Name: "refreshToken", Value: "r1", Path: "/", MaxAge: 3600, HttpOnly: true},
		{Name: "stale", Value: "x", Path: "/", Expires: time.Now().Add(-time.Hour)},
	})
	_, err = os.Stat(location)
	require.NoError(t, err)

	reloaded, err := NewFileJar(ctx, location)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"accessToken": "a1", "refreshToken": "r1"},
		cookieValues(reloaded.Cookies(mustParse(t, "http://127.0.0.1:8080/api/product/search"))))
}

func TestFileJar_DeletesClearedCookies(t *testing.T) {
	ctx := context.Background()
	location := filepath.Join(t.TempDir(), "cookies.json")
	u := mustParse(t, "http://localhost:8080/api/auth/logout")

	jar, err := NewFileJar(ctx, location)
	require.NoError(t, err)
	jar.SetCookies(u, []*http.Cookie{{Name: "accessToken", Value: "a1", Path: "/"}})
	jar.SetCookies(u, []*http.Cookie{{Name: "accessToken", Value: "", Path: "/", MaxAge: -1}})
	assert.Empty(t, jar.Cookies(u))

	reloaded, err := NewFileJar(ctx, location)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Cookies(u))
}

func TestWrapWithCookieJar(t *testing.T) {
	jar, err := NewFileJar(context.Background(), filepath.Join(t.TempDir(), "cookies.json"))
	require.NoError(t, err)
	var sent map[string]string
	inner := RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
		sent = cookieValues(req.Cookies())
		resp := respond(req, http.StatusOK, `{}`)
		resp.Header.Add("Set-Cookie", "accessToken=a2; Path=/; HttpOnly")
		return resp, nil
	})
	rt := WrapWithCookieJar(inner, jar)
	u := mustParse(t, "http://127.0.0.1:9000/api/cart/my-cart")
	jar.SetCookies(u, []*http.Cookie{{Name: "accessToken", Value: "a1", Path: "/"}})

	req, err := http.NewRequest(http.MethodGet, u.String(), nil)
	require.NoError(t, err)
	_, err = rt.RoundTrip(req)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"accessToken": "a1"}, sent)
	assert.Empty(t, req.Cookies(), "caller request is not mutated")
	assert.Equal(t, map[string]string{"accessToken": "a2"}, cookieValues(jar.Cookies(u)))
}

func TestFileJar_DefaultPathSurvivesReload(t *testing.T) {
	ctx := context.Background()
	location := filepath.Join(t.TempDir(), "cookies.json")
	login := mustParse(t, "http://127.0.0.1:8080/api/auth/login")
	refresh := mustParse(t, "http://127.0.0.1:8080/api/auth/refresh")
	product := mustParse(t, "http://127.0.0.1:8080/api/product")

	jar, err := NewFileJar(ctx, location)
	require.NoError(t, err)
	jar.SetCookies(login, []*http.Cookie{{Name: "refreshToken", Value: "r1"}})

	reloaded, err := NewFileJar(ctx, location)
	require.NoError(t, err)
	for _, j := range []*FileJar{jar, reloaded} {
		assert.Empty(t, j.Cookies(product))
		assert.Equal(t, map[string]string{"refreshToken": "r1"}, cookieValues(j.Cookies(refresh)))
	}
}

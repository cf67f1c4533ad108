package transport

import (
	"net/http"
)

// cookieWrap is an http.RoundTripper that attaches cookies from a Jar
// before delegating to the inner RoundTripper, and stores response cookies
// back into the Jar. Installed below RoundTripper it makes every attempt,
// replays included, read the jar at send time.
type cookieWrap struct {
	inner http.RoundTripper
	jar   http.CookieJar
}

// WrapWithCookieJar wraps the provided RoundTripper so that cookies from the
// provided jar are sent and updated on each request/response.
func WrapWithCookieJar(inner http.RoundTripper, jar http.CookieJar) http.RoundTripper {
	if jar == nil || inner == nil {
		return inner
	}
	return &cookieWrap{inner: inner, jar: jar}
}

func (w *cookieWrap) RoundTrip(req *http.Request) (*http.Response, error) {
	// clone req to avoid mutating caller headers
	clone := req.Clone(req.Context())
	for _, c := range w.jar.Cookies(clone.URL) {
		if _, err := clone.Cookie(c.Name); err == nil {
			continue // explicit request cookie wins
		}
		clone.AddCookie(c)
	}
	resp, err := w.inner.RoundTrip(clone)
	if err != nil {
		return nil, err
	}
	if cookies := resp.Cookies(); len(cookies) > 0 {
		w.jar.SetCookies(clone.URL, cookies)
	}
	return resp, nil
}

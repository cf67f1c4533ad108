// Package transport implements an http.RoundTripper that transparently recovers
// from expired sessions.
//
// When the storefront API answers `401 Unauthorized` or `403 Forbidden`, the
// RoundTripper performs one refresh exchange (POST /api/auth/refresh by default)
// no matter how many requests fail at the same time. Requests failing while the
// refresh is in flight wait for it. Once it settles they are all replayed, or all
// rejected with a *RefreshError. A request is replayed at most once. A second
// auth failure is handed to the caller as is.
//
// Session credentials are never read by the RoundTripper. Cookies are carried by
// WrapWithCookieJar (optionally persisted with FileJar), and bearer tokens by
// oauth2.Transport fed from a TokenRefresher. Both sit below the interceptor, so
// a replay always leaves with the renewed credentials.
package transport

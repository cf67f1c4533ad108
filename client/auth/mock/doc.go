// Package mock provides an in-process stand-in for the storefront API that
// facilitates testing of the session refresh flow.
//
// Service issues session cookies as signed JWTs, serves the auth endpoints and a
// generic /api/{resource} CRUD surface, and exposes hooks to expire sessions,
// fail or gate the refresh endpoint, and count calls per path. Use it with
// httptest.NewServer(service.Handler()).
package mock

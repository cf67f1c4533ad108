// Package auth exposes the storefront session operations: login, registration,
// logout, the current user profile and password recovery.
//
// Service sits on top of a client.Client whose transport is a
// transport.RoundTripper. Credential-submitting calls carry the retry marker,
// so a wrong password is reported as is instead of triggering a session refresh.
package auth

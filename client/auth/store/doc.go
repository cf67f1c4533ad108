// Package store defines the token store used by the bearer-token refresher in
// the `transport` package.
//
// It ships with an in-memory implementation for tests and a file-backed one that
// lets a CLI keep its session between runs.
package store

// Package runner implements the storefront command line: it loads the client
// configuration, optionally logs in, issues one API request and prints the answer.
package runner

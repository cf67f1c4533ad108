package client

import (
	"net/http"
	"net/url"
)

// Request describes one API call. Path is resolved against the client base URL.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	// Body is sent as is when []byte, string or io.Reader, and JSON-encoded otherwise.
	Body any
}

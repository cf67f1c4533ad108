package transport

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// descriptor captures an outbound request so it can be re-issued unchanged.
type descriptor struct {
	id      string
	request *http.Request
	body    []byte
	retried bool
}

func newDescriptor(req *http.Request) (*descriptor, error) {
	ret := &descriptor{
		id:      uuid.NewString(),
		request: req,
		retried: HasRetryMarker(req.Context()),
	}
	if req.Body == nil || req.Body == http.NoBody {
		return ret, nil
	}
	body, err := io.ReadAll(req.Body)
	_ = req.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	ret.body = body
	return ret, nil
}

// attempt returns a fresh copy of the captured request with its own body reader.
func (d *descriptor) attempt() *http.Request {
	cloned := d.request.Clone(d.request.Context())
	if d.body != nil {
		cloned.Body = io.NopCloser(bytes.NewReader(d.body))
		cloned.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(d.body)), nil
		}
		cloned.ContentLength = int64(len(d.body))
	}
	return cloned
}

// errorMessage extracts the server provided message, falling back to the status text.
func errorMessage(status int, body []byte) string {
	if gjson.ValidBytes(body) {
		if message := gjson.GetBytes(body, "message").String(); message != "" {
			return message
		}
	}
	return http.StatusText(status)
}

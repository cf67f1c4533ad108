package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/raumania/storefront/client/auth/transport"
	"github.com/tidwall/gjson"
)

// Error is a non-2xx API answer.
type Error struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	Body       []byte
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Message)
}

func newError(req *Request, status int, body []byte) *Error {
	message := gjson.GetBytes(body, "message").String()
	if message == "" {
		message = http.StatusText(status)
	}
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	return &Error{Method: method, Path: req.Path, StatusCode: status, Message: message, Body: body}
}

// IsStatus reports whether err is an *Error with the given status code.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// IsSessionExpired reports whether err comes from a failed session refresh.
// The user has to log in again.
func IsSessionExpired(err error) bool {
	return errors.Is(err, transport.ErrRefreshFailed)
}

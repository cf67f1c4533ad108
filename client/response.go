package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// ErrNoResult is returned when a response envelope carries no result.
var ErrNoResult = errors.New("response has no result")

// Response is a successful (2xx) answer with its body fully read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the raw body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

// Result unmarshals the `result` field of the response envelope into v.
func (r *Response) Result(v any) error {
	result := gjson.GetBytes(r.Body, "result")
	if !result.Exists() || result.Type == gjson.Null {
		return ErrNoResult
	}
	if err := json.Unmarshal([]byte(result.Raw), v); err != nil {
		return fmt.Errorf("failed to decode response result: %w", err)
	}
	return nil
}

// Message returns the envelope message, if any.
func (r *Response) Message() string {
	return gjson.GetBytes(r.Body, "message").String()
}

// Envelope is the API response wrapper. The server spells the code `status`;
// some handlers use `statusCode`.
type Envelope[T any] struct {
	Status     int    `json:"status,omitempty"`
	StatusCode int    `json:"statusCode,omitempty"`
	Message    string `json:"message,omitempty"`
	Result     T      `json:"result"`
}

// Code returns whichever status spelling was set.
func (e *Envelope[T]) Code() int {
	if e.Status != 0 {
		return e.Status
	}
	return e.StatusCode
}

// Page is the paging payload of list and search endpoints.
type Page[T any] struct {
	Content       []T `json:"content"`
	PageNumber    int `json:"pageNumber"`
	PageSize      int `json:"pageSize"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
}

// DecodeEnvelope decodes the whole response envelope.
func DecodeEnvelope[T any](r *Response) (*Envelope[T], error) {
	ret := &Envelope[T]{}
	if err := r.Decode(ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// Result decodes the envelope result of r as T.
func Result[T any](r *Response) (*T, error) {
	ret := new(T)
	if err := r.Result(ret); err != nil {
		return nil, err
	}
	return ret, nil
}

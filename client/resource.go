package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
)

// Resource is a CRUD endpoint such as /api/brand. Items are opaque JSON.
type Resource struct {
	client *Client
	path   string
}

// Resource returns the CRUD helper for path.
func (c *Client) Resource(path string) *Resource {
	return &Resource{client: c, path: "/" + strings.Trim(path, "/")}
}

func (r *Resource) Path() string {
	return r.path
}

func (r *Resource) itemPath(id string) string {
	return r.path + "/" + url.PathEscape(id)
}

func (r *Resource) List(ctx context.Context, query url.Values) (*Page[json.RawMessage], error) {
	return send[Page[json.RawMessage]](ctx, r.client, &Request{Method: http.MethodGet, Path: r.path, Query: query})
}

// Search calls {path}/search, the filtered listing of product-like resources.
func (r *Resource) Search(ctx context.Context, query url.Values) (*Page[json.RawMessage], error) {
	return send[Page[json.RawMessage]](ctx, r.client, &Request{Method: http.MethodGet, Path: r.path + "/search", Query: query})
}

func (r *Resource) Get(ctx context.Context, id string) (json.RawMessage, error) {
	return sendRaw(ctx, r.client, &Request{Method: http.MethodGet, Path: r.itemPath(id)})
}

func (r *Resource) Create(ctx context.Context, body any) (json.RawMessage, error) {
	return sendRaw(ctx, r.client, &Request{Method: http.MethodPost, Path: r.path, Body: body})
}

// Update replaces the item.
func (r *Resource) Update(ctx context.Context, id string, body any) (json.RawMessage, error) {
	return sendRaw(ctx, r.client, &Request{Method: http.MethodPut, Path: r.itemPath(id), Body: body})
}

// Patch merges body into the item.
func (r *Resource) Patch(ctx context.Context, id string, body any) (json.RawMessage, error) {
	return sendRaw(ctx, r.client, &Request{Method: http.MethodPatch, Path: r.itemPath(id), Body: body})
}

func (r *Resource) Delete(ctx context.Context, id string) error {
	_, err := r.client.Do(ctx, &Request{Method: http.MethodDelete, Path: r.itemPath(id)})
	return err
}

func send[T any](ctx context.Context, c *Client, req *Request) (*T, error) {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	return Result[T](resp)
}

func sendRaw(ctx context.Context, c *Client, req *Request) (json.RawMessage, error) {
	ret, err := send[json.RawMessage](ctx, c, req)
	if err != nil {
		return nil, err
	}
	return *ret, nil
}

// Package client implements a high-level Go client for the storefront REST API.
//
// It is a thin wrapper around an *http.Client and adds:
//   - Verb helpers (`Get`, `Post`, `Put`, `Patch`, `Delete`) resolving paths
//     against a base URL and JSON-encoding request bodies.
//   - Typed errors for non-2xx answers carrying the server `message`.
//   - Decoding of the `{status, message, result}` envelope and its paging payload.
//   - A generic Resource helper for CRUD endpoints such as /api/brand.
//   - Optional rate limiting.
//
// Session recovery is not done here. Install a transport.RoundTripper as the
// http.Client transport and every verb transparently survives an expired session.
//
// Example:
//
//	rt, _ := transport.New(transport.WithCookieJar(jar), transport.WithRefreshURL(baseURL+transport.DefaultRefreshPath))
//	cli, _ := client.New(baseURL, client.WithHTTPClient(&http.Client{Transport: rt}))
//	page, _ := cli.Resource("/api/brand").List(ctx, nil)
//	fmt.Println(page.TotalElements)
package client

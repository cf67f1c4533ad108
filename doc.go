// Package storefront provides a high-level entry point for the storefront API
// client.
//
// It glues the client, transport and store sub-packages together behind a
// configuration structure that can be populated from CLI flags or YAML files.
// NewClient returns a client whose transport transparently refreshes an expired
// session, either through the cookie based refresh endpoint or, when an OAuth2
// client config is given, with a bearer token refreshed against the provider.
//
// Example:
//
//	options := &storefront.ClientOptions{BaseURL: "http://localhost:8080", CookieFile: "~/.storefront/cookies.json"}
//	cli, _ := storefront.NewClient(options)
//	page, _ := cli.Resource("/api/product").Search(ctx, url.Values{"name": {"santal"}})
package storefront

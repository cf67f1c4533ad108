package transport

import "context"

type (
	contextKey string
)

const (
	// ContextRetryMarkerKey marks a request that must not go through the refresh path.
	ContextRetryMarkerKey contextKey = "retryMarker"
)

// WithRetryMarker returns a context whose requests are passed through on 401/403
// without starting a refresh, as if they had already been replayed once.
func WithRetryMarker(ctx context.Context) context.Context {
	return context.WithValue(ctx, ContextRetryMarkerKey, true)
}

// HasRetryMarker reports whether ctx carries the retry marker.
func HasRetryMarker(ctx context.Context) bool {
	if v := ctx.Value(ContextRetryMarkerKey); v != nil {
		marked, _ := v.(bool)
		return marked
	}
	return false
}

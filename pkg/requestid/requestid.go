// Package requestid carries the per-request correlation id through a
// context so outbound calls can forward it.
package requestid

import "context"

// Header is the HTTP header the id travels in
const Header = "X-Request-Id"

type key struct{}

func With(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, key{}, rid)
}

// From returns the id stored in ctx, or ""
func From(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if rid, ok := ctx.Value(key{}).(string); ok {
		return rid
	}
	return ""
}

package identity

import "context"

type callerKey struct{}

// WithCaller returns a context carrying p as the caller principal.
func WithCaller(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, callerKey{}, p)
}

// CallerFrom returns the caller principal stored in ctx, if any.
func CallerFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(callerKey{}).(Principal)
	if !ok || len(p) == 0 {
		return nil, false
	}
	return p, true
}

package blueprint

import "context"

type contextKey int

const ctxKeyAppID contextKey = iota

// WithApp returns a context carrying the given app ID.
// Use this for standalone mode (without Forge).
func WithApp(ctx context.Context, appID string) context.Context {
	return context.WithValue(ctx, ctxKeyAppID, appID)
}

func appIDFromContext(ctx context.Context) string {
	v, ok := ctx.Value(ctxKeyAppID).(string)
	if !ok {
		return ""
	}
	return v
}

package authctx

import "context"

type contextKey string

const sessionContextKey contextKey = "session"

// Session describes the authenticated caller. The tool has a single shared
// login, so there is no per-user identity beyond the subject/role pair.
type Session struct {
	Subject string
	Role    string
}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, s)
}

func FromContext(ctx context.Context) *Session {
	val, ok := ctx.Value(sessionContextKey).(Session)
	if !ok {
		return nil
	}
	return &val
}

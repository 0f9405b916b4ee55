package httpx

import "context"

type ctxKey string

// CtxKeyUserID carries the authenticated user's ID (int64) once the authn
// middleware has verified the access token.
const CtxKeyUserID ctxKey = "user_id"

// ContextWithUserID returns a context carrying the authenticated user ID.
func ContextWithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, CtxKeyUserID, userID)
}

// UserIDFromContext extracts the authenticated user ID placed by the authn
// middleware. ok is false when the request was never authenticated.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(CtxKeyUserID).(int64)
	return id, ok
}

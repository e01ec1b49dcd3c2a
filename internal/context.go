package internal

import (
	"context"
	"time"
)

type ctxKey string

const contextIdentityKey ctxKey = "identity"

// Identity is the verified caller extracted from a bearer token. The role is
// the one embedded at token issuance, not the user's current role.
type Identity struct {
	UserID int64
	Email  string
	Name   string
	RoleID int64
}

func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	if ctx == nil {
		return nil, false
	}
	id, ok := ctx.Value(contextIdentityKey).(*Identity)
	return id, ok
}

func ContextWithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, contextIdentityKey, id)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}

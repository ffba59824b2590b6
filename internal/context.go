package internal

import (
	"context"
	"time"
)

// SessionUser is the authenticated identity carried through a request. It is
// established once at login and attached to the context by the auth
// middleware, so workflows never re-derive the caller per interaction.
type SessionUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

const (
	RoleUser    = "user"
	RoleManager = "manager"
)

func (u *SessionUser) IsManager() bool {
	return u.Role == RoleManager
}

type ctxKey string

const ContextUserKey ctxKey = "user"

func UserFromContext(ctx context.Context) (*SessionUser, bool) {
	if ctx == nil {
		return nil, false
	}
	u, ok := ctx.Value(ContextUserKey).(*SessionUser)
	return u, ok
}

func ContextWithUser(ctx context.Context, u *SessionUser) context.Context {
	return context.WithValue(ctx, ContextUserKey, u)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}

// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// SystemActor is recorded as the author of writes made without an authenticated user.
const SystemActor = "system"

// UserContext contains the authenticated actor.
// It is used for attribution only; authorization happens upstream.
type UserContext struct {
	UserID    string
	Email     string
	Roles     []string
	SessionID string
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUserID returns user ID from context or empty string.
func GetUserID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return ""
}

// ActorID returns the user ID for attribution, falling back to SystemActor.
func ActorID(ctx context.Context) string {
	if uid := GetUserID(ctx); uid != "" {
		return uid
	}
	return SystemActor
}

// WithActor is a shorthand for WithUser with only a user ID.
func WithActor(ctx context.Context, userID string) context.Context {
	return WithUser(ctx, &UserContext{UserID: userID})
}

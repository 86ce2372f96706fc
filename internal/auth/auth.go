// Package auth carries the owner identity of a call and verifies the bearer
// tokens it comes from.
package auth

import (
	"context"
	"errors"
)

// ErrUnauthenticated is returned by owner-scoped operations called without a user.
var ErrUnauthenticated = errors.New("user not authenticated")

type contextKey struct{}

func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

// UserID returns the owner id stored on ctx.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(contextKey{}).(string)
	return id, ok && id != ""
}

// RequireUser is UserID with ErrUnauthenticated for a missing owner.
func RequireUser(ctx context.Context) (string, error) {
	id, ok := UserID(ctx)
	if !ok {
		return "", ErrUnauthenticated
	}

	return id, nil
}

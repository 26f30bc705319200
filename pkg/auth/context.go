package auth

import (
	"context"

	pkgerrors "github.com/ndlib/mellon-blueprints/pkg/errors"
)

type contextKey string

const userContextKey contextKey = "user"

// UserContext identifies the authenticated caller. For portfolio mutations
// the UserID is the ownership boundary.
type UserContext struct {
	UserID string
	Email  string
	Groups []string
}

// WithUser attaches the caller identity to the context.
func WithUser(ctx context.Context, user UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUserFromContext extracts the caller identity set by the auth middleware
// or the resolver dispatcher.
func GetUserFromContext(ctx context.Context) (UserContext, error) {
	user, ok := ctx.Value(userContextKey).(UserContext)
	if !ok || user.UserID == "" {
		return UserContext{}, pkgerrors.NewUnauthorizedError("no authenticated user in context")
	}
	return user, nil
}

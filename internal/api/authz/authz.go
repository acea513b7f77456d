// Package authz carries the authenticated user through request contexts and
// answers role questions.
package authz

import (
	"context"
	"errors"

	"github.com/codr1/muniplay/internal/models"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)

// AuthUser is the request-scoped identity established by the auth
// middleware.
type AuthUser struct {
	ID    int64
	Email string
	Role  string
}

type userContextKey struct{}

func ContextWithUser(ctx context.Context, user *AuthUser) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext retrieves the AuthUser stored in ctx.
// It returns nil if ctx is nil, if no user is stored, or if the stored value
// has a different type.
func UserFromContext(ctx context.Context) *AuthUser {
	if ctx == nil {
		return nil
	}

	user, ok := ctx.Value(userContextKey{}).(*AuthUser)
	if !ok {
		return nil
	}

	return user
}

// IsAdmin reports whether the given AuthUser represents an administrator.
func IsAdmin(user *AuthUser) bool {
	return user != nil && user.Role == models.RoleAdmin
}

// RequireUser returns the authenticated user or ErrUnauthenticated.
func RequireUser(ctx context.Context) (*AuthUser, error) {
	user := UserFromContext(ctx)
	if user == nil {
		return nil, ErrUnauthenticated
	}
	return user, nil
}

// RequireAdmin returns the authenticated user when it is an administrator,
// ErrUnauthenticated when nobody is logged in, and ErrForbidden otherwise.
func RequireAdmin(ctx context.Context) (*AuthUser, error) {
	user := UserFromContext(ctx)
	if user == nil {
		return nil, ErrUnauthenticated
	}
	if !IsAdmin(user) {
		return nil, ErrForbidden
	}
	return user, nil
}

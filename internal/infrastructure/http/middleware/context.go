package middleware

import (
	"context"

	"github.com/petim7277/Qonnect-sub000/internal/domain"
)

type contextKey string

const (
	principalContextKey contextKey = "principal"
	tokenContextKey     contextKey = "access_token"
)

// WithPrincipal injects the authenticated user and the bearer token into the context.
func WithPrincipal(ctx context.Context, user *domain.User, accessToken string) context.Context {
	ctx = context.WithValue(ctx, principalContextKey, user)
	return context.WithValue(ctx, tokenContextKey, accessToken)
}

// PrincipalFromContext returns the user resolved by Authenticator, or nil.
func PrincipalFromContext(ctx context.Context) *domain.User {
	u, _ := ctx.Value(principalContextKey).(*domain.User)
	return u
}

// AccessTokenFromContext returns the bearer token the principal was resolved from.
func AccessTokenFromContext(ctx context.Context) string {
	s, _ := ctx.Value(tokenContextKey).(string)
	return s
}
